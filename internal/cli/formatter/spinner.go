package formatter

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// lineSpinner draws the same frames as the dashboard spinner, but on a plain
// writer for one-shot commands that do not run a Bubble Tea program.
type lineSpinner struct {
	out    io.Writer
	label  string
	frames spinner.Spinner

	cancel context.CancelFunc
	exited chan struct{}
	once   sync.Once
}

// StartSpinner animates label on w until the returned func is called. The
// line is cleared on stop, so later output starts at column zero. The stop
// func may be called more than once.
func StartSpinner(w io.Writer, label string) func() {
	ctx, cancel := context.WithCancel(context.Background())
	s := &lineSpinner{
		out:    w,
		label:  label,
		frames: spinner.MiniDot,
		cancel: cancel,
		exited: make(chan struct{}),
	}
	go s.run(ctx)
	return s.stop
}

func (s *lineSpinner) run(ctx context.Context) {
	defer close(s.exited)
	tick := time.NewTicker(s.frames.FPS)
	defer tick.Stop()

	n := 0
	for {
		select {
		case <-ctx.Done():
			fmt.Fprint(s.out, "\r\033[K")
			return
		case <-tick.C:
			frame := s.frames.Frames[n%len(s.frames.Frames)]
			fmt.Fprintf(s.out, "\r  %s %s", StylePurple.Render(frame), Dim(s.label))
			n++
		}
	}
}

func (s *lineSpinner) stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.exited
	})
}
