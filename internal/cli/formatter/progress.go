package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a completion percentage as a bar like
// [████░░░░]  45%, colored by RateColor.
func RenderProgress(rate int, width int) string {
	rate = clampRate(rate)
	return fmt.Sprintf("[%s] %3d%%", RenderCompactBar(rate, width, false), rate)
}

// RenderCompactBar renders the bar alone. A dimmed bar is uncolored.
func RenderCompactBar(rate int, width int, dim bool) string {
	rate = clampRate(rate)
	if width < 2 {
		width = 2
	}
	filled := rate * width / 100
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	if dim {
		return StyleDim.Render(bar)
	}
	return RateColor(rate).Render(bar)
}

func clampRate(rate int) int {
	if rate < 0 {
		return 0
	}
	if rate > 100 {
		return 100
	}
	return rate
}
