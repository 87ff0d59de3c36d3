package formatter

import (
	"strings"

	"github.com/alexanderramin/twelveweeks/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox palette shared by tables, the dashboard and the huh theme.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

var (
	StyleGreen  = fg(ColorGreen)
	StyleYellow = fg(ColorYellow)
	StyleRed    = fg(ColorRed)
	StyleBlue   = fg(ColorBlue)
	StylePurple = fg(ColorPurple)
	StyleDim    = fg(ColorDim)
	StyleFg     = fg(ColorFg)
	StyleHeader = fg(ColorHeader).Bold(true)
	StyleBold   = fg(ColorFg).Bold(true)
)

// Completion rates at or above these thresholds render green or yellow.
const (
	rateGood = 66
	rateFair = 33
)

// RateColor picks the style for a completion percentage.
func RateColor(rate int) lipgloss.Style {
	if rate >= rateGood {
		return StyleGreen
	}
	if rate >= rateFair {
		return StyleYellow
	}
	return StyleRed
}

var priorityMarks = map[domain.Priority]string{
	domain.PriorityHigh:   StyleRed.Render("▲ high"),
	domain.PriorityMedium: StyleYellow.Render("● medium"),
	domain.PriorityLow:    StyleDim.Render("▽ low"),
}

// PriorityIndicator renders a priority as a colored marker. Unknown values
// render as medium, the API default.
func PriorityIndicator(p domain.Priority) string {
	if m, ok := priorityMarks[p]; ok {
		return m
	}
	return priorityMarks[domain.PriorityMedium]
}

func Check(done bool) string {
	if done {
		return StyleGreen.Render("✔")
	}
	return StyleDim.Render("○")
}

// Header renders an upper-cased section title underlined to its width.
func Header(text string) string {
	title := strings.ToUpper(text)
	rule := strings.Repeat("─", lipgloss.Width(title))
	return StyleHeader.Render(title) + "\n" + StyleDim.Render(rule)
}

func Dim(text string) string  { return StyleDim.Render(text) }
func Bold(text string) string { return StyleBold.Render(text) }
