package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mathfacts/internal/drill"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	problemStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Padding(1, 4).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("57"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 2)

	winStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("11")).
			Padding(1, 4).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("11"))
)

// feedbackStyles colors each feedback category.
var feedbackStyles = map[drill.Feedback]lipgloss.Style{
	drill.FeedbackCorrect:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	drill.FeedbackIncorrect:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	drill.FeedbackInvalidInput: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	drill.FeedbackRestarted:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	drill.FeedbackAdvanced:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
	drill.FeedbackWon:          lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
}

func renderFeedback(f drill.Feedback) string {
	style, ok := feedbackStyles[f]
	if !ok {
		return ""
	}
	return style.Render(f.Message())
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}

// centerBlock centers a multi-line block within width.
func centerBlock(block string, width int) string {
	if width <= 0 {
		return block
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, block)
}
