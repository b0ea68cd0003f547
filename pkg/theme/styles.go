package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arthur-debert/dotlink/pkg/palette"
)

// Styles is the terminal style set derived from one palette. The
// Manager rebuilds it on every successful swap so rendered output
// follows the active colors.
type Styles struct {
	Title   lipgloss.Style
	Accent  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles derives the style set from p using the conventional ANSI
// role assignments: red for errors, green for success, yellow for
// warnings, blue for accents, bright black for muted text.
func NewStyles(p palette.Palette) Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Foreground)).Bold(true),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color(4))).Bold(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color(2))),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color(1))).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color(3))),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color(8))),
	}
}

// Swatches renders the sixteen terminal colors as background blocks,
// normal colors on the first row and bright colors on the second.
func Swatches(p palette.Palette) string {
	var b strings.Builder
	for i := 0; i < palette.TerminalColors; i++ {
		if i == palette.TerminalColors/2 {
			b.WriteString("\n")
		}
		b.WriteString(lipgloss.NewStyle().
			Background(lipgloss.Color(p.Color(i))).
			Render("   "))
	}
	return b.String()
}
