package tui

import (
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/sliders/internal/ui"
)

// styles are derived from the active ui theme so --theme reaches the widget.
type styles struct {
	palette ui.Palette

	title, muted, success, pending, err lipgloss.Style
	selected, frame                     lipgloss.Style
}

func color(code string) lipgloss.TerminalColor {
	if code == "" {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(code)
}

func newStyles(t ui.Theme) styles {
	p := t.Palette
	return styles{
		palette:  p,
		title:    lipgloss.NewStyle().Bold(true).Foreground(color(p.Title)),
		muted:    lipgloss.NewStyle().Faint(true).Foreground(color(p.Muted)),
		success:  lipgloss.NewStyle().Foreground(color(p.Success)),
		pending:  lipgloss.NewStyle().Foreground(color(p.Pending)),
		err:      lipgloss.NewStyle().Foreground(color(p.Error)).Bold(true),
		selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color(p.Border)).
			Padding(0, 1),
	}
}

// budget colors text by how much of the total is still open.
func (s styles) budget(b ui.Budget) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(color(s.palette.BudgetHue(b)))
}

// newBars builds the slider bar in the theme's characters and colors.
func newBars(t ui.Theme) progress.Model {
	full, _ := utf8.DecodeRuneInString(t.BarFull)
	empty, _ := utf8.DecodeRuneInString(t.BarEmpty)
	bars := progress.New(
		progress.WithSolidFill(t.Palette.Accent),
		progress.WithFillCharacters(full, empty),
		progress.WithoutPercentage(),
	)
	bars.EmptyColor = t.Palette.Muted
	return bars
}
