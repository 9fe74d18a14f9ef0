package ui

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Budget is how much of the total is still unallocated.
type Budget int

const (
	// BudgetOpen leaves plenty to hand out.
	BudgetOpen Budget = iota
	// BudgetTight has less than a tenth of the maximum left.
	BudgetTight
	// BudgetFull has nothing left.
	BudgetFull
)

// BudgetOf classifies remaining against limit.
func BudgetOf(remaining, limit decimal.Decimal) Budget {
	switch {
	case !remaining.IsPositive():
		return BudgetFull
	case limit.IsPositive() && remaining.Mul(decimal.NewFromInt(10)).LessThan(limit):
		return BudgetTight
	}
	return BudgetOpen
}

// Palette holds ANSI-256 color numbers for lipgloss renderers. An empty
// entry means "no color".
type Palette struct {
	Title, Muted, Accent, Success, Pending, Error, Border string
}

// Theme bundles the ANSI codes, symbols and box borders for plain output plus
// the palette for the interactive widget.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending string
	BarFull, BarEmpty                             string
	CornerTL, CornerTR, CornerBL, CornerBR        string
	H, V                                          string
	SymAllocated, SymEmpty                        string
	SymOK, SymFail, SymWarn                       string

	Palette Palette
}

// BudgetColor is the ANSI code for a budget state.
func (t Theme) BudgetColor(b Budget) string {
	switch b {
	case BudgetFull:
		return t.Success
	case BudgetTight:
		return t.Pending
	}
	return t.Accent
}

// BudgetHue is the palette color for a budget state.
func (p Palette) BudgetHue(b Budget) string {
	switch b {
	case BudgetFull:
		return p.Success
	case BudgetTight:
		return p.Pending
	}
	return p.Accent
}

var current Theme

func init() { SetTheme("classic") }

// SetTheme switches the palette. Unknown names fall back to classic.
func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Name:  "neon",
			Title: "\033[95m", Muted: fgGray, Accent: "\033[96m",
			Success: "\033[92m", Error: fgRed, Pending: "\033[93m",
			BarFull: "▰", BarEmpty: "▱",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			SymAllocated: "◆", SymEmpty: "◇",
			SymOK: "✔", SymFail: "✖", SymWarn: "▲",
			Palette: Palette{
				Title: "201", Muted: "244", Accent: "51",
				Success: "118", Pending: "226", Error: "197", Border: "99",
			},
		}
	case "mono":
		disableColor = true
		current = Theme{
			Name:    "mono",
			BarFull: "#", BarEmpty: ".",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			SymAllocated: "*", SymEmpty: "-",
			SymOK: "ok", SymFail: "error:", SymWarn: "note:",
		}
	default:
		current = Theme{
			Name:  "classic",
			Title: bold, Muted: fgGray, Accent: fgBlue,
			Success: fgGreen, Error: fgRed, Pending: fgYellow,
			BarFull: "█", BarEmpty: "░",
			CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
			H: "─", V: "│",
			SymAllocated: "●", SymEmpty: "○",
			SymOK: "✔", SymFail: "✖", SymWarn: "!",
			Palette: Palette{
				Title: "15", Muted: "245", Accent: "12",
				Success: "42", Pending: "214", Error: "9", Border: "8",
			},
		}
	}
}

func Current() Theme { return current }
