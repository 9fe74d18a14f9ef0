package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/shopspring/decimal"
)

// AllocationBar renders value's share of max as a bar with a percentage.
func AllocationBar(value, limit decimal.Decimal, width int) string {
	if width < 5 {
		width = 5
	}
	t := Current()
	if !limit.IsPositive() {
		return strings.Repeat(t.BarEmpty, width) + "   0%"
	}
	share := value.Div(limit)
	filled := int(share.Mul(decimal.NewFromInt(int64(width))).IntPart())
	filled = max(0, min(filled, width))
	pct := share.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return fmt.Sprintf("%s%s %3d%%", strings.Repeat(t.BarFull, filled), strings.Repeat(t.BarEmpty, width-filled), pct)
}

// PanelString frames lines in a box using the current theme.
func PanelString(lines []string) string {
	t := Current()
	maxw := 0
	for _, ln := range lines {
		if w := ansi.StringWidth(ln); w > maxw {
			maxw = w
		}
	}
	var b strings.Builder
	b.WriteString(t.CornerTL + strings.Repeat(t.H, maxw+2) + t.CornerTR + "\n")
	for _, ln := range lines {
		pad := strings.Repeat(" ", maxw-ansi.StringWidth(ln))
		b.WriteString(t.V + " " + ln + pad + " " + t.V + "\n")
	}
	b.WriteString(t.CornerBL + strings.Repeat(t.H, maxw+2) + t.CornerBR + "\n")
	return b.String()
}

// Panel draws a framed box on w.
func Panel(w io.Writer, lines []string) {
	fmt.Fprint(w, PanelString(lines))
}
