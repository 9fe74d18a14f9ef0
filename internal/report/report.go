// Package report renders an allocation set as a printable PDF.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/idilsaglam/sliders/internal/allocation"
)

const barWidth = 90.0 // mm

// WritePDF draws one row per entry (name, bar, value) followed by the total
// and what is left to allocate.
func WritePDF(w io.Writer, title string, set *allocation.Set, now time.Time) error {
	bounds := set.Bounds()
	entries := set.Entries()
	total := set.Total()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreationDate(now)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(110, 110, 110)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s  -  bounds %s to %s", now.Format("2006-01-02 15:04"), bounds.Min, bounds.Max))
	pdf.Ln(12)
	pdf.SetTextColor(0, 0, 0)

	pdf.SetFont("Helvetica", "", 12)
	if len(entries) == 0 {
		pdf.Cell(0, 8, "No allocations.")
		pdf.Ln(8)
	}
	for _, e := range entries {
		x, y := pdf.GetX(), pdf.GetY()
		pdf.CellFormat(60, 8, truncate(e.Name, 28), "", 0, "L", false, 0, "")

		pdf.SetFillColor(230, 230, 230)
		pdf.Rect(x+62, y+1.5, barWidth, 5, "F")
		if fill := share(e.Value, bounds.Max) * barWidth; fill > 0 {
			pdf.SetFillColor(66, 133, 244)
			pdf.Rect(x+62, y+1.5, fill, 5, "F")
		}
		pdf.SetX(x + 62 + barWidth + 4)
		pdf.CellFormat(0, 8, e.Value.String(), "", 1, "R", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %s / %s", total, bounds.Max))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Remaining: %s", set.Remaining()))
	pdf.Ln(7)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func share(v, limit decimal.Decimal) float64 {
	if !limit.IsPositive() {
		return 0
	}
	f, _ := v.Div(limit).Float64()
	return min(max(f, 0), 1)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
