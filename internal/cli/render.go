package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/idilsaglam/sliders/internal/allocation"
	"github.com/idilsaglam/sliders/internal/model"
	"github.com/idilsaglam/sliders/internal/report"
	"github.com/idilsaglam/sliders/internal/store/jsonstore"
	"github.com/idilsaglam/sliders/internal/ui"
)

func doExport(ctx context.Context, opt Options, url string) int {
	s, err := openSession(ctx, opt)
	if err != nil {
		return fail(opt, err)
	}
	defer s.close(opt.log())

	snap := s.set.Snapshot()
	if url != "" {
		if err := jsonstore.Publish(ctx, opt.HTTPClient, url, snap); err != nil {
			return fail(opt, err)
		}
		ui.OK(fmt.Sprintf("published %d entries", len(snap)))
		return 0
	}
	b, err := json.Marshal(snap)
	if err != nil {
		return fail(opt, fmt.Errorf("json marshal: %w", err))
	}
	fmt.Fprintln(opt.out(), string(b))
	return 0
}

func doReport(ctx context.Context, opt Options, path string) int {
	s, err := openSession(ctx, opt)
	if err != nil {
		return fail(opt, err)
	}
	defer s.close(opt.log())

	f, err := os.Create(path)
	if err != nil {
		return fail(opt, fmt.Errorf("create report: %w", err))
	}
	if err := report.WritePDF(f, "Allocations", s.set, opt.now()); err != nil {
		_ = f.Close()
		return fail(opt, err)
	}
	if err := f.Close(); err != nil {
		return fail(opt, fmt.Errorf("close report: %w", err))
	}
	ui.OK("report written to " + path)
	return 0
}

// -------------- rendering helpers --------------

func listLines(set *allocation.Set, group bool) []string {
	entries := set.Entries()
	bounds := set.Bounds()
	total := set.Total()
	allocated, empty := stats(entries)

	remaining := set.Remaining()
	budget := ui.C(ui.Current().BudgetColor(ui.BudgetOf(remaining, bounds.Max)), fmt.Sprintf("%s/%s", total, bounds.Max))

	t := ui.Current()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %s",
		ui.C(t.Title, "Allocations"),
		ui.C(t.Success, t.SymAllocated), allocated,
		ui.C(t.Pending, t.SymEmpty), empty,
		ui.C(t.Accent, "Total"), budget,
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(t.Muted, "remaining ")+ui.AllocationBar(remaining, bounds.Max, 28))
	lines = append(lines, "")

	if group {
		lines = append(lines, groupLines(entries, bounds)...)
	} else {
		lines = append(lines, flatLines(entries, bounds)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: move a slider with `sliders set <id> <value>`"))
	return lines
}

func stats(entries []model.Entry) (allocated, empty int) {
	for _, e := range entries {
		if e.Value.IsPositive() {
			allocated++
		} else {
			empty++
		}
	}
	return
}

func flatLines(entries []model.Entry, bounds allocation.Config) []string {
	if len(entries) == 0 {
		return []string{ui.C(ui.Current().Muted, "no entries")}
	}
	t := ui.Current()
	width := 0
	for _, e := range entries {
		width = max(width, len([]rune(displayName(e.Name))))
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		sym, color := t.SymEmpty, t.Muted
		if e.Value.IsPositive() {
			sym, color = t.SymAllocated, t.Success
		}
		name := displayName(e.Name)
		name += strings.Repeat(" ", width-len([]rune(name)))
		out = append(out, fmt.Sprintf("%s %s %s %s %s",
			ui.C(ui.Dim, fmt.Sprintf("%3d.", e.ID)), ui.C(color, sym), name,
			ui.AllocationBar(e.Value, bounds.Max, 20), e.Value))
	}
	return out
}

func displayName(s string) string {
	r := []rune(s)
	if len(r) > 40 {
		return string(r[:37]) + "..."
	}
	return s
}

func groupLines(entries []model.Entry, bounds allocation.Config) []string {
	var withShare, without []model.Entry
	for _, e := range entries {
		if e.Value.IsPositive() {
			withShare = append(withShare, e)
		} else {
			without = append(without, e)
		}
	}
	t := ui.Current()
	var lines []string
	lines = append(lines, ui.C(t.Accent, "Allocated"))
	if len(withShare) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(withShare, bounds)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Accent, "Unallocated"))
	if len(without) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(without, bounds)...)
	}
	return lines
}
