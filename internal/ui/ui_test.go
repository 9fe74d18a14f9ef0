package ui

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAllocationBar(t *testing.T) {
	SetTheme("classic")
	tests := []struct {
		name  string
		value int64
		max   int64
		want  string
	}{
		{name: "empty", value: 0, max: 100, want: "░░░░░░░░░░   0%"},
		{name: "half", value: 50, max: 100, want: "█████░░░░░  50%"},
		{name: "full", value: 100, max: 100, want: "██████████ 100%"},
		{name: "zero max", value: 0, max: 0, want: "░░░░░░░░░░   0%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AllocationBar(decimal.NewFromInt(tt.value), decimal.NewFromInt(tt.max), 10)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPanelStringPadsColoredLines(t *testing.T) {
	SetTheme("classic")
	SetColorForcing(true, false)
	defer SetColorForcing(false, false)

	out := PanelString([]string{C(fgGreen, "ab"), "abcd"})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "┌──────┐", lines[0])
	assert.Equal(t, "│ abcd │", lines[2])
	assert.True(t, strings.HasSuffix(lines[1], "ab"+reset+"   │"))
}

func TestMonoThemeDisablesColor(t *testing.T) {
	SetTheme("mono")
	defer func() {
		SetColorForcing(false, false)
		SetTheme("classic")
	}()
	assert.Equal(t, "x", C(fgRed, "x"))
	assert.Equal(t, "+", Current().CornerTL)
}

func TestBudgetOf(t *testing.T) {
	limit := decimal.NewFromInt(100)
	tests := []struct {
		remaining string
		want      Budget
	}{
		{remaining: "60", want: BudgetOpen},
		{remaining: "10", want: BudgetOpen},
		{remaining: "9.5", want: BudgetTight},
		{remaining: "0", want: BudgetFull},
	}
	for _, tt := range tests {
		t.Run(tt.remaining, func(t *testing.T) {
			assert.Equal(t, tt.want, BudgetOf(decimal.RequireFromString(tt.remaining), limit))
		})
	}
	assert.Equal(t, BudgetFull, BudgetOf(decimal.Zero, decimal.Zero))
}

func TestBudgetColorsFollowTheme(t *testing.T) {
	SetTheme("classic")
	th := Current()
	assert.Equal(t, fgGreen, th.BudgetColor(BudgetFull))
	assert.Equal(t, fgYellow, th.BudgetColor(BudgetTight))
	assert.Equal(t, fgBlue, th.BudgetColor(BudgetOpen))
	assert.Equal(t, "42", th.Palette.BudgetHue(BudgetFull))

	SetTheme("neon")
	defer SetTheme("classic")
	assert.Equal(t, "51", Current().Palette.BudgetHue(BudgetOpen))
}

func TestStatusLinesUseThemeSymbols(t *testing.T) {
	var out, errOut bytes.Buffer
	stdout, stderr = &out, &errOut
	defer func() {
		stdout, stderr = os.Stdout, os.Stderr
		SetColorForcing(false, false)
		SetTheme("classic")
	}()

	SetTheme("classic")
	OK("saved")
	Warn("trimmed")
	assert.Equal(t, "✔ saved\n", out.String())
	assert.Equal(t, "! trimmed\n", errOut.String())

	SetColorForcing(true, false)
	errOut.Reset()
	Fail("broken")
	assert.Equal(t, fgRed+"✖ broken"+reset+"\n", errOut.String())

	SetTheme("mono")
	errOut.Reset()
	Fail("broken")
	assert.Equal(t, "error: broken\n", errOut.String())
}

func TestNoColorEnv(t *testing.T) {
	var out bytes.Buffer
	t.Setenv("NO_COLOR", "1")
	assert.False(t, colorOn(&out))
	assert.False(t, colorOn(os.Stdout))

	SetColorForcing(true, false)
	defer SetColorForcing(false, false)
	assert.True(t, colorOn(&out))
}
