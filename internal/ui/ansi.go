package ui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const (
	reset = "\033[0m"
	bold  = "\033[1m"
	Dim   = "\033[2m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"
)

var (
	forceColor   bool
	disableColor bool

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// SetColorForcing overrides terminal detection. disable wins over force.
func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

// colorOn reports whether escapes should be written to w. NO_COLOR in the
// environment turns color off unless it is forced.
func colorOn(w io.Writer) bool {
	if disableColor {
		return false
	}
	if forceColor {
		return true
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func paint(w io.Writer, color, s string) string {
	if color == "" || !colorOn(w) {
		return s
	}
	return color + s + reset
}

// C colors s for standard output.
func C(color, s string) string { return paint(stdout, color, s) }

// CErr colors s for standard error.
func CErr(color, s string) string { return paint(stderr, color, s) }

func OK(msg string) {
	t := Current()
	fmt.Fprintln(stdout, paint(stdout, t.Success, t.SymOK+" "+msg))
}

func Fail(msg string) {
	t := Current()
	fmt.Fprintln(stderr, paint(stderr, t.Error, t.SymFail+" "+msg))
}

// Warn reports something the user should know about that did not stop the
// command.
func Warn(msg string) {
	t := Current()
	fmt.Fprintln(stderr, paint(stderr, t.Pending, t.SymWarn+" "+msg))
}
