// Package textlimit caps the length of a text field and reports when the cap
// is reached.
package textlimit

import (
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Limiter decides what happens as a value approaches Max runes.
type Limiter struct {
	Max int
	// HardLimit refuses values longer than Max.
	HardLimit bool
	// ForceTruncate cuts a refused value back to Max instead of leaving it.
	ForceTruncate bool
	// NativeLimit also sets the input widget's own character limit.
	NativeLimit bool
}

// Default mirrors the classic limiter: ten characters, hard limit, truncate.
func Default() Limiter {
	return Limiter{Max: 10, HardLimit: true, ForceTruncate: true, NativeLimit: true}
}

// State describes a value relative to the limit. AtLimit is set from Max on,
// Over only past it.
type State struct {
	Len     int
	AtLimit bool
	Over    bool
}

func (l Limiter) Check(s string) State {
	n := utf8.RuneCountInString(s)
	return State{Len: n, AtLimit: n >= l.Max, Over: n > l.Max}
}

// Apply enforces the limit on s. accepted is false when the change was
// refused by the hard limit; out is then the truncated value (or s when
// truncation is off).
func (l Limiter) Apply(s string) (out string, st State, accepted bool) {
	st = l.Check(s)
	if !st.Over || !l.HardLimit {
		return s, st, true
	}
	if l.ForceTruncate {
		out = truncate(s, l.Max)
		return out, l.Check(out), false
	}
	return s, st, false
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// LengthChangedMsg is emitted after each accepted keystroke in a Field.
type LengthChangedMsg struct {
	Len     int
	AtLimit bool
}

// Field is a text input that only listens for keys while focused.
type Field struct {
	Input textinput.Model

	limit      Limiter
	state      State
	subscribed bool
}

func NewField(l Limiter) Field {
	in := textinput.New()
	if l.NativeLimit {
		in.CharLimit = l.Max
	}
	return Field{Input: in, limit: l}
}

func (f Field) State() State     { return f.state }
func (f Field) Value() string    { return f.Input.Value() }
func (f Field) Focused() bool    { return f.subscribed }
func (f Field) Limiter() Limiter { return f.limit }

// Focus starts listening for keys and re-checks the current value.
func (f *Field) Focus() tea.Cmd {
	f.subscribed = true
	f.state = f.limit.Check(f.Input.Value())
	return f.Input.Focus()
}

// Blur stops listening for keys.
func (f *Field) Blur() {
	f.subscribed = false
	f.Input.Blur()
}

// SetValue replaces the value without the hard limit, flagging it if it is
// already over.
func (f *Field) SetValue(s string) {
	f.Input.SetValue(s)
	f.state = f.limit.Check(f.Input.Value())
}

func (f *Field) Reset() {
	f.Input.Reset()
	f.state = State{}
}

func (f Field) Update(msg tea.Msg) (Field, tea.Cmd) {
	if !f.subscribed {
		return f, nil
	}
	var cmd tea.Cmd
	f.Input, cmd = f.Input.Update(msg)
	if _, ok := msg.(tea.KeyMsg); !ok {
		return f, cmd
	}

	v := f.Input.Value()
	out, st, accepted := f.limit.Apply(v)
	if out != v {
		f.Input.SetValue(out)
	}
	f.state = st
	if !accepted {
		return f, cmd
	}
	changed := func() tea.Msg { return LengthChangedMsg{Len: st.Len, AtLimit: st.AtLimit} }
	return f, tea.Batch(cmd, changed)
}

func (f Field) View() string { return f.Input.View() }
