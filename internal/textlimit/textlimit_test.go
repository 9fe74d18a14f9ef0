package textlimit

import (
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterApply(t *testing.T) {
	tests := []struct {
		name         string
		limiter      Limiter
		in           string
		wantOut      string
		wantAccepted bool
		wantState    State
	}{
		{
			name: "under", limiter: Limiter{Max: 5, HardLimit: true, ForceTruncate: true},
			in: "abc", wantOut: "abc", wantAccepted: true, wantState: State{Len: 3},
		},
		{
			name: "exactly at limit", limiter: Limiter{Max: 3, HardLimit: true, ForceTruncate: true},
			in: "abc", wantOut: "abc", wantAccepted: true, wantState: State{Len: 3, AtLimit: true},
		},
		{
			name: "over hard truncate", limiter: Limiter{Max: 3, HardLimit: true, ForceTruncate: true},
			in: "abcdef", wantOut: "abc", wantAccepted: false, wantState: State{Len: 3, AtLimit: true},
		},
		{
			name: "over hard no truncate", limiter: Limiter{Max: 3, HardLimit: true},
			in: "abcd", wantOut: "abcd", wantAccepted: false, wantState: State{Len: 4, AtLimit: true, Over: true},
		},
		{
			name: "over soft", limiter: Limiter{Max: 3},
			in: "abcd", wantOut: "abcd", wantAccepted: true, wantState: State{Len: 4, AtLimit: true, Over: true},
		},
		{
			name: "counts runes", limiter: Limiter{Max: 2, HardLimit: true, ForceTruncate: true},
			in: "äöü", wantOut: "äö", wantAccepted: false, wantState: State{Len: 2, AtLimit: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, st, ok := tt.limiter.Apply(tt.in)
			assert.Equal(t, tt.wantOut, out)
			assert.Equal(t, tt.wantAccepted, ok)
			assert.Equal(t, tt.wantState, st)
		})
	}
}

func typeRunes(f Field, s string) (Field, []tea.Cmd) {
	var cmds []tea.Cmd
	for _, r := range s {
		var cmd tea.Cmd
		f, cmd = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		cmds = append(cmds, cmd)
	}
	return f, cmds
}

func TestFieldIgnoresKeysWhileBlurred(t *testing.T) {
	f := NewField(Limiter{Max: 4, HardLimit: true, ForceTruncate: true})
	f, cmds := typeRunes(f, "ab")
	assert.Equal(t, "", f.Value())
	for _, c := range cmds {
		assert.Nil(t, c)
	}

	f.Focus()
	f, _ = typeRunes(f, "ab")
	assert.Equal(t, "ab", f.Value())

	f.Blur()
	f, _ = typeRunes(f, "cd")
	assert.Equal(t, "ab", f.Value())
}

func TestFieldTruncatesPastLimit(t *testing.T) {
	f := NewField(Limiter{Max: 3, HardLimit: true, ForceTruncate: true})
	assert.Zero(t, f.Input.CharLimit)
	f.Focus()

	f, _ = typeRunes(f, "abcde")
	assert.Equal(t, "abc", f.Value())
	assert.True(t, f.State().AtLimit)
	assert.False(t, f.State().Over)
}

func TestFieldEmitsLengthChanged(t *testing.T) {
	f := NewField(Default())
	assert.Equal(t, 10, f.Input.CharLimit)
	_ = f.Input.Cursor.SetMode(cursor.CursorStatic)
	f.Focus()

	f, cmd := f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	require.NotNil(t, cmd)
	var found bool
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if lc, ok := c().(LengthChangedMsg); ok {
				found = true
				assert.Equal(t, 1, lc.Len)
			}
		}
	case LengthChangedMsg:
		found = true
		assert.Equal(t, 1, msg.Len)
	}
	assert.True(t, found)
}

func TestSetValueFlagsExistingOverflow(t *testing.T) {
	f := NewField(Limiter{Max: 2})
	f.SetValue("abcd")
	assert.True(t, f.State().Over)
	f.Reset()
	assert.Equal(t, State{}, f.State())
}
