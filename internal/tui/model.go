// Package tui is the interactive slider widget: one bar per allocation entry,
// nudged with the keyboard. Every change goes through the allocation set,
// which decides whether it is admissible.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/idilsaglam/sliders/internal/allocation"
	"github.com/idilsaglam/sliders/internal/model"
	"github.com/idilsaglam/sliders/internal/textlimit"
	"github.com/idilsaglam/sliders/internal/ui"
)

// SaveFunc persists the current entries.
type SaveFunc func(ctx context.Context, entries []model.Entry) error

type Options struct {
	Title     string
	NameLimit int
	Save      SaveFunc
	Logger    *zap.Logger
}

// activity is shared by every copy of Model; the set's observer writes to it.
// gen counts mutations so a finished save can tell whether it is stale.
type activity struct {
	changed bool
	gen     uint64
	last    string
}

func (a *activity) touch(last string) {
	a.changed = true
	a.gen++
	a.last = last
}

type removal struct {
	entry model.Entry
	index int
}

type savedMsg struct {
	gen uint64
	err error
}

type Model struct {
	set  *allocation.Set
	opts Options
	act  *activity
	st   styles

	cursor int
	bars   progress.Model
	keys   keyMap
	help   help.Model

	// Inline add / rename share one limited field.
	name     textlimit.Field
	adding   bool
	renaming bool
	renameID int64
	inputErr string

	status string
	undo   *removal

	width, height int
}

// New builds the widget around set and subscribes to its notifications. The
// returned function unsubscribes.
func New(set *allocation.Set, opts Options) (Model, func()) {
	if opts.Title == "" {
		opts.Title = "Allocations"
	}
	if opts.NameLimit <= 0 {
		opts.NameLimit = 32
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	act := &activity{}
	unsubscribe := set.Subscribe(allocation.ObserverFuncs{
		OnEntryAdded: func(e model.Entry) {
			act.touch("added " + e.Name)
		},
		OnEntryRemoved: func(e model.Entry) {
			act.touch("removed " + e.Name)
		},
		OnValueChanged: func(e model.Entry, total decimal.Decimal) {
			act.touch(fmt.Sprintf("%s → %s (total %s)", e.Name, e.Value, total))
		},
		OnEntryRenamed: func(e model.Entry) {
			act.touch("renamed to " + e.Name)
		},
	})

	field := textlimit.NewField(textlimit.Limiter{
		Max:           opts.NameLimit,
		HardLimit:     true,
		ForceTruncate: true,
		NativeLimit:   true,
	})
	field.Input.Prompt = "> "

	m := Model{
		set:  set,
		opts: opts,
		act:  act,
		st:   newStyles(ui.Current()),
		bars: newBars(ui.Current()),
		keys: defaultKeys(),
		help: help.New(),
		name: field,
	}
	m.resize(80, 24)
	return m, unsubscribe
}

// Changed reports whether the set was mutated since the last save.
func (m Model) Changed() bool { return m.act.changed }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case savedMsg:
		if msg.err != nil {
			m.opts.Logger.Error("save failed", zap.Error(msg.err))
			m.status = m.st.err.Render("save failed: " + msg.err.Error())
			return m, nil
		}
		// Edits made while the save was in flight are still unsaved.
		if msg.gen == m.act.gen {
			m.act.changed = false
		}
		m.status = "saved"
		return m, nil
	case textlimit.LengthChangedMsg:
		m.inputErr = ""
		return m, nil
	}

	if m.adding || m.renaming {
		return m.updateInput(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.status = ""
	switch {
	case key.Matches(km, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(km, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(km, m.keys.Down):
		if m.cursor < m.set.Len()-1 {
			m.cursor++
		}
	case key.Matches(km, m.keys.Less):
		m.nudge(m.step().Neg())
	case key.Matches(km, m.keys.More):
		m.nudge(m.step())
	case key.Matches(km, m.keys.LessBig):
		m.nudge(m.step().Mul(decimal.NewFromInt(10)).Neg())
	case key.Matches(km, m.keys.MoreBig):
		m.nudge(m.step().Mul(decimal.NewFromInt(10)))
	case key.Matches(km, m.keys.Zero):
		if e, ok := m.selected(); ok {
			m.moveTo(e, decimal.Zero)
		}
	case key.Matches(km, m.keys.Fill):
		if e, ok := m.selected(); ok {
			if hi, err := m.set.MaxFeasibleValue(e.ID); err == nil {
				m.moveTo(e, hi)
			}
		}
	case key.Matches(km, m.keys.Add):
		m.adding = true
		m.inputErr = ""
		m.name.Reset()
		m.name.Input.Placeholder = "New entry name..."
		cmd := m.name.Focus()
		return m, cmd
	case key.Matches(km, m.keys.Rename):
		if e, ok := m.selected(); ok {
			m.renaming = true
			m.renameID = e.ID
			m.inputErr = ""
			m.name.SetValue(e.Name)
			m.name.Input.CursorEnd()
			m.name.Input.Placeholder = "Rename entry..."
			cmd := m.name.Focus()
			return m, cmd
		}
	case key.Matches(km, m.keys.Remove):
		m.remove()
	case key.Matches(km, m.keys.Undo):
		m.restore()
	case key.Matches(km, m.keys.Save):
		return m, m.saveCmd()
	case key.Matches(km, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			name := strings.TrimSpace(m.name.Value())
			if name == "" {
				m.inputErr = "Name cannot be empty"
				return m, nil
			}
			if m.adding {
				e, err := m.set.InsertEntry(m.cursor+1, name, 0)
				if err != nil {
					m.inputErr = err.Error()
					return m, nil
				}
				if m.set.Len() > 1 {
					m.cursor++
				}
				m.opts.Logger.Debug("entry added", zap.Int64("id", e.ID))
			} else if err := m.set.Rename(m.renameID, name); err != nil {
				m.inputErr = err.Error()
				return m, nil
			}
			m.closeInput()
			return m, nil
		case "esc":
			m.closeInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.bars.Width = max(10, min(60, w-40))
	m.help.Width = w
}

func (m *Model) closeInput() {
	m.adding, m.renaming = false, false
	m.inputErr = ""
	m.name.Reset()
	m.name.Blur()
}

func (m Model) step() decimal.Decimal { return m.set.Bounds().Step }

func (m Model) selected() (model.Entry, bool) {
	entries := m.set.Entries()
	if m.cursor < 0 || m.cursor >= len(entries) {
		return model.Entry{}, false
	}
	return entries[m.cursor], true
}

func (m *Model) nudge(delta decimal.Decimal) {
	e, ok := m.selected()
	if !ok {
		return
	}
	target := e.Value.Add(delta)
	if target.IsNegative() {
		target = decimal.Zero
	}
	m.moveTo(e, target)
}

// moveTo commits target, or snaps to the nearest feasible value when the set
// declines it.
func (m *Model) moveTo(e model.Entry, target decimal.Decimal) {
	if m.set.SetValue(e.ID, target).Applied {
		return
	}
	snapped, err := m.set.Clamp(e.ID, target)
	if err != nil {
		m.status = m.st.err.Render(err.Error())
		return
	}
	if !snapped.Equal(e.Value) {
		m.set.SetValue(e.ID, snapped)
	}
	m.status = m.st.pending.Render(fmt.Sprintf("%s capped at %s", e.Name, snapped))
}

func (m *Model) remove() {
	e, ok := m.selected()
	if !ok {
		return
	}
	idx := m.cursor
	if _, removed := m.set.RemoveEntry(e.ID); !removed {
		m.status = m.st.pending.Render(fmt.Sprintf("%s cannot be removed without dropping below %s", e.Name, m.set.Bounds().Min))
		return
	}
	m.undo = &removal{entry: e, index: idx}
	if m.cursor >= m.set.Len() && m.cursor > 0 {
		m.cursor--
	}
}

// restore re-inserts the last removed entry at its old position, with as
// much of its old value as still fits.
func (m *Model) restore() {
	if m.undo == nil {
		return
	}
	r := *m.undo
	m.undo = nil
	e, err := m.set.InsertEntry(r.index, r.entry.Name, r.entry.ID)
	if errors.Is(err, allocation.ErrDuplicateID) {
		e, err = m.set.InsertEntry(r.index, r.entry.Name, 0)
	}
	if err != nil {
		m.status = m.st.err.Render(err.Error())
		return
	}
	m.cursor = min(r.index, m.set.Len()-1)
	if r.entry.Value.IsPositive() {
		m.moveTo(e, r.entry.Value)
	}
}

func (m Model) saveCmd() tea.Cmd {
	if m.opts.Save == nil {
		return nil
	}
	gen := m.act.gen
	entries := m.set.Entries()
	save := m.opts.Save
	return func() tea.Msg {
		return savedMsg{gen: gen, err: save(context.Background(), entries)}
	}
}

func (m Model) View() string {
	entries := m.set.Entries()
	bounds := m.set.Bounds()
	total := m.set.Total()
	remaining := m.set.Remaining()

	budget := m.st.budget(ui.BudgetOf(remaining, bounds.Max))
	header := fmt.Sprintf("%s   %s   %s",
		m.st.title.Render(m.opts.Title),
		budget.Render(fmt.Sprintf("Total %s / %s", total, bounds.Max)),
		budget.Render(fmt.Sprintf("Remaining %s", remaining)),
	)

	nameWidth := len("remaining")
	for _, e := range entries {
		nameWidth = max(nameWidth, lipgloss.Width(e.Name))
	}
	nameWidth = min(nameWidth, max(m.opts.NameLimit, len("remaining")))
	nameCol := lipgloss.NewStyle().Width(nameWidth).MaxWidth(nameWidth)

	var rows []string
	rows = append(rows, header, "")
	if len(entries) == 0 {
		rows = append(rows, m.st.muted.Render("no entries, press a to add one"))
	}
	for i, e := range entries {
		prefix := "  "
		label := nameCol.Render(e.Name)
		if i == m.cursor {
			prefix = m.st.selected.Render("> ")
			label = m.st.title.Inherit(nameCol).Render(e.Name)
		}
		rows = append(rows, fmt.Sprintf("%s%s %s %6s", prefix, label, m.bars.ViewAs(share(e.Value, bounds.Max)), e.Value))
	}
	rows = append(rows, "")
	rows = append(rows, fmt.Sprintf("  %s %s %6s",
		nameCol.Render(m.st.muted.Render("remaining")),
		m.bars.ViewAs(share(remaining, bounds.Max)),
		remaining))

	content := strings.Join(rows, "\n")
	if m.adding || m.renaming {
		title := "Add entry"
		if m.renaming {
			title = "Rename entry"
		}
		counter := fmt.Sprintf("%d/%d", m.name.State().Len, m.name.Limiter().Max)
		if m.name.State().AtLimit {
			counter = m.st.err.Render(counter)
		} else {
			counter = m.st.muted.Render(counter)
		}
		title += " " + counter
		if m.inputErr != "" {
			title += ": " + m.st.err.Render(m.inputErr)
		}
		content += "\n" + m.st.frame.Render(title+"\n"+m.name.View())
	}

	status := m.status
	if status == "" && m.act.last != "" {
		status = m.st.muted.Render(m.act.last)
	}
	content += "\n" + status + "\n" + m.help.View(m.keys)
	return m.st.frame.Render(content)
}

func share(v, limit decimal.Decimal) float64 {
	if !limit.IsPositive() {
		return 0
	}
	f, _ := v.Div(limit).Float64()
	return min(max(f, 0), 1)
}
