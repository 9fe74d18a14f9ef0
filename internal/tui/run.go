package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/idilsaglam/sliders/internal/allocation"
)

// Run starts the slider widget and persists changes when quitting.
func Run(ctx context.Context, set *allocation.Set, opts Options) error {
	m, unsubscribe := New(set, opts)
	defer unsubscribe()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		m.resize(w, h)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	fm, ok := finalModel.(Model)
	if !ok || !fm.Changed() || fm.opts.Save == nil {
		return nil
	}
	if err := fm.opts.Save(ctx, set.Entries()); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	fm.opts.Logger.Info("saved on exit", zap.Int("entries", set.Len()))
	return nil
}
