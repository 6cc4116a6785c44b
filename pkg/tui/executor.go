// Package tui provides the terminal interface for the memo stack,
// built on Bubble Tea.
//
// The TUI codebase is split into multiple files for better organization:
// - executor.go: Program lifecycle
// - model.go: Core model structure and state
// - update.go: Bubble Tea Update function and message handling
// - view.go: Bubble Tea View function and rendering
// - helpers.go: Utility functions
// - styles.go: Color schemes and styling
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lanefield/memostack/pkg/config"
	"github.com/lanefield/memostack/pkg/logging"
	"github.com/lanefield/memostack/pkg/memo"
)

// Executor owns the Bubble Tea program lifecycle.
type Executor struct {
	mgr     *memo.Manager
	cfg     *config.Config
	logger  *logging.Logger
	program *tea.Program
}

// NewExecutor creates a TUI executor over the given manager.
func NewExecutor(mgr *memo.Manager, cfg *config.Config, logger *logging.Logger) *Executor {
	return &Executor{
		mgr:    mgr,
		cfg:    cfg,
		logger: logger,
	}
}

// Run starts the TUI and blocks until the user exits or the context is
// cancelled.
func (e *Executor) Run(ctx context.Context) error {
	m := newModel(e.mgr, e.cfg, e.logger)
	e.program = tea.NewProgram(&m, tea.WithAltScreen())

	go func() {
		<-ctx.Done()
		e.program.Quit()
	}()

	e.logger.Infof("TUI starting, session %s", e.logger.SessionID())
	if _, err := e.program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
