package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/spend-squad/internal/engine"
)

// Run shows the dashboard until the user quits or ctx is canceled. sink may
// be nil; when set it must be the sink eng publishes to.
func Run(ctx context.Context, eng *engine.Engine, sink *engine.ChannelSink, opts ...Option) error {
	if eng == nil {
		return errors.New("engine is required")
	}

	var signals <-chan engine.Signal
	if sink != nil {
		signals = sink.Signals()
	}

	p := tea.NewProgram(
		New(ctx, eng, signals, opts...),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
