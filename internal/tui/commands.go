package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/spend-squad/internal/engine"
)

const commandTimeout = 10 * time.Second

// runEngine wraps an engine call in a tea.Cmd.
func (m Model) runEngine(action string, call func(ctx context.Context) (engine.Outcome, error)) tea.Cmd {
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, commandTimeout)
		defer cancel()

		out, err := call(ctx)
		return outcomeMsg{action: action, outcome: out, err: err}
	}
}

func (m Model) toggleEmergency() tea.Cmd {
	return m.runEngine("toggle emergency mode", func(ctx context.Context) (engine.Outcome, error) {
		return m.engine.ToggleEmergencyMode(ctx, nil)
	})
}

func (m Model) refreshQuote() tea.Cmd {
	return m.runEngine("refresh quote", m.engine.RefreshQuote)
}

func (m Model) deleteExpense(id string) tea.Cmd {
	return m.runEngine("delete expense", func(ctx context.Context) (engine.Outcome, error) {
		return m.engine.DeleteExpense(ctx, id)
	})
}

// waitForSignal blocks on the sink channel and delivers the next signal.
func waitForSignal(signals <-chan engine.Signal) tea.Cmd {
	if signals == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-signals
		if !ok {
			return signalsClosedMsg{}
		}
		return signalMsg{signal: s}
	}
}
