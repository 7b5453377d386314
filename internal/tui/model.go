// Package tui implements the interactive budget dashboard.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/spend-squad/internal/engine"
	"github.com/Veraticus/spend-squad/internal/model"
	"github.com/Veraticus/spend-squad/internal/tui/themes"
)

// Model holds the dashboard state.
type Model struct {
	ctx       context.Context
	lastError error
	engine    *engine.Engine
	signals   <-chan engine.Signal
	theme     themes.Theme
	help      help.Model
	config    Config
	keymap    KeyMap
	notices   []engine.Signal
	state     model.BudgetState
	summary   engine.Summary
	table     table.Model
	width     int
	height    int
	quitting  bool
}

// New builds a dashboard over eng. When signals is nil, notices come from the
// outcomes of the dashboard's own commands instead of the sink.
func New(ctx context.Context, eng *engine.Engine, signals <-chan engine.Signal, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	h := help.New()
	h.ShowAll = cfg.ShowFullHelp

	m := Model{
		ctx:     ctx,
		engine:  eng,
		signals: signals,
		config:  cfg,
		theme:   cfg.Theme,
		keymap:  DefaultKeyMap(),
		help:    h,
		width:   cfg.Width,
		height:  cfg.Height,
		table: table.New(
			table.WithColumns(expenseColumns(cfg.Width)),
			table.WithFocused(true),
		),
	}
	m.reload()
	m.resize()
	return m
}

// Init starts listening for engine signals.
func (m Model) Init() tea.Cmd {
	return waitForSignal(m.signals)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(expenseColumns(m.width))
		m.resize()
		return m, nil

	case outcomeMsg:
		if msg.err != nil {
			m.lastError = fmt.Errorf("failed to %s: %w", msg.action, msg.err)
			return m, nil
		}
		m.lastError = nil
		if m.signals == nil {
			for _, s := range msg.outcome.Signals {
				m.addNotice(s)
			}
		}
		m.reload()
		return m, nil

	case signalMsg:
		m.addNotice(msg.signal)
		return m, waitForSignal(m.signals)

	case signalsClosedMsg:
		m.signals = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit), key.Matches(msg, m.keymap.ForceQuit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil

	case key.Matches(msg, m.keymap.ToggleEmergency):
		return m, m.toggleEmergency()

	case key.Matches(msg, m.keymap.RefreshQuote):
		return m, m.refreshQuote()

	case key.Matches(msg, m.keymap.Delete):
		if id := m.selectedExpenseID(); id != "" {
			return m, m.deleteExpense(id)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// reload refreshes the snapshot, metrics, and table rows from the engine.
func (m *Model) reload() {
	m.state, m.summary = m.engine.Summary()
	m.table.SetRows(expenseRows(m.state))
}

func (m *Model) addNotice(s engine.Signal) {
	m.notices = append(m.notices, s)
	if limit := m.config.MaxNotices; limit > 0 && len(m.notices) > limit {
		m.notices = m.notices[len(m.notices)-limit:]
	}
}

func (m Model) selectedExpenseID() string {
	row := m.table.SelectedRow()
	if len(row) == 0 {
		return ""
	}
	return row[0]
}

// resize gives the table whatever height the panels above and below leave.
func (m *Model) resize() {
	reserved := 16
	if m.help.ShowAll {
		reserved += 3
	}
	height := m.height - reserved
	if height < 3 {
		height = 3
	}
	m.table.SetHeight(height)
	m.help.Width = m.width
}
