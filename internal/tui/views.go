package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/spend-squad/internal/engine"
	"github.com/Veraticus/spend-squad/internal/model"
)

const barWidth = 20

func expenseColumns(width int) []table.Column {
	note := width - 10 - 12 - 16 - 12 - 12
	if note < 8 {
		note = 8
	}
	return []table.Column{
		{Title: "ID", Width: 10},
		{Title: "Date", Width: 12},
		{Title: "Category", Width: 16},
		{Title: "Amount", Width: 12},
		{Title: "Note", Width: note},
	}
}

func expenseRows(st model.BudgetState) []table.Row {
	expenses := engine.ExpensesByDate(st)
	rows := make([]table.Row, 0, len(expenses))
	for _, e := range expenses {
		name := e.CategoryID
		if cat, ok := engine.CategoryByID(st, e.CategoryID); ok {
			name = cat.Name
		}
		rows = append(rows, table.Row{
			e.ID,
			e.Date.Format("2006-01-02"),
			name,
			money(st.Currency, e.Amount),
			e.Note,
		})
	}
	return rows
}

func money(currency string, amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-" + currency + amount.Neg().StringFixed(2)
	}
	return currency + amount.StringFixed(2)
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		m.renderStats(),
	}
	if m.state.CurrentQuote != "" {
		sections = append(sections, m.theme.Italic.Render("“"+m.state.CurrentQuote+"”"))
	}
	sections = append(sections, m.table.View())
	if notices := m.renderNotices(); notices != "" {
		sections = append(sections, notices)
	}
	if m.lastError != nil {
		sections = append(sections, m.theme.StatusError.Render("Error: "+m.lastError.Error()))
	}
	sections = append(sections, m.help.View(m.keymap))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("💰 Spend Squad")
	if !m.state.EmergencyMode {
		return title
	}
	badge := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Emergency).Render("  🚨 EMERGENCY MODE")
	return title + badge
}

func (m Model) renderStats() string {
	st, sum := m.state, m.summary
	cur := st.Currency

	lines := []string{
		fmt.Sprintf("Balance       %s  %s", m.bar(sum.BalancePercent), m.theme.Bold.Render(money(cur, st.Balance))),
		fmt.Sprintf("Spent (month) %s  %s of %s", m.bar(sum.MonthlySpentPercent), money(cur, sum.MonthlySpent), money(cur, st.MonthlyIncome)),
		fmt.Sprintf("Daily budget  %s for %d days", money(cur, sum.DailyBudget), sum.RemainingDays),
	}
	if sum.RemainingEmergencyBudget != nil {
		lines = append(lines, fmt.Sprintf("Emergency left %s of %s", money(cur, *sum.RemainingEmergencyBudget), money(cur, *st.EmergencyBudget)))
	}

	box := m.theme.RoundedBox
	if st.EmergencyMode {
		box = m.theme.EmergencyBox
	}
	return box.Render(strings.Join(lines, "\n"))
}

// bar draws a percentage in [0, 100] as a fixed-width bar.
func (m Model) bar(pct decimal.Decimal) string {
	filled := int(pct.Mul(decimal.NewFromInt(barWidth)).Div(decimal.NewFromInt(100)).IntPart())
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	return m.theme.ProgressFull.Render(strings.Repeat("█", filled)) +
		m.theme.ProgressEmpty.Render(strings.Repeat("░", barWidth-filled))
}

func (m Model) renderNotices() string {
	if len(m.notices) == 0 {
		return ""
	}

	lines := make([]string, 0, len(m.notices))
	for _, s := range m.notices {
		text := s.Title
		if s.Message != "" {
			text += ": " + s.Message
		}
		switch s.Kind {
		case engine.SignalApplied:
			lines = append(lines, m.theme.StatusSuccess.Render("✓ "+text))
		case engine.SignalWarning:
			lines = append(lines, m.theme.StatusWarning.Render("! "+text))
		case engine.SignalRejected:
			lines = append(lines, m.theme.StatusError.Render("✗ "+text))
		default:
			lines = append(lines, m.theme.StatusInfo.Render("• "+text))
		}
	}
	return strings.Join(lines, "\n")
}
