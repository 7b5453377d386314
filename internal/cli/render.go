package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/spend-squad/internal/engine"
	"github.com/Veraticus/spend-squad/internal/model"
)

// FormatMoney renders amount with the currency symbol and two decimals.
func FormatMoney(currency string, amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-" + currency + amount.Neg().StringFixed(2)
	}
	return currency + amount.StringFixed(2)
}

// RenderSignal formats one engine signal for the terminal.
func RenderSignal(s engine.Signal) string {
	text := s.Title
	if s.Message != "" {
		text += ": " + s.Message
	}

	switch s.Kind {
	case engine.SignalApplied:
		return FormatSuccess(text)
	case engine.SignalWarning:
		return FormatWarning(text)
	case engine.SignalRejected:
		return FormatError(text)
	case engine.SignalModeChanged:
		if s.Title == engine.TitleModeActivated {
			return FormatEmergency(text)
		}
		return FormatInfo(text)
	default:
		return text
	}
}

// WriteOutcome prints the outcome's signals, or fallback when there are none.
// An unchanged outcome without signals prints a short notice instead.
func WriteOutcome(w io.Writer, out engine.Outcome, fallback string) error {
	lines := make([]string, 0, len(out.Signals)+1)
	for _, s := range out.Signals {
		lines = append(lines, RenderSignal(s))
	}
	if len(lines) == 0 {
		switch out.Kind {
		case engine.OutcomeUnchanged:
			lines = append(lines, FormatInfo("Nothing changed."))
		default:
			if fallback != "" {
				lines = append(lines, FormatSuccess(fallback))
			}
		}
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write outcome: %w", err)
		}
	}
	return nil
}

// RenderStatus formats the dashboard summary.
func RenderStatus(st model.BudgetState, sum engine.Summary) string {
	money := func(d decimal.Decimal) string { return FormatMoney(st.Currency, d) }

	var b strings.Builder
	fmt.Fprintf(&b, "Balance:        %s (%s%% of income)\n", BoldStyle.Render(money(st.Balance)), sum.BalancePercent.StringFixed(0))
	fmt.Fprintf(&b, "Monthly income: %s\n", money(st.MonthlyIncome))
	fmt.Fprintf(&b, "Spent this month: %s (%s%%)\n", money(sum.MonthlySpent), sum.MonthlySpentPercent.StringFixed(0))
	fmt.Fprintf(&b, "Spent all time: %s\n", money(sum.TotalSpent))
	fmt.Fprintf(&b, "Daily budget:   %s for %d more days\n", money(sum.DailyBudget), sum.RemainingDays)

	if st.EmergencyMode {
		b.WriteString("\n" + FormatEmergency("Emergency mode is ON"))
		if sum.RemainingEmergencyBudget != nil {
			fmt.Fprintf(&b, "\nEmergency budget left: %s of %s", money(*sum.RemainingEmergencyBudget), money(*st.EmergencyBudget))
		}
		b.WriteString("\n")
	}

	if len(sum.Breakdown) > 0 {
		b.WriteString("\n" + ChartIcon + " This month by category\n")
		for _, row := range sum.Breakdown {
			fmt.Fprintf(&b, "  %-16s %12s  %5s%%\n", row.Category.Name, money(row.Amount), row.Share.StringFixed(1))
		}
	}

	if st.CurrentQuote != "" {
		b.WriteString("\n" + SubtleStyle.Render(QuoteIcon+" "+st.CurrentQuote))
	}

	return RenderBox("Budget Status", strings.TrimRight(b.String(), "\n"))
}

// RenderTable lays out rows under a bold header.
func RenderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	render := func(cells []string, style lipgloss.Style) string {
		out := make([]string, len(cells))
		for i, cell := range cells {
			out[i] = style.Width(widths[i] + 2).Render(cell)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, out...)
	}

	lines := []string{render(headers, TableHeaderStyle)}
	for _, row := range rows {
		lines = append(lines, render(row, TableCellStyle))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderExpenses lists expenses newest first.
func RenderExpenses(st model.BudgetState, limit int) string {
	expenses := engine.ExpensesByDate(st)
	if len(expenses) == 0 {
		return FormatInfo("No expenses recorded yet.")
	}
	if limit > 0 && len(expenses) > limit {
		expenses = expenses[:limit]
	}

	rows := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		name := e.CategoryID
		if cat, ok := engine.CategoryByID(st, e.CategoryID); ok {
			name = cat.Name
		}
		rows = append(rows, []string{
			e.ID,
			e.Date.Format("2006-01-02"),
			name,
			FormatMoney(st.Currency, e.Amount),
			e.Note,
		})
	}
	return RenderTable([]string{"ID", "Date", "Category", "Amount", "Note"}, rows)
}

// RenderCategories lists categories with their essential flag and usage.
func RenderCategories(st model.BudgetState) string {
	if len(st.Categories) == 0 {
		return FormatInfo("No categories defined.")
	}

	rows := make([][]string, 0, len(st.Categories))
	for _, c := range st.Categories {
		essential := ""
		if c.IsEssential {
			essential = SuccessIcon
		}
		inUse := ""
		if st.CategoryInUse(c.ID) {
			inUse = "in use"
		}
		rows = append(rows, []string{c.ID, c.Name, essential, inUse})
	}
	return RenderTable([]string{"ID", "Name", "Essential", ""}, rows)
}
