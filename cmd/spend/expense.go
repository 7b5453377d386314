package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spend-squad/internal/cli"
	"github.com/Veraticus/spend-squad/internal/common"
	"github.com/Veraticus/spend-squad/internal/engine"
)

func expenseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expense",
		Aliases: []string{"expenses"},
		Short:   "Log, list, and delete expenses",
	}

	cmd.AddCommand(addExpenseCmd(a))
	cmd.AddCommand(deleteExpenseCmd(a))
	cmd.AddCommand(listExpensesCmd(a))

	return cmd
}

func addExpenseCmd(a *app) *cobra.Command {
	var (
		category string
		note     string
		date     string
	)

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Log an expense",
		Long: `Log an expense against a category and debit it from your balance.

In emergency mode, expenses in non-essential categories raise a warning, and an
expense that would push this month's spending past the emergency budget is
refused.`,
		Example: `  spend expense add 12.50 --category food --note "Lunch"
  spend expense add 40 -c Shopping --date 2026-03-02`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}

			var when time.Time
			if date != "" {
				when, err = time.ParseInLocation("2006-01-02", date, time.Local)
				if err != nil {
					return common.NewUserError(fmt.Sprintf("date %q must look like 2006-01-02", date), err)
				}
			}

			eng, cleanup, err := a.openOnboarded(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			cat, err := resolveCategory(eng.Snapshot(), category)
			if err != nil {
				return err
			}

			out, err := eng.SubmitExpense(cmd.Context(), engine.ExpenseRequest{
				Date:       when,
				CategoryID: cat.ID,
				Note:       note,
				Amount:     amount,
			})
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), out, "")
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category id or name (required)")
	cmd.Flags().StringVarP(&note, "note", "n", "", "what the money was for")
	cmd.Flags().StringVar(&date, "date", "", "date spent as YYYY-MM-DD (default: today)")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func deleteExpenseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense and refund it to your balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cleanup, err := a.openOnboarded(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			out, err := eng.DeleteExpense(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if out.Kind == engine.OutcomeUnchanged {
				writeLine(cmd.OutOrStdout(), cli.FormatWarning(fmt.Sprintf("No expense with id %q.", args[0])))
				return nil
			}
			return report(cmd.OutOrStdout(), out, "Expense deleted. Balance is now "+cli.FormatMoney(out.State.Currency, out.State.Balance)+".")
		},
	}
}

func listExpensesCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cleanup, err := a.openOnboarded(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			writeLine(cmd.OutOrStdout(), cli.RenderExpenses(eng.Snapshot(), limit))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "show at most this many expenses (0 for all)")

	return cmd
}
