package main

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/spend-squad/internal/cli"
	"github.com/Veraticus/spend-squad/internal/engine"
)

func balanceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Manage your current balance",
	}
	cmd.AddCommand(setValueCmd(a, "Overwrite your current balance", "Balance",
		func(eng *engine.Engine) func(context.Context, decimal.Decimal) (engine.Outcome, error) {
			return eng.UpdateBalance
		}))
	return cmd
}

func incomeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Manage your monthly income",
	}
	cmd.AddCommand(setValueCmd(a, "Overwrite your monthly income", "Monthly income",
		func(eng *engine.Engine) func(context.Context, decimal.Decimal) (engine.Outcome, error) {
			return eng.UpdateMonthlyIncome
		}))
	return cmd
}

// setValueCmd builds a "set <amount>" subcommand around one engine setter.
func setValueCmd(a *app, short, label string, setter func(*engine.Engine) func(context.Context, decimal.Decimal) (engine.Outcome, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "set <amount>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}

			eng, cleanup, err := a.openOnboarded(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			out, err := setter(eng)(cmd.Context(), amount)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), out, label+" set to "+cli.FormatMoney(out.State.Currency, amount)+".")
		},
	}
}
