package main

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/spend-squad/internal/cli"
)

func emergencyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emergency",
		Short: "Control emergency mode",
		Long: `Emergency mode caps this month's spending at the emergency budget and warns
about non-essential expenses. The budget defaults to 70% of monthly income the
first time the mode is turned on.`,
	}

	cmd.AddCommand(toggleEmergencyCmd(a))
	cmd.AddCommand(emergencyBudgetCmd(a))

	return cmd
}

func toggleEmergencyCmd(a *app) *cobra.Command {
	var budget string

	cmd := &cobra.Command{
		Use:   "toggle",
		Short: "Turn emergency mode on or off",
		Example: `  spend emergency toggle
  spend emergency toggle --budget 900`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var override *decimal.Decimal
			if cmd.Flags().Changed("budget") {
				value, err := parseAmount(budget)
				if err != nil {
					return err
				}
				override = &value
			}

			eng, cleanup, err := a.openOnboarded(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			out, err := eng.ToggleEmergencyMode(cmd.Context(), override)
			if err != nil {
				return err
			}
			if err := report(cmd.OutOrStdout(), out, ""); err != nil {
				return err
			}
			if out.State.EmergencyMode && out.State.EmergencyBudget != nil {
				writeLine(cmd.OutOrStdout(), cli.FormatInfo("Emergency budget: "+cli.FormatMoney(out.State.Currency, *out.State.EmergencyBudget)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&budget, "budget", "", "set the emergency budget while toggling")

	return cmd
}

func emergencyBudgetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "budget <amount>",
		Short: "Set the emergency budget without changing the mode",
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

			out, err := eng.SetEmergencyBudget(cmd.Context(), amount)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), out, "Emergency budget set to "+cli.FormatMoney(out.State.Currency, amount)+".")
		},
	}
}
