package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spend-squad/internal/cli"
)

func resetCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all budget data",
		Long: `Reset deletes your balance, income, categories, and every expense, returning
to the first-run state. Run 'spend onboard' afterwards to start again.

This is a destructive operation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()

			eng, cleanup, err := a.openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			st := eng.Snapshot()
			if !st.IsOnboarded && len(st.Expenses) == 0 {
				writeLine(w, cli.FormatInfo("Nothing to reset."))
				return nil
			}

			// Confirm with user unless --force is used
			if !force {
				writeLine(w, cli.FormatWarning(fmt.Sprintf("This will delete %d expenses and all budget settings.", len(st.Expenses))))
				ok, err := cli.NewPrompter(a.in, w).Confirm(cmd.Context(), "Are you sure you want to continue?")
				if err != nil {
					return err
				}
				if !ok {
					writeLine(w, cli.FormatInfo("Reset canceled."))
					return nil
				}
			}

			if _, err := eng.Reset(cmd.Context()); err != nil {
				return fmt.Errorf("failed to reset: %w", err)
			}

			writeLine(w, cli.FormatSuccess("Budget data deleted. Run 'spend onboard' to start again."))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}
