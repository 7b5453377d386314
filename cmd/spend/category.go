package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spend-squad/internal/cli"
)

func categoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories"},
		Short:   "Manage expense categories",
		Long: `List, add, and delete the categories expenses are filed under. Essential
categories are the ones emergency mode does not warn about.`,
	}

	cmd.AddCommand(listCategoriesCmd(a))
	cmd.AddCommand(addCategoryCmd(a))
	cmd.AddCommand(deleteCategoryCmd(a))

	return cmd
}

func listCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cleanup, err := a.openOnboarded(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			writeLine(cmd.OutOrStdout(), cli.RenderCategories(eng.Snapshot()))
			return nil
		},
	}
}

func addCategoryCmd(a *app) *cobra.Command {
	var essential bool

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cleanup, err := a.openOnboarded(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			out, err := eng.AddCategory(cmd.Context(), args[0], essential)
			if err != nil {
				return err
			}

			added := out.State.Categories[len(out.State.Categories)-1]
			kind := "non-essential"
			if added.IsEssential {
				kind = "essential"
			}
			return report(cmd.OutOrStdout(), out, fmt.Sprintf("Added %s category %s (id %s).", kind, added.Name, added.ID))
		},
	}

	cmd.Flags().BoolVarP(&essential, "essential", "e", false, "mark the category as essential")

	return cmd
}

func deleteCategoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a category no expense uses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cleanup, err := a.openOnboarded(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			cat, err := resolveCategory(eng.Snapshot(), args[0])
			if err != nil {
				return err
			}

			out, err := eng.DeleteCategory(cmd.Context(), cat.ID)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), out, fmt.Sprintf("Deleted category %s.", cat.Name))
		},
	}
}
