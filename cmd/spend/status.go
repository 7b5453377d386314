package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/spend-squad/internal/cli"
	"github.com/Veraticus/spend-squad/internal/common"
)

func statusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show balance, spending, and daily budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cleanup, err := a.openOnboarded(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			w := cmd.OutOrStdout()
			writeLine(w, cli.RenderStatus(eng.Summary()))
			if saved, ok := eng.LastSaved(cmd.Context()); ok {
				writeLine(w, cli.SubtleStyle.Render("Last saved "+saved.Local().Format("2006-01-02 15:04")))
			}
			return nil
		},
	}
}

func quoteCmd(a *app) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Show the current motivational quote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cleanup, err := a.openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			quote := eng.Snapshot().CurrentQuote
			if refresh {
				out, err := eng.RefreshQuote(cmd.Context())
				if err != nil {
					return err
				}
				quote = out.State.CurrentQuote
			}

			writeLine(cmd.OutOrStdout(), cli.QuoteIcon+" "+quote)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "pick a new quote first")

	return cmd
}

func showCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored budget state",
		Long:  `Print the whole budget state as JSON or YAML, e.g. for backups or scripting.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cleanup, err := a.openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			st := eng.Snapshot()
			w := cmd.OutOrStdout()

			switch strings.ToLower(format) {
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(st); err != nil {
					return fmt.Errorf("failed to encode state: %w", err)
				}
			case "yaml", "yml":
				enc := yaml.NewEncoder(w)
				enc.SetIndent(2)
				if err := enc.Encode(st); err != nil {
					return fmt.Errorf("failed to encode state: %w", err)
				}
				return enc.Close()
			default:
				return common.NewUserError(fmt.Sprintf("unknown format %q (use json or yaml)", format), common.ErrInvalidConfig)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json, yaml)")

	return cmd
}
