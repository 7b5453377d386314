package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spend-squad/internal/engine"
	"github.com/Veraticus/spend-squad/internal/tui"
	"github.com/Veraticus/spend-squad/internal/tui/themes"
)

func dashboardCmd(a *app) *cobra.Command {
	var (
		theme    string
		fullHelp bool
	)

	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"ui"},
		Short:   "Open the interactive dashboard",
		Long: `Open a full-screen dashboard with your balance, this month's spending, and
recent expenses. Toggle emergency mode, refresh the quote, and delete expenses
from the keyboard. Press ? for help.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			selected, ok := themes.ByName(theme)
			if !ok {
				slog.Warn("Unknown theme, using default", "theme", theme)
			}

			sink := engine.NewChannelSink(32)
			defer sink.Close()

			eng, cleanup, err := a.openOnboarded(cmd.Context(), engine.WithSink(sink))
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.Run(cmd.Context(), eng, sink,
				tui.WithTheme(selected),
				tui.WithFullHelp(fullHelp))
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "default", "color theme (default, catppuccin-mocha)")
	cmd.Flags().BoolVar(&fullHelp, "full-help", false, "start with every key binding listed")

	return cmd
}
