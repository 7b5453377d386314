package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/spend-squad/internal/common"
	"github.com/Veraticus/spend-squad/internal/config"
	"github.com/Veraticus/spend-squad/internal/service"
)

var version = "dev"

// app carries what every subcommand needs once the root command has loaded
// the configuration.
type app struct {
	v        *viper.Viper
	clock    service.Clock
	in       io.Reader
	settings config.Settings
	cfgFile  string
	envFile  string
}

func newApp() *app {
	return &app{
		v:     viper.New(),
		clock: service.SystemClock{},
		in:    os.Stdin,
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "spend",
		Short: "💰 Personal budget tracker",
		Long: `spend-squad: track your balance, log expenses, and switch into emergency mode
when money gets tight. Emergency mode caps monthly spending and nudges you away
from non-essential purchases.`,
		PersistentPreRunE: a.initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/spend/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", "", "load environment variables from this file (default: ./.env if present)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("db", "", "database path (default: $HOME/.local/share/spend/spend.db)")
	rootCmd.PersistentFlags().String("backend", "", "storage backend (sqlite, bolt)")

	// Bind flags to viper
	_ = a.v.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag(config.KeyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))
	_ = a.v.BindPFlag(config.KeyDatabasePath, rootCmd.PersistentFlags().Lookup("db"))
	_ = a.v.BindPFlag(config.KeyDatabaseBackend, rootCmd.PersistentFlags().Lookup("backend"))

	// Add commands
	rootCmd.AddCommand(onboardCmd(a))
	rootCmd.AddCommand(expenseCmd(a))
	rootCmd.AddCommand(categoryCmd(a))
	rootCmd.AddCommand(emergencyCmd(a))
	rootCmd.AddCommand(balanceCmd(a))
	rootCmd.AddCommand(incomeCmd(a))
	rootCmd.AddCommand(quoteCmd(a))
	rootCmd.AddCommand(statusCmd(a))
	rootCmd.AddCommand(showCmd(a))
	rootCmd.AddCommand(importCmd(a))
	rootCmd.AddCommand(dashboardCmd(a))
	rootCmd.AddCommand(resetCmd(a))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := newRootCmd(newApp()).ExecuteContext(ctx)
	cancel() // Always cleanup

	if err != nil {
		if errors.Is(err, errRejected) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "Error: "+common.UserMessage(err))
		slog.Debug("Command failed", "error", err)
		os.Exit(1)
	}
}

func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(a.envFile); err != nil {
		return err
	}

	config.SetDefaults(a.v)
	if err := config.ReadConfigFile(a.v, a.cfgFile); err != nil {
		return err
	}

	settings, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.settings = settings

	// Set up logging
	if err := common.SetupLogger(cmd.ErrOrStderr(), settings.Logging.Level, settings.Logging.Format); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	slog.Debug("Configuration loaded",
		"config_file", a.v.ConfigFileUsed(),
		"backend", settings.Database.Backend,
		"database", settings.Database.Path)
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "spend %s\n", version)
			return err
		},
	}
}
