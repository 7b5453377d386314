package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spend-squad/internal/cli"
	"github.com/Veraticus/spend-squad/internal/common"
	"github.com/Veraticus/spend-squad/internal/engine"
	"github.com/Veraticus/spend-squad/internal/model"
	"github.com/Veraticus/spend-squad/internal/state"
	"github.com/Veraticus/spend-squad/internal/storage"
)

// errRejected is returned when the budget policy refused a command. Its
// signals have already been printed.
var errRejected = errors.New("rejected by budget policy")

var errNotOnboarded = common.NewUserError("You have not set up a budget yet. Run 'spend onboard' first.", nil)

// openEngine opens the configured storage, restores the state, and wraps it
// in an engine. The returned cleanup closes the storage.
func (a *app) openEngine(ctx context.Context, opts ...engine.Option) (*engine.Engine, func(), error) {
	db, err := storage.Open(ctx, a.settings.Database.Backend, a.settings.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}
	cleanup := func() {
		if err := db.Close(); err != nil {
			slog.Warn("Failed to close storage", "error", err)
		}
	}

	store, err := state.Open(ctx, db)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return engine.New(store, a.clock, opts...), cleanup, nil
}

// openOnboarded is openEngine for commands that need a finished setup.
func (a *app) openOnboarded(ctx context.Context, opts ...engine.Option) (*engine.Engine, func(), error) {
	eng, cleanup, err := a.openEngine(ctx, opts...)
	if err != nil {
		return nil, nil, err
	}
	if !eng.Snapshot().IsOnboarded {
		cleanup()
		return nil, nil, errNotOnboarded
	}
	return eng, cleanup, nil
}

// report prints the outcome and turns a rejection into errRejected.
func report(w io.Writer, out engine.Outcome, fallback string) error {
	if err := cli.WriteOutcome(w, out, fallback); err != nil {
		return err
	}
	if out.Rejected() {
		return errRejected
	}
	return nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil {
		return decimal.Zero, common.NewUserError(fmt.Sprintf("%q is not a valid amount", s), err)
	}
	return value, nil
}

// resolveCategory accepts a category id or, failing that, a name in any case.
func resolveCategory(st model.BudgetState, ref string) (model.Category, error) {
	if cat, ok := engine.CategoryByID(st, ref); ok {
		return cat, nil
	}
	for _, cat := range st.Categories {
		if strings.EqualFold(cat.Name, ref) {
			return cat, nil
		}
	}
	return model.Category{}, common.NewUserError(
		fmt.Sprintf("No category matches %q. Run 'spend category list' to see them.", ref),
		common.ErrInvalidCategory)
}

func writeLine(w io.Writer, line string) {
	if _, err := fmt.Fprintln(w, line); err != nil {
		slog.Error("failed to write output", "error", err)
	}
}
