package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spend-squad/internal/cli"
	"github.com/Veraticus/spend-squad/internal/common"
	"github.com/Veraticus/spend-squad/internal/config"
	"github.com/Veraticus/spend-squad/internal/engine"
	"github.com/Veraticus/spend-squad/internal/model"
	"github.com/Veraticus/spend-squad/internal/ofx"
	"github.com/Veraticus/spend-squad/internal/pattern"
)

type importStats struct {
	added         int
	duplicates    int
	rejected      int
	warnings      int
	uncategorized int
}

// categorizer picks the category for a statement debit: the best matching
// payee rule, else the fallback.
type categorizer struct {
	matcher  *pattern.Matcher
	fallback string
}

func newCategorizer(rules []pattern.Rule, st model.BudgetState, fallbackRef string) (*categorizer, error) {
	resolved, err := pattern.ResolveCategories(rules, st.Categories)
	if err != nil {
		return nil, err
	}
	matcher, err := pattern.NewMatcher(resolved)
	if err != nil {
		return nil, err
	}

	c := &categorizer{matcher: matcher}
	if fallbackRef != "" {
		cat, err := resolveCategory(st, fallbackRef)
		if err != nil {
			return nil, err
		}
		c.fallback = cat.ID
	}
	if c.fallback == "" && matcher.Len() == 0 {
		return nil, common.NewUserError("--category is required when no import rules are configured", common.ErrInvalidCategory)
	}
	return c, nil
}

func (c *categorizer) categoryFor(cand ofx.Candidate) string {
	if id, ok := c.matcher.Categorize(cand.Payee, cand.Amount); ok {
		return id
	}
	return c.fallback
}

func importCmd(a *app) *cobra.Command {
	var (
		category string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import expenses from an OFX/QFX statement",
		Long: `Import the debits from a bank or credit card statement export as expenses.
Credits are skipped, as are debits already logged with the same day, amount,
and payee. Each logged expense accounts for one statement debit, so repeated
identical purchases on one day are all imported the first time.

Each debit goes to the category of the first matching rule under import.rules
in the config file, or to --category when no rule matches. Debits with neither
are left out.

Every expense goes through the same checks as 'spend expense add', so an
emergency budget can refuse part of a statement.`,
		Example: `  spend import ~/Downloads/checking.qfx --category food
  spend import statement.ofx -c Shopping --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			candidates, err := readStatement(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(candidates) == 0 {
				writeLine(w, cli.FormatInfo("No debits found in "+args[0]+"."))
				return nil
			}

			eng, cleanup, err := a.openOnboarded(cmd.Context(), engine.WithSink(engine.SinkFunc(logSignal)))
			if err != nil {
				return err
			}
			defer cleanup()

			cat, err := newCategorizer(a.settings.Import.Rules, eng.Snapshot(), category)
			if err != nil {
				return err
			}

			if dryRun {
				previewImport(w, eng.Snapshot(), cat, candidates)
				return nil
			}

			handler := cli.NewInterruptHandler(w, "Import")
			ctx := handler.HandleInterrupts(cmd.Context(), true)

			stats, err := importCandidates(ctx, w, eng, cat, candidates)
			if handler.WasInterrupted() {
				return nil
			}
			if err != nil {
				return err
			}

			writeLine(w, cli.FormatSuccess(fmt.Sprintf("Imported %d expenses.", stats.added)))
			if stats.duplicates > 0 {
				writeLine(w, cli.FormatInfo(fmt.Sprintf("Skipped %d already recorded.", stats.duplicates)))
			}
			if stats.uncategorized > 0 {
				writeLine(w, cli.FormatInfo(fmt.Sprintf("Skipped %d with no matching rule. Pass --category to import them.", stats.uncategorized)))
			}
			if stats.rejected > 0 {
				writeLine(w, cli.FormatError(fmt.Sprintf("%d refused by your emergency budget.", stats.rejected)))
			}
			if stats.warnings > 0 {
				writeLine(w, cli.FormatWarning(fmt.Sprintf("%d imported with warnings. Run 'spend status' to review.", stats.warnings)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category id or name for debits no rule matches")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list what would be imported without saving")

	return cmd
}

func readStatement(ctx context.Context, path string) ([]ofx.Candidate, error) {
	f, err := os.Open(config.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open statement: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("Failed to close statement", "path", path, "error", cerr)
		}
	}()

	return ofx.NewParser().ParseFile(ctx, f)
}

// importCandidates submits each new candidate in statement order. It stops
// early, keeping what was saved, when ctx is canceled.
func importCandidates(ctx context.Context, w io.Writer, eng *engine.Engine, cat *categorizer, candidates []ofx.Candidate) (importStats, error) {
	var stats importStats
	seen := ofx.NewDeduper(eng.Snapshot().Expenses)
	bar := cli.NewImportProgress(w, len(candidates))

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if err := importOne(ctx, eng, cat, seen, c, &stats); err != nil {
			return stats, err
		}

		if err := bar.Add(1); err != nil {
			slog.Debug("Failed to update progress bar", "error", err)
		}
	}

	return stats, nil
}

func importOne(ctx context.Context, eng *engine.Engine, cat *categorizer, seen *ofx.Deduper, c ofx.Candidate, stats *importStats) error {
	if seen.Duplicate(c) {
		stats.duplicates++
		return nil
	}

	categoryID := cat.categoryFor(c)
	if categoryID == "" {
		stats.uncategorized++
		return nil
	}

	out, err := eng.SubmitExpense(ctx, engine.ExpenseRequest{
		Date:       c.Date,
		CategoryID: categoryID,
		Note:       c.Payee,
		Amount:     c.Amount,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("failed to import %s (%s): %w", c.Payee, c.FitID, err)
	}

	if out.Rejected() {
		stats.rejected++
		slog.Debug("Statement debit refused", "fitid", c.FitID, "amount", c.Amount.String())
		return nil
	}
	if out.Kind != engine.OutcomeUnchanged {
		stats.added++
	}
	if len(out.Warnings()) > 0 {
		stats.warnings++
	}
	return nil
}

// logSignal records import signals in the log; the summary lines replace
// per-expense output.
func logSignal(s engine.Signal) {
	slog.Debug("Import signal", "kind", s.Kind.String(), "title", s.Title, "message", s.Message)
}

func previewImport(w io.Writer, st model.BudgetState, cat *categorizer, candidates []ofx.Candidate) {
	seen := ofx.NewDeduper(st.Expenses)
	rows := make([][]string, 0, len(candidates))
	for _, c := range candidates {
		status := "new"
		if seen.Duplicate(c) {
			status = "duplicate"
		}

		name := "-"
		if id := cat.categoryFor(c); id != "" {
			if found, ok := engine.CategoryByID(st, id); ok {
				name = found.Name
			}
		} else if status == "new" {
			status = "no rule"
		}

		rows = append(rows, []string{
			c.Date.Format("2006-01-02"),
			c.AccountID,
			c.Type,
			cli.FormatMoney(st.Currency, c.Amount),
			c.Payee,
			name,
			status,
		})
	}

	writeLine(w, cli.RenderTable([]string{"Date", "Account", "Type", "Amount", "Payee", "Category", ""}, rows))
	writeLine(w, cli.FormatInfo(fmt.Sprintf("%d debits found. Nothing was saved.", len(candidates))))
}
