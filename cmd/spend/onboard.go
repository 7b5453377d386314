package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/spend-squad/internal/cli"
	"github.com/Veraticus/spend-squad/internal/common"
	"github.com/Veraticus/spend-squad/internal/model"
	"github.com/Veraticus/spend-squad/internal/state"
)

type onboardOptions struct {
	currency    string
	userType    string
	balance     string
	income      string
	categories  []string
	interactive bool
}

func onboardCmd(a *app) *cobra.Command {
	var opts onboardOptions

	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Set up your budget",
		Long: `Set your currency, current balance, and monthly income. Categories default to
Food, Housing, Utilities, Transportation, Healthcare, Entertainment, Shopping,
and Education unless you pass your own with --category "Name[:essential]".

Use -i to be asked for anything you did not pass as a flag.`,
		Example: `  spend onboard --balance 2500 --income 4000
  spend onboard --currency ₹ --user-type student --balance 800 --income 1200 \
    --category Rent:essential --category Games
  spend onboard -i`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			onboarding, err := opts.resolve(cmd.Context(), cmd, cli.NewPrompter(a.in, cmd.OutOrStdout()))
			if err != nil {
				return err
			}

			eng, cleanup, err := a.openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if _, err := eng.CompleteOnboarding(cmd.Context(), onboarding); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			writeLine(w, cli.FormatSuccess("Budget set up! "+cli.MoneyIcon))
			writeLine(w, cli.RenderStatus(eng.Summary()))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.currency, "currency", model.DefaultCurrency, "currency symbol")
	cmd.Flags().StringVar(&opts.userType, "user-type", string(model.UserTypeWorking), "student or working")
	cmd.Flags().StringVar(&opts.balance, "balance", "", "current balance")
	cmd.Flags().StringVar(&opts.income, "income", "", "monthly income")
	cmd.Flags().StringArrayVar(&opts.categories, "category", nil, `category as "Name" or "Name:essential" (repeatable)`)
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "prompt for values not given as flags")

	return cmd
}

// resolve fills the onboarding command from flags, prompting for the rest
// when interactive.
func (o onboardOptions) resolve(ctx context.Context, cmd *cobra.Command, p *cli.Prompter) (state.CompleteOnboarding, error) {
	var err error
	changed := cmd.Flags().Changed

	if !o.interactive && (!changed("balance") || !changed("income")) {
		return state.CompleteOnboarding{}, common.NewUserError("--balance and --income are required (or use -i to be asked)", nil)
	}

	if o.interactive {
		writeLine(cmd.OutOrStdout(), cli.FormatTitle("Let's set up your budget"))
		if !changed("currency") {
			if o.currency, err = p.Ask(ctx, "Currency symbol", o.currency); err != nil {
				return state.CompleteOnboarding{}, err
			}
		}
		if !changed("user-type") {
			if o.userType, err = p.Choose(ctx, "Are you a student or working?", []string{"student", "working"}, o.userType); err != nil {
				return state.CompleteOnboarding{}, err
			}
		}
	}

	userType, err := model.ParseUserType(strings.ToLower(o.userType))
	if err != nil {
		return state.CompleteOnboarding{}, common.NewUserError("user type must be student or working", common.ErrInvalidUserType)
	}

	balance, err := o.amount(ctx, p, changed("balance"), o.balance, "Current balance")
	if err != nil {
		return state.CompleteOnboarding{}, err
	}
	income, err := o.amount(ctx, p, changed("income"), o.income, "Monthly income")
	if err != nil {
		return state.CompleteOnboarding{}, err
	}

	categories, err := parseCategories(o.categories)
	if err != nil {
		return state.CompleteOnboarding{}, err
	}

	return state.CompleteOnboarding{
		Currency:      strings.TrimSpace(o.currency),
		UserType:      userType,
		Categories:    categories,
		Balance:       balance,
		MonthlyIncome: income,
	}, nil
}

func (o onboardOptions) amount(ctx context.Context, p *cli.Prompter, given bool, raw, prompt string) (decimal.Decimal, error) {
	if given {
		return parseAmount(raw)
	}
	return p.AskDecimal(ctx, prompt, decimal.Zero)
}

// parseCategories reads "Name" and "Name:essential" specs. No specs means
// the default categories.
func parseCategories(specs []string) ([]model.Category, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	out := make([]model.Category, 0, len(specs))
	for _, spec := range specs {
		name, flag, hasFlag := strings.Cut(spec, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, common.NewUserError(fmt.Sprintf("category %q needs a name", spec), common.ErrInvalidCategory)
		}

		essential := false
		if hasFlag {
			switch strings.ToLower(strings.TrimSpace(flag)) {
			case "essential", "e", "true", "yes":
				essential = true
			case "", "optional", "false", "no":
			default:
				return nil, common.NewUserError(fmt.Sprintf("category %q: expected :essential", spec), common.ErrInvalidCategory)
			}
		}
		out = append(out, model.Category{Name: name, IsEssential: essential})
	}
	return out, nil
}
