package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spend-squad/internal/common"
	"github.com/Veraticus/spend-squad/internal/model"
	"github.com/Veraticus/spend-squad/internal/service"
	"github.com/Veraticus/spend-squad/internal/state"
)

// LowBalanceShare is the fraction of monthly income below which a low
// balance warning is raised after an expense.
var LowBalanceShare = decimal.RequireFromString("0.2")

// OutcomeKind is the result of a gated command.
type OutcomeKind int

const (
	// OutcomeApplied means the state changed with nothing to warn about.
	OutcomeApplied OutcomeKind = iota
	// OutcomeAppliedWithWarning means the state changed and at least one
	// warning was raised.
	OutcomeAppliedWithWarning
	// OutcomeRejected means the policy refused the command. State is unchanged.
	OutcomeRejected
	// OutcomeUnchanged means the command was a no-op.
	OutcomeUnchanged
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeApplied:
		return "applied"
	case OutcomeAppliedWithWarning:
		return "applied_with_warning"
	case OutcomeRejected:
		return "rejected"
	case OutcomeUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// Outcome is what a gated command returns. Rejections are outcomes, not errors.
type Outcome struct {
	State   model.BudgetState
	Signals []Signal
	Kind    OutcomeKind
}

// Rejected reports whether the policy refused the command.
func (o Outcome) Rejected() bool {
	return o.Kind == OutcomeRejected
}

// Warnings returns the warning signals raised by the command.
func (o Outcome) Warnings() []Signal {
	var out []Signal
	for _, s := range o.Signals {
		if s.Kind == SignalWarning {
			out = append(out, s)
		}
	}
	return out
}

// ExpenseRequest is the input to SubmitExpense. A zero Date means now.
type ExpenseRequest struct {
	Date       time.Time
	CategoryID string
	Note       string
	Amount     decimal.Decimal
}

// Engine validates commands against the current state and forwards the
// approved ones to the store.
type Engine struct {
	store *state.Store
	clock service.Clock
	sink  SignalSink
	mu    sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithSink publishes signals to sink.
func WithSink(sink SignalSink) Option {
	return func(e *Engine) {
		if sink != nil {
			e.sink = sink
		}
	}
}

// New creates an engine over store. It panics if store or clock is nil.
func New(store *state.Store, clock service.Clock, opts ...Option) *Engine {
	if store == nil {
		panic("engine: nil state store")
	}
	if clock == nil {
		panic("engine: nil clock")
	}

	e := &Engine{
		store: store,
		clock: clock,
		sink:  discardSink{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Snapshot returns a read-only copy of the current state.
func (e *Engine) Snapshot() model.BudgetState {
	return e.store.Snapshot()
}

// Summary returns the current state with the metrics computed from it at the
// engine clock's now.
func (e *Engine) Summary() (model.BudgetState, Summary) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.store.Snapshot()
	return st, Summarize(st, e.clock.Now())
}

// LastSaved reports when the budget was last written, if the backend knows.
func (e *Engine) LastSaved(ctx context.Context) (time.Time, bool) {
	return e.store.LastSaved(ctx)
}

// SubmitExpense runs the emergency policy and records the expense when allowed.
//
// A non-essential category during emergency mode raises a warning first.
// Then, if emergency mode is on with a budget set and this month's spend plus
// the amount would exceed it, the expense is rejected. After a successful
// write a balance under LowBalanceShare of monthly income raises a warning.
func (e *Engine) SubmitExpense(ctx context.Context, req ExpenseRequest) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.store.Snapshot()
	now := e.clock.Now()

	if !req.Amount.IsPositive() {
		return Outcome{State: st, Kind: OutcomeUnchanged},
			fmt.Errorf("%w: amount must be positive, got %s", common.ErrInvalidExpense, req.Amount)
	}
	category, ok := CategoryByID(st, req.CategoryID)
	if !ok {
		return Outcome{State: st, Kind: OutcomeUnchanged},
			fmt.Errorf("%w: unknown category %q", common.ErrInvalidExpense, req.CategoryID)
	}

	var signals []Signal
	if st.EmergencyMode && !category.IsEssential {
		signals = append(signals, Signal{
			Kind:    SignalWarning,
			Title:   TitleEmergencyActive,
			Message: fmt.Sprintf("%s is a non-essential expense. Are you sure you want to proceed?", category.Name),
		})
	}

	if st.EmergencyMode && st.EmergencyBudget != nil {
		projected := MonthlySpent(st, now).Add(req.Amount)
		if projected.GreaterThan(*st.EmergencyBudget) {
			overage := projected.Sub(*st.EmergencyBudget)
			signals = append(signals, Signal{
				Kind:    SignalRejected,
				Title:   TitleBudgetExceeded,
				Message: fmt.Sprintf("This expense would put you %s over your emergency budget.", formatMoney(st.Currency, overage)),
				Overage: &overage,
			})
			slog.Info("Expense rejected by emergency budget",
				"category", req.CategoryID,
				"amount", req.Amount.String(),
				"overage", overage.String())
			return e.resolve(Outcome{State: st, Kind: OutcomeRejected, Signals: signals}), nil
		}
	}

	date := req.Date
	if date.IsZero() {
		date = now
	}
	res, err := e.store.Dispatch(ctx, state.AddExpense{
		Date:       date,
		CategoryID: req.CategoryID,
		Note:       req.Note,
		Amount:     req.Amount,
	})
	if err != nil {
		return Outcome{State: res.State, Kind: OutcomeUnchanged}, err
	}

	signals = append(signals, Signal{
		Kind:    SignalApplied,
		Title:   TitleExpenseAdded,
		Message: fmt.Sprintf("%s added to %s.", formatMoney(res.State.Currency, req.Amount), category.Name),
	})

	threshold := res.State.MonthlyIncome.Mul(LowBalanceShare)
	if res.State.Balance.LessThan(threshold) {
		signals = append(signals, Signal{
			Kind:    SignalWarning,
			Title:   TitleLowBalance,
			Message: "Your balance is getting low. Consider enabling emergency mode.",
		})
	}

	kind := OutcomeApplied
	if hasWarning(signals) {
		kind = OutcomeAppliedWithWarning
	}
	return e.resolve(Outcome{State: res.State, Kind: kind, Signals: signals}), nil
}

// DeleteExpense removes an expense and refunds its amount. Unknown ids are a no-op.
func (e *Engine) DeleteExpense(ctx context.Context, id string) (Outcome, error) {
	return e.pass(ctx, state.DeleteExpense{ID: id})
}

// DeleteCategory removes a category unless an expense still references it.
func (e *Engine) DeleteCategory(ctx context.Context, id string) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.store.Snapshot()
	if st.CategoryInUse(id) {
		return e.resolve(Outcome{
			State: st,
			Kind:  OutcomeRejected,
			Signals: []Signal{{
				Kind:    SignalRejected,
				Title:   TitleCannotDeleteInUse,
				Message: "This category is being used by some expenses.",
			}},
		}), nil
	}
	return e.dispatch(ctx, state.DeleteCategory{ID: id})
}

// ToggleEmergencyMode flips emergency mode. A non-nil override replaces the
// emergency budget.
func (e *Engine) ToggleEmergencyMode(ctx context.Context, override *decimal.Decimal) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	out, err := e.dispatch(ctx, state.ToggleEmergencyMode{BudgetOverride: override})
	if err != nil {
		return out, err
	}

	sig := Signal{
		Kind:    SignalModeChanged,
		Title:   TitleModeDeactivated,
		Message: "You can now spend on all categories.",
	}
	if out.State.EmergencyMode {
		sig.Title = TitleModeActivated
		sig.Message = "Only essential expenses allowed. Stay strong!"
	}
	out.Signals = append(out.Signals, sig)

	slog.Info("Emergency mode toggled", "active", out.State.EmergencyMode)
	return e.resolve(out), nil
}

// CompleteOnboarding sets up the budget.
func (e *Engine) CompleteOnboarding(ctx context.Context, cmd state.CompleteOnboarding) (Outcome, error) {
	return e.pass(ctx, cmd)
}

// SetEmergencyBudget sets the emergency budget without toggling the mode.
func (e *Engine) SetEmergencyBudget(ctx context.Context, amount decimal.Decimal) (Outcome, error) {
	return e.pass(ctx, state.SetEmergencyBudget{Amount: amount})
}

// AddCategory appends a category with a generated id.
func (e *Engine) AddCategory(ctx context.Context, name string, essential bool) (Outcome, error) {
	return e.pass(ctx, state.AddCategory{Name: name, IsEssential: essential})
}

// UpdateBalance overwrites the balance.
func (e *Engine) UpdateBalance(ctx context.Context, value decimal.Decimal) (Outcome, error) {
	return e.pass(ctx, state.UpdateBalance{Value: value})
}

// UpdateMonthlyIncome overwrites the monthly income.
func (e *Engine) UpdateMonthlyIncome(ctx context.Context, value decimal.Decimal) (Outcome, error) {
	return e.pass(ctx, state.UpdateMonthlyIncome{Value: value})
}

// RefreshQuote picks a different motivational quote.
func (e *Engine) RefreshQuote(ctx context.Context) (Outcome, error) {
	return e.pass(ctx, state.RefreshQuote{})
}

// Reset discards all stored data and returns to the first-run state.
func (e *Engine) Reset(ctx context.Context) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.store.Reset(ctx)
	if err != nil {
		return Outcome{State: st, Kind: OutcomeUnchanged}, err
	}
	return Outcome{State: st, Kind: OutcomeApplied}, nil
}

func (e *Engine) pass(ctx context.Context, cmd state.Command) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dispatch(ctx, cmd)
}

// dispatch forwards cmd to the store. Callers hold e.mu.
func (e *Engine) dispatch(ctx context.Context, cmd state.Command) (Outcome, error) {
	res, err := e.store.Dispatch(ctx, cmd)
	if err != nil {
		return Outcome{State: res.State, Kind: OutcomeUnchanged}, err
	}
	if !res.Changed {
		return Outcome{State: res.State, Kind: OutcomeUnchanged}, nil
	}
	return Outcome{State: res.State, Kind: OutcomeApplied}, nil
}

// resolve publishes the outcome's signals in order.
func (e *Engine) resolve(out Outcome) Outcome {
	for _, s := range out.Signals {
		e.sink.Publish(s)
	}
	return out
}

func hasWarning(signals []Signal) bool {
	for _, s := range signals {
		if s.Kind == SignalWarning {
			return true
		}
	}
	return false
}

func formatMoney(currency string, amount decimal.Decimal) string {
	return currency + amount.StringFixed(2)
}
