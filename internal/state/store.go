package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/spend-squad/internal/common"
	"github.com/Veraticus/spend-squad/internal/model"
	"github.com/Veraticus/spend-squad/internal/service"
)

// StateKey is the storage key the whole budget lives under.
const StateKey = "budgetState"

// Result reports what a dispatched command did.
type Result struct {
	State   model.BudgetState
	Changed bool
}

// Store holds the single BudgetState and persists every change before
// reporting it. All mutation goes through Dispatch.
type Store struct {
	storage service.Storage
	env     Env
	key     string
	state   model.BudgetState
	mu      sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithEnv overrides id generation, randomness, and the quote set.
func WithEnv(env Env) Option {
	return func(s *Store) {
		s.env = env
	}
}

// Open restores the state from storage, or starts from the first-run state
// when nothing has been written yet.
func Open(ctx context.Context, storage service.Storage, opts ...Option) (*Store, error) {
	if storage == nil {
		return nil, errors.New("storage is required")
	}

	s := &Store{
		storage: storage,
		env:     DefaultEnv(),
		key:     StateKey,
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := storage.Get(ctx, s.key)
	switch {
	case errors.Is(err, common.ErrNotFound):
		slog.Info("No saved budget found, starting fresh", "key", s.key)
		s.state = NewFirstRunState(s.env)
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load budget state: %w", storageErr(err))
	}

	st, err := Decode(data, s.env)
	if err != nil {
		return nil, err
	}
	s.state = st

	slog.Debug("Restored budget state",
		"onboarded", st.IsOnboarded,
		"expenses", len(st.Expenses),
		"categories", len(st.Categories))
	return s, nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() model.BudgetState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies cmd and writes the result through to storage. The new
// state becomes visible only once the write succeeds; a failed write leaves
// the previous state in place.
func (s *Store) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed, err := Apply(s.state, cmd, s.env)
	if err != nil {
		return Result{State: s.state.Clone()}, err
	}
	if !changed {
		slog.Debug("Command left state unchanged", "command", cmd.Kind())
		return Result{State: s.state.Clone()}, nil
	}

	if err := s.persist(ctx, next); err != nil {
		return Result{State: s.state.Clone()}, err
	}
	s.state = next

	slog.Debug("Applied command", "command", cmd.Kind())
	return Result{State: next.Clone(), Changed: true}, nil
}

// Reset forgets everything and returns to the first-run state.
func (s *Store) Reset(ctx context.Context) (model.BudgetState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(ctx, s.key); err != nil {
		return s.state.Clone(), fmt.Errorf("failed to reset budget state: %w", storageErr(err))
	}
	s.state = NewFirstRunState(s.env)

	slog.Info("Budget state reset", "key", s.key)
	return s.state.Clone(), nil
}

// LastSaved reports when the state was last written. The boolean is false when
// nothing has been saved or the backend does not record write times.
func (s *Store) LastSaved(ctx context.Context) (time.Time, bool) {
	ts, ok := s.storage.(service.Timestamper)
	if !ok {
		return time.Time{}, false
	}

	updated, err := ts.UpdatedAt(ctx, s.key)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			slog.Warn("Failed to read last save time", "key", s.key, "error", err)
		}
		return time.Time{}, false
	}
	return updated, true
}

func (s *Store) persist(ctx context.Context, st model.BudgetState) error {
	data, err := Encode(st)
	if err != nil {
		return err
	}
	if err := s.storage.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to save budget state: %w", storageErr(err))
	}
	return nil
}

// storageErr makes sure backend failures can be matched with common.ErrStorage.
func storageErr(err error) error {
	if errors.Is(err, common.ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrStorage, err)
}
