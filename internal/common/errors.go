// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Storage errors.
	ErrNotFound     = errors.New("not found")
	ErrStorage      = errors.New("storage failure")
	ErrCorruptState = errors.New("stored budget state is corrupt")

	// Validation errors.
	ErrInvalidExpense  = errors.New("invalid expense")
	ErrInvalidBudget   = errors.New("invalid emergency budget")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidUserType = errors.New("invalid user type")

	// Lifecycle errors.
	ErrAlreadyOnboarded = errors.New("already onboarded")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// UserMessage returns the friendly message for err, falling back to err.Error().
func UserMessage(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	switch {
	case errors.Is(err, ErrAlreadyOnboarded):
		return "You are already set up. Run 'spend reset' to start over."
	case errors.Is(err, ErrInvalidExpense):
		return "Expenses need a positive amount and an existing category."
	case errors.Is(err, ErrCorruptState):
		return "Saved budget data could not be read."
	}
	return err.Error()
}
