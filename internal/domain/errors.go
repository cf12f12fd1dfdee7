package domain

import (
	"errors"
	"fmt"
)

// Common domain errors. Usecases map these onto apperror codes.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("conflict")
	ErrDuplicate         = fmt.Errorf("duplicate: %w", ErrConflict)
	ErrIllegalTransition = fmt.Errorf("illegal state transition: %w", ErrConflict)
	ErrValidation        = errors.New("validation failed")
	ErrBudgetExhausted   = errors.New("budget exhausted")
	ErrCapReached        = fmt.Errorf("cap plan limit reached: %w", ErrBudgetExhausted)
	ErrTicketsExhausted  = fmt.Errorf("no tickets remaining: %w", ErrBudgetExhausted)
	ErrCreditsExhausted  = fmt.Errorf("no scout credits remaining: %w", ErrBudgetExhausted)
)

// TransitionError names the current and requested state of a rejected transition.
type TransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s cannot move from %q to %q", e.Entity, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrIllegalTransition
}
