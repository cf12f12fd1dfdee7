package usecase

import (
	"errors"

	"go-scout-backend/internal/domain"
	"go-scout-backend/pkg/apperror"
	"go-scout-backend/pkg/database"
)

// mapError converts repository and domain errors into AppErrors. what names
// the resource for not-found and duplicate messages.
func mapError(err error, what string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperror.As(err); ok {
		return err
	}

	var transition *domain.TransitionError
	switch {
	case errors.As(err, &transition):
		return apperror.Conflict(transition.Error())
	case errors.Is(err, domain.ErrNotFound):
		return apperror.NotFound(what + " not found")
	case errors.Is(err, domain.ErrDuplicate):
		return apperror.Conflict(what + " already exists")
	case errors.Is(err, domain.ErrConflict):
		return apperror.Conflict(err.Error())
	case errors.Is(err, domain.ErrCapReached):
		return apperror.BudgetExhausted("Job posting has reached its spending cap")
	case errors.Is(err, domain.ErrTicketsExhausted):
		return apperror.BudgetExhausted("No tickets remaining for this job posting")
	case errors.Is(err, domain.ErrCreditsExhausted):
		return apperror.BudgetExhausted("No scout credits remaining")
	case errors.Is(err, domain.ErrBudgetExhausted):
		return apperror.BudgetExhausted(err.Error())
	case errors.Is(err, domain.ErrValidation):
		return apperror.BadRequest(err.Error())
	case database.IsUnavailable(err):
		return apperror.DependencyUnavailable("Database unavailable", err)
	}
	return apperror.Internal(err)
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, domain.ErrDuplicate)
}
