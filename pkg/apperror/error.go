package apperror

import (
	"errors"
	"net/http"
)

// Error codes rendered in the "error" field of the envelope.
const (
	CodeAuthMissing           = "auth_missing"
	CodeAuthInvalid           = "auth_invalid"
	CodeAuthExpired           = "auth_expired"
	CodeForbidden             = "forbidden"
	CodeNotFound              = "not_found"
	CodeValidation            = "validation"
	CodeConflict              = "conflict"
	CodeRateLimited           = "rate_limited"
	CodeBudgetExhausted       = "budget_exhausted"
	CodeDependencyUnavailable = "dependency_unavailable"
	CodeInternal              = "internal"
)

type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Message string `json:"detail,omitempty"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, CodeValidation, message, nil)
}

func AuthMissing(message string) *AppError {
	return New(http.StatusUnauthorized, CodeAuthMissing, message, nil)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, CodeAuthInvalid, message, nil)
}

func AuthExpired(message string) *AppError {
	return New(http.StatusUnauthorized, CodeAuthExpired, message, nil)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, CodeForbidden, message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, CodeNotFound, message, nil)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, CodeConflict, message, nil)
}

func RateLimited(message string) *AppError {
	return New(http.StatusTooManyRequests, CodeRateLimited, message, nil)
}

// BudgetExhausted is returned when a cap plan has been hit or a ticket ledger
// (or the company's global scout credits) has nothing left to spend.
func BudgetExhausted(message string) *AppError {
	return New(http.StatusConflict, CodeBudgetExhausted, message, nil)
}

// DependencyUnavailable wraps failures of the store, bus, mail relay or an
// upstream text-generation service.
func DependencyUnavailable(message string, err error) *AppError {
	return New(http.StatusServiceUnavailable, CodeDependencyUnavailable, message, err)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, CodeInternal, "Internal Server Error", err)
}

// As is a small helper around errors.As for handlers and tests.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the envelope code for err, or CodeInternal for foreign errors.
func CodeOf(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return CodeInternal
}
