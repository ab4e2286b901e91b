package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the request conflicts with the current state of a resource.
var ErrConflict = errors.New("conflict")

// ErrForbidden indicates that the caller may not perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected infrastructure failure.
var ErrInternal = errors.New("internal error")

// Ledger error kinds. Each wraps one of the categories above so handlers can
// map them to a status with a single errors.Is check.
var (
	ErrDuplicateCode     = fmt.Errorf("%w: account code already exists", ErrDuplicate)
	ErrInvalidType       = fmt.Errorf("%w: invalid account type", ErrValidation)
	ErrAccountLocked     = fmt.Errorf("%w: account has posted journal items, code and type are locked", ErrConflict)
	ErrUnknownAccount    = fmt.Errorf("%w: unknown or inactive account", ErrValidation)
	ErrInsufficientItems = fmt.Errorf("%w: journal entry needs at least two items", ErrValidation)
	ErrMalformedItem     = fmt.Errorf("%w: journal item must have exactly one of debit or credit", ErrValidation)
	ErrBalanceMismatch   = fmt.Errorf("%w: debits and credits do not balance", ErrValidation)
	ErrConcurrentUpdate  = fmt.Errorf("%w: concurrent update on account balance, retry the posting", ErrConflict)
)

// AppError carries an HTTP-ish status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError builds an AppError. err may be nil.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

// Unwrap exposes the cause, so errors.Is still sees ledger kinds raised below an AppError.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets a 5xx AppError match ErrInternal.
func (e *AppError) Is(target error) bool {
	return target == ErrInternal && e.Code >= 500
}
