package custom_error

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the decomposition engine and its registries.
// Handlers translate these into HTTP responses; nothing here is fatal to
// the process.
var (
	ErrNotFound                 = errors.New("resource not found")
	ErrInvalidTransition        = errors.New("invalid asset status transition")
	ErrInvalidState             = errors.New("operation not allowed in current request state")
	ErrAssetNotEligible         = errors.New("asset is not eligible for decomposition")
	ErrDuplicateInFlightRequest = errors.New("asset already has an in-flight decomposition request")
	ErrInsufficientStock        = errors.New("insufficient stock")
	ErrConcurrentModification   = errors.New("request was modified concurrently, re-fetch and retry")
)

type UniqueViolationError struct {
	message string
	code    string // PostgreSQL error code (e.g., "23505")
}

type ForeignKeyViolationError struct {
	message string
	code    string // PostgreSQL error code (e.g., "23503")
}

func (f *ForeignKeyViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", f.message, f.code)
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", e.message, e.code)
}

func WrapDBError(message, code string) error {
	switch code {
	case "23505":
		return &UniqueViolationError{
			message: message,
			code:    code,
		}
	case "23503":
		return &ForeignKeyViolationError{
			message: "Value is already used by other resources " + message,
			code:    code,
		}
	default:
		return fmt.Errorf("uncategorized error occurred with code %s: %s", code, message)
	}
}
