package custom_error

import (
	"errors"
	"net/http"
)

// HTTPStatus maps the engine's error taxonomy to response codes. The API
// layer is the only consumer; the core itself never deals in HTTP.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrDuplicateInFlightRequest),
		errors.Is(err, ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, ErrAssetNotEligible),
		errors.Is(err, ErrInsufficientStock):
		return http.StatusUnprocessableEntity
	}

	var uniqueErr *UniqueViolationError
	var fkErr *ForeignKeyViolationError
	if errors.As(err, &uniqueErr) || errors.As(err, &fkErr) {
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}
