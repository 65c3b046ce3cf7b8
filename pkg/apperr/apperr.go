// Package apperr defines the error taxonomy shared by all modules.
// Usecase handlers wrap these sentinels with fmt.Errorf("%w: ...") and the
// HTTP delivery layer maps them onto status codes with errors.Is.
package apperr

import "errors"

var (
	// ErrInvalidRequest marks malformed input: missing required fields,
	// non-positive quantities, same-location transfers.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNotFound marks an unresolvable product, location, SKU or sale.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a duplicate SKU or location name.
	ErrConflict = errors.New("conflict")

	// ErrInsufficientStock marks a requested quantity exceeding the
	// ledger-derived availability.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// IsClientError reports whether err belongs to the 4xx taxonomy. Anything
// else is surfaced as a generic server fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrInsufficientStock)
}
