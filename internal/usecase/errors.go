package usecase

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is in the HTTP layer and mapped to
// status codes there: validation 400, authentication 401, authorization 403,
// not-found 404, conflict 409, rate-limit 429, anything else 500.
var (
	ErrValidation       = errors.New("validation failed")
	ErrAuthentication   = errors.New("authentication required")
	ErrAuthorization    = errors.New("insufficient role")
	ErrNotFound         = errors.New("not found")
	ErrDuplicateBooking = errors.New("a booking already exists for this email on that day")
	ErrPromoOverlap     = errors.New("an active promo already covers part of this interval")
	ErrEmailTaken       = errors.New("email already in use")
	ErrRateLimited      = errors.New("too many attempts")
)

// ValidationError wraps ErrValidation with a field-specific message that is
// safe to surface to the caller.
func ValidationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
