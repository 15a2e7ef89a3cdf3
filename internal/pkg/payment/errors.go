package payment

import (
	"errors"
	"fmt"
)

var (
	// ErrVerificationFailed means the processor could not confirm the
	// transaction (network error, non-2xx, malformed body). Safe to retry;
	// nothing has been written.
	ErrVerificationFailed = errors.New("payment verification failed")

	// ErrNotSuccessful means the processor knows the reference but reports a
	// non-success status. Nothing is persisted for such payments.
	ErrNotSuccessful = errors.New("payment not successful")

	// ErrNotFound means the reference is unknown (refund, download recovery).
	ErrNotFound = errors.New("payment reference not found")

	// ErrWindowExpired is a download authorization denial: the configured
	// recovery window after paid_at has elapsed.
	ErrWindowExpired = errors.New("download window expired")

	// ErrItemNotInOrder is a download authorization denial: the requested
	// asset/variant pair is not part of the recorded order items.
	ErrItemNotInOrder = errors.New("item not part of order")
)

// ValidationError reports malformed event metadata. These calls are not
// retriable without a fixed payload, so callers map them to 4xx responses.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid payment metadata: %s %s", e.Field, e.Detail)
}
