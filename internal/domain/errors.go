package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is fatal for the whole run and never retried.
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
)

// ProviderError is a failed call to the places provider. It is scoped to
// the candidate being resolved.
type ProviderError struct {
	Op        string // search|details
	Status    int    // 0 for transport failures
	Retryable bool
	Err       error
}

func (e *ProviderError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("places %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("places %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is a ProviderError worth another attempt.
func IsRetryable(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Retryable
}
