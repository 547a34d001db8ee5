package core

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrStore matches every StoreError.
	ErrStore = errors.New("store error")

	ErrProviderUnavailable = errors.New("message provider unavailable")
	ErrPermissionDenied    = errors.New("message access permission denied")
	ErrProviderTimeout     = errors.New("message provider timed out")
)

// ProviderError reports a failure fetching raw messages. It is recoverable:
// previously stored transactions remain usable.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// StoreError reports a failed persistence operation. Batches are atomic, so
// the failed operation can be retried.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

// IsProviderError reports whether err is, or wraps, a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
