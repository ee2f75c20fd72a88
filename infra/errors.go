package infra

import (
	"errors"
	"fmt"
)

var (
	ErrTimeout = errors.New("timeout error")
	ErrStorage = errors.New("storage error")
)

func NewTimeoutError(details string) error {
	return fmt.Errorf("%w: %s", ErrTimeout, details)
}

// NewStorageError marks err as a backend failure while keeping it in the chain.
func NewStorageError(details string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, details, err)
}

// IsRetriable returns true if the error is a timeout or a backend failure, so retry makes sense.
func IsRetriable(err error) bool {
	return err != nil && (errors.Is(err, ErrTimeout) || errors.Is(err, ErrStorage))
}
