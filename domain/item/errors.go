package item

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("item not found")
)

func NewInvalidInputError(details string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, details)
}

func NewNotFoundError(itemId string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, itemId)
}
