package exam

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyPool    = errors.New("no questions match the requested filters")
	ErrNotOwner     = errors.New("exam belongs to another user")
)

// ValidationError names the offending field. It matches ErrInvalidInput.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
