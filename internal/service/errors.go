package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalid marks malformed or semantically invalid input: empty
	// names, non-positive amounts, missing or unresolvable references,
	// amount mismatch between a payment and its request. Raised before
	// any write happens.
	ErrInvalid = errors.New("invalid input")

	// ErrConflict marks a valid request that violates a state invariant:
	// accepting an already-fulfilled request, deleting a fulfilled
	// request, insufficient balance, duplicate username or membership.
	ErrConflict = errors.New("conflict")
)

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalid}, args...)...)
}

func conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrConflict}, args...)...)
}
