package meta

import (
	"errors"
	"fmt"
)

var (
	// ErrNilArgument reports a missing type, member descriptor or receiver.
	ErrNilArgument = errors.New("reflcache: nil argument")

	// ErrArgument reports an argument of the wrong shape or type.
	ErrArgument = errors.New("reflcache: invalid argument")

	// ErrKeyNotFound is returned by Dictionary.Get for an unknown member name.
	ErrKeyNotFound = errors.New("reflcache: key not found")

	// ErrInvalidOperation reports an operation the member does not support, such as
	// reading a property without a getter or writing a read-only field.
	ErrInvalidOperation = errors.New("reflcache: invalid operation")
)

func argCountError(want, got int, variadic bool) error {
	if variadic {
		return fmt.Errorf("%w: want at least %d arguments, got %d", ErrArgument, want, got)
	}
	return fmt.Errorf("%w: want %d arguments, got %d", ErrArgument, want, got)
}

func argError(i int, err error) error {
	return fmt.Errorf("argument %d: %w", i, err)
}
