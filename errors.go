package respdecode

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates invalid configuration options
	ErrInvalidConfig = errors.New("invalid configuration")
)

// DecodeError reports which value of a buffer could not be decoded
type DecodeError struct {
	Index  int // number of values decoded before the failure
	Offset int // position of the failed value within the buffer
	Err    error
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode value %d at offset %d: %v", e.Index, e.Offset, e.Err)
}

// Unwrap returns the wrapped error
func (e *DecodeError) Unwrap() error {
	return e.Err
}
