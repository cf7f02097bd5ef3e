package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrIncomplete matches errors for input that is a valid prefix of a value
	ErrIncomplete = errors.New("incomplete RESP value")

	// ErrMalformed matches errors for input that can never become a valid value
	ErrMalformed = errors.New("malformed RESP value")
)

// ErrorKind distinguishes input that needs more bytes from corrupt input
type ErrorKind int

const (
	KindIncomplete ErrorKind = iota + 1
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindIncomplete:
		return "incomplete"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Error is the decode failure returned by every parser in this package.
type Error struct {
	Kind   ErrorKind
	Reason string

	// Offset is the position of the failure within the input given to Decode.
	Offset int

	// Needed is the minimum number of additional bytes required, set only
	// for KindIncomplete.
	Needed int

	// Remaining is the unconsumed input at the point of failure.
	Remaining []byte
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Kind == KindIncomplete {
		return fmt.Sprintf("protocol error: incomplete input at offset %d: %s (need %d more bytes)", e.Offset, e.Reason, e.Needed)
	}
	return fmt.Sprintf("protocol error: malformed input at offset %d: %s", e.Offset, e.Reason)
}

// Unwrap returns the sentinel matching the error kind
func (e *Error) Unwrap() error {
	if e.Kind == KindIncomplete {
		return ErrIncomplete
	}
	return ErrMalformed
}

func incomplete(in []byte, needed int, reason string) *Error {
	if needed < 1 {
		needed = 1
	}
	return &Error{Kind: KindIncomplete, Reason: reason, Needed: needed, Remaining: in}
}

func malformed(in []byte, format string, args ...interface{}) *Error {
	return &Error{Kind: KindMalformed, Reason: fmt.Sprintf(format, args...), Remaining: in}
}

// IsIncomplete reports whether err means more input is required
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrIncomplete)
}
