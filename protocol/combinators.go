package protocol

import (
	"errors"
	"math/bits"
	"strconv"
)

// parser recognizes a prefix of in, returning the recognized result and
// the input that follows it.
type parser[T any] func(in []byte) (T, []byte, error)

// step is a parser whose result, if any, is stored by side effect.
type step func(in []byte) ([]byte, error)

type unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// expectChar consumes c from the front of in
func expectChar(c byte, in []byte) ([]byte, error) {
	if len(in) == 0 {
		return nil, incomplete(in, 1, "expected "+strconv.QuoteRune(rune(c)))
	}
	if in[0] != c {
		return nil, malformed(in, "expected %q, got %q", c, in[0])
	}
	return in[1:], nil
}

// readInteger consumes the longest run of decimal digits and parses it as T.
// Signs are not accepted.
func readInteger[T unsigned](in []byte) (T, []byte, error) {
	i := 0
	for i < len(in) && in[i] >= '0' && in[i] <= '9' {
		i++
	}
	if i == 0 {
		if len(in) == 0 {
			return 0, nil, incomplete(in, 1, "expected digit")
		}
		return 0, nil, malformed(in, "expected digit, got %q", in[0])
	}

	n, err := strconv.ParseUint(string(in[:i]), 10, bits.Len64(uint64(^T(0))))
	if err != nil {
		return 0, nil, malformed(in, "integer %s out of range", in[:i])
	}
	return T(n), in[i:], nil
}

// expectLiteral consumes lit from the front of in
func expectLiteral(lit string, in []byte) ([]byte, error) {
	for i := 0; i < len(lit); i++ {
		if i == len(in) {
			return nil, incomplete(in[i:], len(lit)-i, "expected "+strconv.Quote(lit))
		}
		if in[i] != lit[i] {
			return nil, malformed(in[i:], "expected %q", lit)
		}
	}
	return in[len(lit):], nil
}

// takeFixed returns a copy of the first n bytes of in
func takeFixed(n int, in []byte) ([]byte, []byte, error) {
	if len(in) < n {
		return nil, nil, incomplete(in, n-len(in), "short bulk data")
	}
	data := make([]byte, n)
	copy(data, in[:n])
	return data, in[n:], nil
}

func char(c byte) step {
	return func(in []byte) ([]byte, error) {
		return expectChar(c, in)
	}
}

func literal(lit string) step {
	return func(in []byte) ([]byte, error) {
		return expectLiteral(lit, in)
	}
}

func digits[T unsigned](dst *T) step {
	return func(in []byte) ([]byte, error) {
		n, rest, err := readInteger[T](in)
		if err != nil {
			return nil, err
		}
		*dst = n
		return rest, nil
	}
}

// fixed reads *n at call time, so it can follow the step that set it.
func fixed(n *uint64, dst *[]byte) step {
	return func(in []byte) ([]byte, error) {
		data, rest, err := takeFixed(int(*n), in)
		if err != nil {
			return nil, err
		}
		*dst = data
		return rest, nil
	}
}

// discard skips *n bytes without copying them
func discard(n *uint64) step {
	return func(in []byte) ([]byte, error) {
		if uint64(len(in)) < *n {
			return nil, incomplete(in, int(*n-uint64(len(in))), "short bulk data")
		}
		return in[*n:], nil
	}
}

// atMost fails once *n exceeds limit
func atMost(n *uint64, limit int, what string) step {
	return func(in []byte) ([]byte, error) {
		if *n > uint64(limit) {
			return nil, malformed(in, "%s length %d exceeds limit %d", what, *n, limit)
		}
		return in, nil
	}
}

// sequence applies steps in order, each on the remainder left by the
// previous one. The first failure is returned as is.
func sequence(in []byte, steps ...step) ([]byte, error) {
	rest := in
	for _, s := range steps {
		var err error
		if rest, err = s(rest); err != nil {
			return nil, err
		}
	}
	return rest, nil
}

// firstOf tries each alternative against the same input and returns the
// first success. If all fail, the failure that got furthest into the input
// is returned, the later alternative winning ties.
func firstOf[T any](in []byte, alternatives ...parser[T]) (T, []byte, error) {
	var (
		zero     T
		lastErr  error
		furthest = -1
	)
	for _, alt := range alternatives {
		v, rest, err := alt(in)
		if err == nil {
			return v, rest, nil
		}
		if pos := progress(in, err); pos >= furthest {
			furthest = pos
			lastErr = err
		}
	}
	if lastErr == nil {
		lastErr = malformed(in, "no alternatives")
	}
	return zero, nil, lastErr
}

// progress returns how many bytes of in were consumed before err
func progress(in []byte, err error) int {
	var pe *Error
	if errors.As(err, &pe) {
		return len(in) - len(pe.Remaining)
	}
	return 0
}

// repeat applies elem exactly n times. Results keep application order.
func repeat[T any](n int, in []byte, elem parser[T]) ([]T, []byte, error) {
	// Declared counts are untrusted; every element needs at least one byte.
	capacity := n
	if capacity > len(in) {
		capacity = len(in)
	}
	out := make([]T, 0, capacity)

	rest := in
	for i := 0; i < n; i++ {
		v, next, err := elem(rest)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, v)
		rest = next
	}
	return out, rest, nil
}
