package protocol

import (
	"errors"
	"math"
)

const (
	// CRLF is the Redis protocol line terminator
	CRLF = "\r\n"

	// DefaultMaxDepth is the default limit on array nesting
	DefaultMaxDepth = 128

	// DefaultMaxBulkLength is the default maximum size for bulk strings (512MB)
	DefaultMaxBulkLength = 512 * 1024 * 1024

	// DefaultMaxArrayLength is the default maximum number of array elements
	DefaultMaxArrayLength = 1024 * 1024
)

// Limits bounds the resources a single decode may use. Zero fields take
// the package defaults.
type Limits struct {
	MaxDepth       int
	MaxBulkLength  int
	MaxArrayLength int
}

// DefaultLimits returns the limits used by Decode and Skip
func DefaultLimits() Limits {
	return Limits{
		MaxDepth:       DefaultMaxDepth,
		MaxBulkLength:  DefaultMaxBulkLength,
		MaxArrayLength: DefaultMaxArrayLength,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxDepth > 0 {
		d.MaxDepth = l.MaxDepth
	}
	if l.MaxBulkLength > 0 {
		d.MaxBulkLength = l.MaxBulkLength
	}
	if l.MaxArrayLength > 0 {
		d.MaxArrayLength = l.MaxArrayLength
	}
	return d
}

// Decoder decodes RESP values from in-memory buffers. It holds no state
// between calls and is safe for concurrent use.
type Decoder struct {
	limits Limits
}

// NewDecoder creates a decoder with the given limits
func NewDecoder(limits Limits) *Decoder {
	return &Decoder{limits: limits.withDefaults()}
}

// Limits returns the effective limits of the decoder
func (d *Decoder) Limits() Limits {
	return d.limits
}

var defaultDecoder = NewDecoder(Limits{})

// Decode decodes one value from the front of in using the default limits
func Decode(in []byte) (Value, []byte, error) {
	return defaultDecoder.Decode(in)
}

// Skip validates and skips one value using the default limits
func Skip(in []byte) ([]byte, error) {
	return defaultDecoder.Skip(in)
}

// Decode decodes one value from the front of in and returns it together
// with the bytes that follow it. On failure the error is a *Error.
func (d *Decoder) Decode(in []byte) (Value, []byte, error) {
	v, rest, err := d.value(in, 0)
	if err != nil {
		return Value{}, nil, locate(in, err)
	}
	return v, rest, nil
}

// Skip checks that in starts with a well-formed value and returns the bytes
// that follow it, without building the value.
func (d *Decoder) Skip(in []byte) ([]byte, error) {
	_, rest, err := d.skip(in, 0)
	if err != nil {
		return nil, locate(in, err)
	}
	return rest, nil
}

func locate(in []byte, err error) error {
	var pe *Error
	if errors.As(err, &pe) {
		pe.Offset = len(in) - len(pe.Remaining)
	}
	return err
}

func (d *Decoder) value(in []byte, depth int) (Value, []byte, error) {
	if len(in) == 0 {
		return Value{}, nil, incomplete(in, 1, "expected type byte")
	}

	switch ValueType(in[0]) {
	case TypeInteger:
		return d.integer(in)
	case TypeBulkString:
		return d.bulkString(in)
	case TypeArray:
		return d.array(in, depth)
	default:
		return Value{}, nil, malformed(in, "unknown RESP type %q", in[0])
	}
}

func (d *Decoder) integer(in []byte) (Value, []byte, error) {
	var n uint64
	rest, err := sequence(in,
		char(byte(TypeInteger)),
		digits(&n),
		literal(CRLF),
	)
	if err != nil {
		return Value{}, nil, err
	}
	return Number(n), rest, nil
}

func (d *Decoder) bulkString(in []byte) (Value, []byte, error) {
	var (
		length uint64
		data   []byte
	)
	rest, err := sequence(in,
		char(byte(TypeBulkString)),
		digits(&length),
		atMost(&length, d.limits.MaxBulkLength, "bulk string"),
		literal(CRLF),
		fixed(&length, &data),
		literal(CRLF),
	)
	if err != nil {
		return Value{}, nil, err
	}
	return Value{Type: TypeBulkString, Data: data}, rest, nil
}

func (d *Decoder) array(in []byte, depth int) (Value, []byte, error) {
	count, rest, err := d.arrayHeader(in, depth)
	if err != nil {
		return Value{}, nil, err
	}
	if count < 0 {
		return NullArray(), rest, nil
	}

	elems, rest, err := repeat[Value](count, rest, func(in []byte) (Value, []byte, error) {
		return d.value(in, depth+1)
	})
	if err != nil {
		return Value{}, nil, err
	}
	return ArrayOf(elems...), rest, nil
}

// arrayHeader consumes "*<count>\r\n" and returns the count, or -1 for the
// null array.
func (d *Decoder) arrayHeader(in []byte, depth int) (int, []byte, error) {
	rest, err := expectChar(byte(TypeArray), in)
	if err != nil {
		return 0, nil, err
	}

	count, rest, err := firstOf[int64](rest, nullCount, arrayCount)
	if err != nil {
		return 0, nil, err
	}
	if count < 0 {
		return -1, rest, nil
	}
	if count > int64(d.limits.MaxArrayLength) {
		return 0, nil, malformed(rest, "array length %d exceeds limit %d", count, d.limits.MaxArrayLength)
	}
	if depth >= d.limits.MaxDepth {
		return 0, nil, malformed(rest, "array nesting exceeds max depth %d", d.limits.MaxDepth)
	}
	return int(count), rest, nil
}

func arrayCount(in []byte) (int64, []byte, error) {
	var n uint64
	rest, err := sequence(in, digits(&n), literal(CRLF))
	if err != nil {
		return 0, nil, err
	}
	if n > math.MaxInt64 {
		return 0, nil, malformed(in, "array length %d out of range", n)
	}
	return int64(n), rest, nil
}

func nullCount(in []byte) (int64, []byte, error) {
	rest, err := expectLiteral("-1"+CRLF, in)
	if err != nil {
		return 0, nil, err
	}
	return -1, rest, nil
}

// skip mirrors value without copying bulk data or building arrays.
func (d *Decoder) skip(in []byte, depth int) (struct{}, []byte, error) {
	var none struct{}
	if len(in) == 0 {
		return none, nil, incomplete(in, 1, "expected type byte")
	}

	switch ValueType(in[0]) {
	case TypeInteger:
		_, rest, err := d.integer(in)
		return none, rest, err

	case TypeBulkString:
		var length uint64
		rest, err := sequence(in,
			char(byte(TypeBulkString)),
			digits(&length),
			atMost(&length, d.limits.MaxBulkLength, "bulk string"),
			literal(CRLF),
			discard(&length),
			literal(CRLF),
		)
		return none, rest, err

	case TypeArray:
		count, rest, err := d.arrayHeader(in, depth)
		if err != nil || count < 0 {
			return none, rest, err
		}
		for i := 0; i < count; i++ {
			if _, rest, err = d.skip(rest, depth+1); err != nil {
				return none, nil, err
			}
		}
		return none, rest, nil

	default:
		return none, nil, malformed(in, "unknown RESP type %q", in[0])
	}
}
