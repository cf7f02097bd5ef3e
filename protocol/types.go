package protocol

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// ValueType represents the type of a RESP value
type ValueType byte

const (
	// RESP value types
	TypeInteger    ValueType = ':'
	TypeBulkString ValueType = '$'
	TypeArray      ValueType = '*'
)

// String returns the name of the value type
func (t ValueType) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeBulkString:
		return "bulk"
	case TypeArray:
		return "array"
	default:
		return fmt.Sprintf("unknown(%q)", byte(t))
	}
}

// Value represents a decoded RESP value.
//
// A Value never references the buffer it was decoded from. IsNull is only
// ever set together with TypeArray.
type Value struct {
	Type    ValueType
	Data    []byte
	Integer uint64
	Array   []Value
	IsNull  bool
}

// NullArray returns the value decoded from "*-1\r\n"
func NullArray() Value {
	return Value{Type: TypeArray, IsNull: true}
}

// Number returns an integer value
func Number(n uint64) Value {
	return Value{Type: TypeInteger, Integer: n}
}

// BulkString returns a bulk string value holding a copy of b
func BulkString(b []byte) Value {
	data := make([]byte, len(b))
	copy(data, b)
	return Value{Type: TypeBulkString, Data: data}
}

// ArrayOf returns an array value with the given elements
func ArrayOf(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{Type: TypeArray, Array: elems}
}

// IsNullArray reports whether v is the null array
func (v Value) IsNullArray() bool {
	return v.Type == TypeArray && v.IsNull
}

// String returns a string representation of the value
func (v Value) String() string {
	switch v.Type {
	case TypeInteger:
		return strconv.FormatUint(v.Integer, 10)
	case TypeBulkString:
		return strconv.Quote(string(v.Data))
	case TypeArray:
		if v.IsNull {
			return "(nil)"
		}
		parts := make([]string, len(v.Array))
		for i, item := range v.Array {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("unknown type %c", v.Type)
	}
}

// Bytes returns the byte representation of the value
func (v Value) Bytes() []byte {
	return v.Data
}

// Int returns the integer value, or 0 if not an integer
func (v Value) Int() uint64 {
	return v.Integer
}

// Equal reports whether v and other are structurally identical.
// An empty array and the null array are not equal.
func (v Value) Equal(other Value) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case TypeInteger:
		return v.Integer == other.Integer
	case TypeBulkString:
		return bytes.Equal(v.Data, other.Data)
	case TypeArray:
		if v.IsNull || other.IsNull {
			return v.IsNull == other.IsNull
		}
		if len(v.Array) != len(other.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(other.Array[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Command represents a Redis command parsed from a RESP array
type Command struct {
	Name string
	Args [][]byte
}

// ParseCommand parses a RESP array value into a Command
func ParseCommand(v Value) (*Command, error) {
	if v.Type != TypeArray || v.IsNull || len(v.Array) == 0 {
		return nil, fmt.Errorf("invalid command format")
	}

	cmd := &Command{
		Args: make([][]byte, len(v.Array)-1),
	}

	// First element is the command name
	if v.Array[0].Type != TypeBulkString {
		return nil, fmt.Errorf("command name must be bulk string")
	}
	cmd.Name = strings.ToUpper(string(v.Array[0].Data))

	for i := 1; i < len(v.Array); i++ {
		if v.Array[i].Type != TypeBulkString {
			return nil, fmt.Errorf("command arguments must be bulk strings")
		}
		cmd.Args[i-1] = v.Array[i].Data
	}

	return cmd, nil
}

// String returns a string representation of the command
func (c *Command) String() string {
	args := make([]string, len(c.Args))
	for i, arg := range c.Args {
		args[i] = string(arg)
	}
	return strings.TrimSpace(c.Name + " " + strings.Join(args, " "))
}
