// Package value implements the typed values carried in bindings: 32-bit
// signed integers, UTF-8 strings, unsigned counters and timeticks.
package value

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Type is the one-byte wire tag for a value.
type Type uint8

const (
	TypeInteger   Type = 0x02
	TypeString    Type = 0x04
	TypeCounter   Type = 0x41
	TypeTimeTicks Type = 0x43
)

var (
	ErrUnknownType     = errors.New("value: unknown value type")
	ErrMalformedValue  = errors.New("value: malformed value bytes")
	ErrInvalidEncoding = errors.New("value: invalid utf-8 encoding")
)

const numericWidth = 4

// Value is a closed tagged union over the four wire types. The zero Value is
// not valid; construct through Integer, String, Counter or TimeTicks.
type Value struct {
	typ Type
	i   int32
	u   uint32
	s   string
}

func Integer(v int32) Value    { return Value{typ: TypeInteger, i: v} }
func String(v string) Value    { return Value{typ: TypeString, s: v} }
func Counter(v uint32) Value   { return Value{typ: TypeCounter, u: v} }
func TimeTicks(v uint32) Value { return Value{typ: TypeTimeTicks, u: v} }

// Type returns the wire tag.
func (v Value) Type() Type { return v.typ }

// Int returns the integer payload; zero for non-integer values.
func (v Value) Int() int32 { return v.i }

// Uint returns the counter or timeticks payload; zero otherwise.
func (v Value) Uint() uint32 { return v.u }

// Str returns the string payload; empty for non-string values.
func (v Value) Str() string { return v.s }

// Equal reports whether both tag and payload match.
func (v Value) Equal(other Value) bool {
	return v == other
}

// String renders the payload without type decoration.
func (v Value) String() string {
	switch v.typ {
	case TypeInteger:
		return strconv.FormatInt(int64(v.i), 10)
	case TypeString:
		return v.s
	case TypeCounter, TypeTimeTicks:
		return strconv.FormatUint(uint64(v.u), 10)
	default:
		return fmt.Sprintf("value(0x%02x)", uint8(v.typ))
	}
}

// Encode emits the wire bytes for the payload: 4-byte big-endian for the
// numeric types, raw UTF-8 bytes for strings. The tag is not included; it
// travels separately in the binding header.
func (v Value) Encode() ([]byte, error) {
	switch v.typ {
	case TypeInteger:
		buf := make([]byte, numericWidth)
		binary.BigEndian.PutUint32(buf, uint32(v.i))
		return buf, nil
	case TypeCounter, TypeTimeTicks:
		buf := make([]byte, numericWidth)
		binary.BigEndian.PutUint32(buf, v.u)
		return buf, nil
	case TypeString:
		return []byte(v.s), nil
	default:
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownType, uint8(v.typ))
	}
}

// Decode parses wire bytes under the given tag. Numeric types must be exactly
// four bytes; strings may be any length but must be valid UTF-8.
func Decode(b []byte, typ Type) (Value, error) {
	switch typ {
	case TypeInteger:
		if len(b) != numericWidth {
			return Value{}, fmt.Errorf("%w: integer length %d", ErrMalformedValue, len(b))
		}
		return Integer(int32(binary.BigEndian.Uint32(b))), nil
	case TypeCounter:
		if len(b) != numericWidth {
			return Value{}, fmt.Errorf("%w: counter length %d", ErrMalformedValue, len(b))
		}
		return Counter(binary.BigEndian.Uint32(b)), nil
	case TypeTimeTicks:
		if len(b) != numericWidth {
			return Value{}, fmt.Errorf("%w: timeticks length %d", ErrMalformedValue, len(b))
		}
		return TimeTicks(binary.BigEndian.Uint32(b)), nil
	case TypeString:
		if !utf8.Valid(b) {
			return Value{}, ErrInvalidEncoding
		}
		return String(string(b)), nil
	default:
		return Value{}, fmt.Errorf("%w: 0x%02x", ErrUnknownType, uint8(typ))
	}
}

// TypeName is the lowercase spelling used in config files and the CLI.
func TypeName(t Type) string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeString:
		return "string"
	case TypeCounter:
		return "counter"
	case TypeTimeTicks:
		return "timeticks"
	default:
		return fmt.Sprintf("type(0x%02x)", uint8(t))
	}
}

// ParseType maps a config/CLI type name to its wire tag.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "integer":
		return TypeInteger, nil
	case "string":
		return TypeString, nil
	case "counter":
		return TypeCounter, nil
	case "timeticks":
		return TypeTimeTicks, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
}

// ParseValue builds a Value of the given type from its text form, as typed on
// the command line or written in a config file.
func ParseValue(typ Type, text string) (Value, error) {
	switch typ {
	case TypeInteger:
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q", ErrMalformedValue, text)
		}
		return Integer(int32(n)), nil
	case TypeCounter, TypeTimeTicks:
		n, err := strconv.ParseUint(text, 10, 32)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q", ErrMalformedValue, text)
		}
		if typ == TypeCounter {
			return Counter(uint32(n)), nil
		}
		return TimeTicks(uint32(n)), nil
	case TypeString:
		return String(text), nil
	default:
		return Value{}, fmt.Errorf("%w: 0x%02x", ErrUnknownType, uint8(typ))
	}
}
