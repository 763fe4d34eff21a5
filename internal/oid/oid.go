// Package oid implements dotted numeric object identifiers and their
// single-byte-per-component wire encoding.
package oid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrComponentOutOfRange = errors.New("oid: component out of range")
	ErrInvalidComponent    = errors.New("oid: invalid component")
)

// OID is an ordered sequence of non-negative integer components.
// Each component must fit in one byte on the wire.
type OID []int

// Parse converts a dotted string such as "1.3.6.1.2.1.1.5.0" into an OID.
// The empty string parses to the empty OID.
func Parse(s string) (OID, error) {
	if s == "" {
		return OID{}, nil
	}
	parts := strings.Split(s, ".")
	out := make(OID, 0, len(parts))
	for _, part := range parts {
		// ParseUint rejects signs and whitespace, so "+3" and " 3" are
		// invalid spellings rather than silent aliases for "3".
		n, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return nil, fmt.Errorf("%w: %q", ErrComponentOutOfRange, part)
			}
			return nil, fmt.Errorf("%w: %q", ErrInvalidComponent, part)
		}
		out = append(out, int(n))
	}
	return out, nil
}

// MustParse is Parse for compile-time-known identifiers; it panics on error.
func MustParse(s string) OID {
	o, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return o
}

// String renders the OID as dot-separated decimal components.
func (o OID) String() string {
	if len(o) == 0 {
		return ""
	}
	var b strings.Builder
	for i, n := range o {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// Encode emits one byte per component, in order.
func (o OID) Encode() ([]byte, error) {
	out := make([]byte, len(o))
	for i, n := range o {
		if n < 0 || n > 255 {
			return nil, fmt.Errorf("%w: %d", ErrComponentOutOfRange, n)
		}
		out[i] = byte(n)
	}
	return out, nil
}

// Decode interprets each byte as one component. Any input length is valid,
// including zero.
func Decode(b []byte) OID {
	out := make(OID, len(b))
	for i, c := range b {
		out[i] = int(c)
	}
	return out
}

// Compare orders OIDs component-wise, left to right, as integers. A strict
// prefix orders before any longer OID it prefixes. Returns -1, 0 or 1.
func Compare(a, b OID) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// Equal reports component-wise equality.
func (o OID) Equal(other OID) bool {
	return Compare(o, other) == 0
}

// Clone returns an independent copy.
func (o OID) Clone() OID {
	out := make(OID, len(o))
	copy(out, o)
	return out
}
