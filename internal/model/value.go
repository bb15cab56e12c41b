package model

import (
	"math"
	"strconv"
	"strings"
)

// Value is a scalar field value: empty, string, integer or float.
// The zero Value is empty.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
}

// Empty returns the empty value.
func Empty() Value { return Value{} }

// Str returns a string value.
func Str(s string) Value { return Value{kind: KindString, s: s} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a float value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNumber reports whether v holds an int or a float.
func (v Value) IsNumber() bool { return v.kind == KindInt || v.kind == KindFloat }

// IsText reports whether v holds a string or is empty. An absent field reads
// as the empty string, so both compare as text.
func (v Value) IsText() bool { return v.kind == KindString || v.kind == KindEmpty }

// Text returns the string payload ("" for non-string values).
func (v Value) Text() string {
	if v.kind == KindString {
		return v.s
	}
	return ""
}

// Number returns the numeric payload as float64 (0 for non-numeric values).
func (v Value) Number() float64 {
	switch v.kind {
	case KindInt:
		return float64(v.i)
	case KindFloat:
		return v.f
	default:
		return 0
	}
}

// IntValue returns the integer payload.
func (v Value) IntValue() int64 { return v.i }

// Equal reports whether v and o hold the same variant and payload. NaN floats
// are equal to each other.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == o.s
	case KindInt:
		return v.i == o.i
	case KindFloat:
		if math.IsNaN(v.f) && math.IsNaN(o.f) {
			return true
		}
		return v.f == o.f
	default:
		return true
	}
}

// String renders v the way it is written to a CSV cell.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	default:
		return ""
	}
}

// formatFloat writes the shortest representation that parses back to f,
// keeping a ".0" on integral values and switching to exponent notation
// below 1e-4 and from 1e16 on.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	e := strconv.FormatFloat(f, 'e', -1, 64)
	exp, err := strconv.Atoi(e[strings.LastIndexByte(e, 'e')+1:])
	if err != nil || f == 0 {
		exp = 0
	}
	if exp < -4 || exp >= 16 {
		return e
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
