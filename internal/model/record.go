package model

import (
	"maps"
	"regexp"
	"strconv"
	"strings"
)

// Entry is a single (field, value) pair of a Record.
type Entry struct {
	Field string
	Value Value
}

// Record is the carbon footprint data for one device model. It is immutable:
// every operation that changes content returns a new Record.
type Record struct {
	entries []Entry
	index   map[string]int
}

// NewRecord builds a Record from typed entries, keeping the caller's order.
// A later entry for the same field replaces the earlier value in place.
// Values are not checked against the schema kinds.
func NewRecord(entries ...Entry) (Record, error) {
	r := Record{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		if !IsField(e.Field) {
			return Record{}, &UnknownFieldError{Field: e.Field}
		}
		if i, ok := r.index[e.Field]; ok {
			r.entries[i].Value = e.Value
			continue
		}
		r.index[e.Field] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	return r, nil
}

var trailingZeros = regexp.MustCompile(`\.0*$`)

// FromText coerces raw text values to the schema types. Missing or empty
// values are left out of the record. Keys outside the schema are ignored.
func FromText(data map[string]string) (Record, error) {
	r := Record{index: make(map[string]int, len(schema))}
	for _, f := range schema {
		raw, ok := data[f.Name]
		if !ok || raw == "" {
			continue
		}

		v, err := parseText(f.Kind, raw)
		if err != nil {
			return Record{}, &ConversionError{
				Field: f.Name,
				Value: raw,
				Kind:  f.Kind,
				Row:   maps.Clone(data),
				Err:   err,
			}
		}
		r.index[f.Name] = len(r.entries)
		r.entries = append(r.entries, Entry{Field: f.Name, Value: v})
	}
	return r, nil
}

func parseText(kind Kind, raw string) (Value, error) {
	s := strings.TrimSpace(raw)
	switch kind {
	case KindInt:
		// Integers serialized as floats ("12.0") are accepted.
		n, err := strconv.ParseInt(trailingZeros.ReplaceAllString(s, ""), 10, 64)
		if err != nil {
			return Value{}, err
		}
		return Int(n), nil
	case KindFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	default:
		return Str(raw), nil
	}
}

// Get returns the value of a schema field, or Empty when the record does not
// carry it. Names outside the schema fail with an UnknownFieldError.
func (r Record) Get(name string) (Value, error) {
	if i, ok := r.index[name]; ok {
		return r.entries[i].Value, nil
	}
	if !IsField(name) {
		return Value{}, &UnknownFieldError{Field: name}
	}
	return Empty(), nil
}

// Value returns the value of a schema field. It is the infallible form of Get
// for callers iterating the schema itself.
func (r Record) Value(f Field) Value {
	if i, ok := r.index[f.Name]; ok {
		return r.entries[i].Value
	}
	return Empty()
}

// Has reports whether the record carries an entry for name.
func (r Record) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Len returns the number of entries held.
func (r Record) Len() int { return len(r.entries) }

// Entries returns a copy of the entries in record order.
func (r Record) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Fields returns the field names in record order.
func (r Record) Fields() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Field
	}
	return names
}

// Equal reports whether both records hold the same fields, in the same order,
// with equal values.
func (r Record) Equal(o Record) bool {
	if len(r.entries) != len(o.entries) {
		return false
	}
	for i, e := range r.entries {
		if e.Field != o.entries[i].Field || !e.Value.Equal(o.entries[i].Value) {
			return false
		}
	}
	return true
}

// With returns a copy of r where name holds v. An existing entry keeps its
// position; a new one is appended.
func (r Record) With(name string, v Value) (Record, error) {
	return NewRecord(append(r.Entries(), Entry{Field: name, Value: v})...)
}

var delimiterStripper = strings.NewReplacer(
	",", "", "\"", "", ";", "",
	"\r\n", "\n", "\r", "\n",
)

// Reorder returns a record carrying every schema field in canonical order.
// Text values lose commas, semicolons, double quotes and outer whitespace so
// the row renders without quoting in either CSV format. Carriage returns
// become newlines, which survive a CRLF-terminated row.
func (r Record) Reorder() Record {
	out := Record{
		entries: make([]Entry, 0, len(schema)),
		index:   make(map[string]int, len(schema)),
	}
	for _, f := range schema {
		v := r.Value(f)
		if v.Kind() == KindString {
			v = Str(strings.TrimSpace(delimiterStripper.Replace(v.Text())))
		}
		out.index[f.Name] = len(out.entries)
		out.entries = append(out.entries, Entry{Field: f.Name, Value: v})
	}
	return out
}

// String returns a compact debug form of the record.
func (r Record) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, e := range r.entries {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.Field)
		b.WriteString(": ")
		if e.Value.Kind() == KindString {
			b.WriteString(strconv.Quote(e.Value.Text()))
		} else {
			b.WriteString(e.Value.String())
		}
	}
	b.WriteByte('}')
	return b.String()
}
