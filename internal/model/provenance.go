package model

import "slices"

// Side identifies which input record a merged value came from.
type Side string

const (
	SideFirst  Side = "first"
	SideSecond Side = "second"
)

// FieldSet is a set of schema field names.
type FieldSet map[string]struct{}

// Add inserts name into the set.
func (s FieldSet) Add(name string) { s[name] = struct{}{} }

// Contains reports whether name is in the set.
func (s FieldSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the members in schema order.
func (s FieldSet) Names() []string {
	names := make([]string, 0, len(s))
	for _, f := range schema {
		if s.Contains(f.Name) {
			names = append(names, f.Name)
		}
	}
	return names
}

// Provenance records, per input record, which fields of a merged record were
// taken from it. After a merge every schema field is in exactly one set.
type Provenance struct {
	First  FieldSet
	Second FieldSet
}

// NewProvenance returns an empty Provenance.
func NewProvenance() Provenance {
	return Provenance{First: FieldSet{}, Second: FieldSet{}}
}

// Attribute records that name was kept from side, removing it from the other
// set. Nil sets are allocated on first use.
func (p *Provenance) Attribute(name string, side Side) {
	if p.First == nil {
		p.First = FieldSet{}
	}
	if p.Second == nil {
		p.Second = FieldSet{}
	}
	if side == SideFirst {
		delete(p.Second, name)
		p.First.Add(name)
		return
	}
	delete(p.First, name)
	p.Second.Add(name)
}

// SideOf returns the side a field was attributed to.
func (p Provenance) SideOf(name string) (Side, bool) {
	switch {
	case p.First.Contains(name):
		return SideFirst, true
	case p.Second.Contains(name):
		return SideSecond, true
	default:
		return "", false
	}
}

// Missing returns schema fields attributed to neither side.
func (p Provenance) Missing() []string {
	var out []string
	for _, f := range schema {
		if _, ok := p.SideOf(f.Name); !ok {
			out = append(out, f.Name)
		}
	}
	return out
}

// Overlap returns fields attributed to both sides. It is empty for any
// Provenance built through Attribute.
func (p Provenance) Overlap() []string {
	var out []string
	for _, name := range p.First.Names() {
		if p.Second.Contains(name) {
			out = append(out, name)
		}
	}
	return slices.Clip(out)
}
