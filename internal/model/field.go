package model

// Kind identifies the scalar type of a schema field or a Value.
type Kind int

const (
	KindEmpty Kind = iota
	KindString
	KindInt
	KindFloat
)

// String returns the type name used in error messages and reports.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "str"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "empty"
	}
}

// Field is one entry of the device footprint schema.
type Field struct {
	Name string
	Kind Kind
}

// Well-known field names referenced by the merge rules.
const (
	FieldManufacturer = "manufacturer"
	FieldName         = "name"
	FieldCategory     = "category"
	FieldGWPTotal     = "gwp_total"
	FieldSources      = "sources"
	FieldSourcesHash  = "sources_hash"
	FieldAddedDate    = "added_date"
	FieldAddMethod    = "add_method"
	FieldComment      = "comment"
)

// schema is the canonical field order. CSV headers, rows and reordered
// records all follow it.
var schema = []Field{
	{FieldManufacturer, KindString},
	{FieldName, KindString},
	{FieldCategory, KindString},
	{"subcategory", KindString},
	{FieldGWPTotal, KindFloat},
	{"gwp_use_ratio", KindFloat},
	{"yearly_tec", KindFloat},
	{"lifetime", KindFloat},
	{"use_location", KindString},
	{"report_date", KindString},
	{FieldSources, KindString},
	{FieldSourcesHash, KindString},
	{"gwp_error_ratio", KindFloat},
	{"gwp_manufacturing_ratio", KindFloat},
	{"weight", KindFloat},
	{"assembly_location", KindString},
	{"screen_size", KindFloat},
	{"server_type", KindString},
	{"hard_drive", KindString},
	{"memory", KindFloat},
	{"number_cpu", KindInt},
	{"height", KindInt},
	{FieldAddedDate, KindString},
	{FieldAddMethod, KindString},
	{"gwp_transport_ratio", KindFloat},
	{"gwp_eol_ratio", KindFloat},
	{"gwp_electronics_ratio", KindFloat},
	{"gwp_battery_ratio", KindFloat},
	{"gwp_hdd_ratio", KindFloat},
	{"gwp_ssd_ratio", KindFloat},
	{"gwp_othercomponents_ratio", KindFloat},
	{FieldComment, KindString},
}

var schemaIndex = func() map[string]int {
	idx := make(map[string]int, len(schema))
	for i, f := range schema {
		idx[f.Name] = i
	}
	return idx
}()

// Schema returns a copy of the ordered field list.
func Schema() []Field {
	out := make([]Field, len(schema))
	copy(out, schema)
	return out
}

// FieldNames returns the schema field names in canonical order.
func FieldNames() []string {
	names := make([]string, len(schema))
	for i, f := range schema {
		names[i] = f.Name
	}
	return names
}

// LookupField returns the schema entry for name.
func LookupField(name string) (Field, bool) {
	i, ok := schemaIndex[name]
	if !ok {
		return Field{}, false
	}
	return schema[i], true
}

// IsField reports whether name belongs to the schema.
func IsField(name string) bool {
	_, ok := schemaIndex[name]
	return ok
}
