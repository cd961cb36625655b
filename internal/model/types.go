package model

// FieldType is the simplified enum for form-friendly property kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
)

const (
	ValidationRuleRequired  = "required"
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
	ValidationRuleEmail     = "email"
)

// ValidationRule represents a single validation constraint applied to a
// property. Numeric bounds and length limits encode their threshold in
// Params["value"] while pattern rules keep the expression in
// Params["pattern"]. Boolean flags such as exclusivity are encoded as string
// values so descriptor files stay flat.
type ValidationRule struct {
	Kind   string            `json:"kind" yaml:"kind"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// LookupColumn is a single column displayed by a lookup dialog.
type LookupColumn struct {
	Path  string `json:"path" yaml:"path"`
	Title string `json:"title" yaml:"title"`
}

// LookupSpec marks a property whose value is picked from a related
// collection.
type LookupSpec struct {
	Collection string         `json:"collection" yaml:"collection"`
	Columns    []LookupColumn `json:"columns,omitempty" yaml:"columns,omitempty"`
}

// PropertyDescriptor carries the per-property metadata used to build a form
// control.
type PropertyDescriptor struct {
	Required   bool             `json:"required,omitempty" yaml:"required,omitempty"`
	Default    any              `json:"default,omitempty" yaml:"default,omitempty"`
	Validators []ValidationRule `json:"validators,omitempty" yaml:"validators,omitempty"`
	Type       FieldType        `json:"type,omitempty" yaml:"type,omitempty"`
	Label      string           `json:"label,omitempty" yaml:"label,omitempty"`
	Enum       []any            `json:"enum,omitempty" yaml:"enum,omitempty"`
	Lookup     *LookupSpec      `json:"lookup,omitempty" yaml:"lookup,omitempty"`
}

// Descriptor is the static metadata of one entity type. Properties keeps the
// declaration order; Fields may omit entries for properties that need no
// metadata.
type Descriptor struct {
	Collection string                        `json:"collection"`
	Properties []string                      `json:"properties"`
	Fields     map[string]PropertyDescriptor `json:"fields,omitempty"`
}

// Property returns the descriptor entry for name, if any.
func (d Descriptor) Property(name string) (PropertyDescriptor, bool) {
	if d.Fields == nil {
		return PropertyDescriptor{}, false
	}
	prop, ok := d.Fields[name]
	return prop, ok
}

// Record is a loosely typed entity payload exchanged with gateways.
type Record map[string]any

// NewRecord returns a record holding every declared property, set to its
// default value or nil.
func (d Descriptor) NewRecord() Record {
	record := make(Record, len(d.Properties))
	for _, name := range d.Properties {
		var value any
		if prop, ok := d.Property(name); ok {
			value = prop.Default
		}
		record[name] = value
	}
	return record
}

// Merge shallow-copies src onto r. Keys absent from src are kept.
func (r Record) Merge(src Record) Record {
	if r == nil {
		r = make(Record, len(src))
	}
	for key, value := range src {
		r[key] = value
	}
	return r
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for key, value := range r {
		out[key] = value
	}
	return out
}
