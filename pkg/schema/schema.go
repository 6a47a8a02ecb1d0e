// Package schema holds the static form declarations: named, typed fields,
// nested schemas for associated objects, and collections of schemas. A schema
// is built once and shared read-only by every form instance created from it.
package schema

import (
	"strings"

	"github.com/goliatone/go-formbind/pkg/coerce"
)

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
)

// Canonical validation rule kinds. Numeric bounds and length limits encode
// their threshold in Params["value"]; pattern rules keep the expression in
// Params["pattern"].
const (
	ValidationRuleRequired  = "required"
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
	ValidationRuleEnum      = "enum"
)

// ValidationRule represents a single validation constraint applied to a field.
type ValidationRule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// PopulateContext carries the inputs handed to a field populator.
type PopulateContext struct {
	Field   string
	Raw     any
	Current any
}

// Populator overrides the default coerce-and-assign step for a single field.
// The returned value is stored as the field's current value; an error is
// recorded as a field-level message and leaves the current value unchanged.
type Populator func(ctx PopulateContext) (any, error)

// Field models a declared form input. Scalar fields carry a type and optional
// coercion override; object fields reference a nested Schema; collection
// fields additionally set Collection and construct one child form per source
// element.
type Field struct {
	Name        string
	Type        FieldType
	Required    bool
	Collection  bool
	Role        string
	Label       string
	Description string
	Default     any
	Enum        []any
	Nested      *Schema
	Coercer     coerce.Coercer
	Populator   Populator
	Validations []ValidationRule
}

// Schema is an ordered mapping of field name to declaration. Redeclaring a
// field overwrites the prior definition in place (last-write-wins), which is
// what makes schema composition and overrides work.
type Schema struct {
	name   string
	fields []Field
	index  map[string]int
}

// New constructs an empty schema. The optional name is used in error strings
// and rendered output only.
func New(name string) *Schema {
	return &Schema{
		name:  strings.TrimSpace(name),
		index: make(map[string]int),
	}
}

// Name returns the schema's display name.
func (s *Schema) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Declare registers a scalar field. Options refine the declaration; a second
// Declare for the same name replaces the earlier definition while keeping its
// position.
func (s *Schema) Declare(name string, ftype FieldType, options ...FieldOption) *Schema {
	field := Field{Name: strings.TrimSpace(name), Type: ftype}
	for _, opt := range options {
		if opt != nil {
			opt(&field)
		}
	}
	return s.put(field)
}

// DeclareNested registers an object field mapped onto an associated sub-model
// through its own child schema.
func (s *Schema) DeclareNested(name string, nested *Schema, options ...FieldOption) *Schema {
	field := Field{Name: strings.TrimSpace(name), Type: FieldTypeObject, Nested: nested}
	for _, opt := range options {
		if opt != nil {
			opt(&field)
		}
	}
	return s.put(field)
}

// DeclareCollection registers a collection field holding one child form per
// element of the model's collection, in source order.
func (s *Schema) DeclareCollection(name string, elem *Schema, options ...FieldOption) *Schema {
	field := Field{Name: strings.TrimSpace(name), Type: FieldTypeArray, Collection: true, Nested: elem}
	for _, opt := range options {
		if opt != nil {
			opt(&field)
		}
	}
	return s.put(field)
}

func (s *Schema) put(field Field) *Schema {
	if s == nil || field.Name == "" {
		return s
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if pos, ok := s.index[field.Name]; ok {
		s.fields[pos] = field
		return s
	}
	s.index[field.Name] = len(s.fields)
	s.fields = append(s.fields, field)
	return s
}

// Field returns the declaration for a name.
func (s *Schema) Field(name string) (Field, bool) {
	if s == nil {
		return Field{}, false
	}
	pos, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[pos], true
}

// Has reports whether a field name is declared.
func (s *Schema) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[name]
	return ok
}

// Fields returns the declarations in declaration order. The slice is a copy;
// mutating it does not affect the schema.
func (s *Schema) Fields() []Field {
	if s == nil || len(s.fields) == 0 {
		return nil
	}
	return append([]Field(nil), s.fields...)
}

// Len returns the number of declared fields.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.fields)
}

// Clone returns an independent copy of the schema. Nested schema references
// are shared, matching their read-only contract.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	clone := New(s.name)
	for _, field := range s.fields {
		clone.put(field)
	}
	return clone
}

// Extend overlays another schema's declarations on a copy of this one.
// Overlapping names take the other schema's definition (last-write-wins).
func (s *Schema) Extend(other *Schema) *Schema {
	clone := s.Clone()
	if clone == nil {
		clone = New("")
	}
	if other == nil {
		return clone
	}
	for _, field := range other.fields {
		clone.put(field)
	}
	return clone
}
