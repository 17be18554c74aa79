package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"data-pipeline/internal/match"
)

// ErrInvalidSchema is returned when a schema cannot be built.
var ErrInvalidSchema = errors.New("invalid schema")

// Field describes one target field.
type Field struct {
	Name       string   // Canonical field name used for matching
	Type       Type     // Declared type
	Required   bool     // Unmapped or missing values are errors
	Default    any      // Raw default, coerced to Type by the converter
	HasDefault bool     // Whether Default is set (nil is a valid default)
	Aliases    []string // Field-specific aliases, matched before the catalog
	GoName     string   // Struct field name (empty for built schemas)
	Index      []int    // Struct field index for reflect.Value.FieldByIndex
}

// Schema is an ordered, immutable set of fields.
type Schema struct {
	name   string
	fields []Field
	byName map[string]int
	target reflect.Type
}

// Name returns the schema name (the struct type name for derived schemas).
func (s *Schema) Name() string {
	return s.name
}

// Fields returns a copy of the fields in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)

	return out
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

// Field returns the field with the given name. Names are compared in
// normalized form.
func (s *Schema) Field(name string) (Field, bool) {
	idx, ok := s.byName[match.NormalizeName(name)]
	if !ok {
		return Field{}, false
	}

	return s.fields[idx], true
}

// Names returns the field names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}

	return names
}

// Target returns the struct type the schema was derived from, or nil for
// built schemas.
func (s *Schema) Target() reflect.Type {
	return s.target
}

// FieldOption customizes a field added through a Builder.
type FieldOption func(*Field)

// WithDefault sets the field default. A field with a default is not required.
func WithDefault(v any) FieldOption {
	return func(f *Field) {
		f.Default = v
		f.HasDefault = true
		f.Required = false
	}
}

// WithAliases adds field-specific aliases.
func WithAliases(aliases ...string) FieldOption {
	return func(f *Field) {
		f.Aliases = append(f.Aliases, aliases...)
	}
}

// NotRequired marks a field as optional without a default: when it cannot be
// filled it keeps its zero value.
func NotRequired() FieldOption {
	return func(f *Field) {
		f.Required = false
	}
}

// Builder assembles a Schema field by field.
type Builder struct {
	name   string
	fields []Field
}

// NewBuilder creates a Builder for a schema with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// Field appends a field. Scalars and lists are required unless a default or
// NotRequired is given; optional types never are.
func (b *Builder) Field(name string, t Type, opts ...FieldOption) *Builder {
	f := Field{
		Name:     name,
		Type:     t,
		Required: !t.IsOptional(),
	}

	for _, opt := range opts {
		opt(&f)
	}

	b.fields = append(b.fields, f)

	return b
}

// Build validates and returns the schema.
func (b *Builder) Build() (*Schema, error) {
	return newSchema(b.name, b.fields, nil)
}

func newSchema(name string, fields []Field, target reflect.Type) (*Schema, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: %s has no fields", ErrInvalidSchema, name)
	}

	s := &Schema{
		name:   name,
		fields: make([]Field, len(fields)),
		byName: make(map[string]int, len(fields)),
		target: target,
	}

	var problems []string

	for i, f := range fields {
		key := match.NormalizeName(f.Name)

		switch {
		case key == "":
			problems = append(problems, fmt.Sprintf("field %d has an empty name", i))
		case !f.Type.Valid():
			problems = append(problems, fmt.Sprintf("field %q has an unsupported type", f.Name))
		}

		if prev, ok := s.byName[key]; ok && key != "" {
			problems = append(problems, fmt.Sprintf("fields %q and %q normalize to the same name",
				fields[prev].Name, f.Name))
		}

		if f.Type.IsOptional() {
			f.Required = false
		}

		f.Aliases = append([]string(nil), f.Aliases...)
		s.fields[i] = f
		s.byName[key] = i
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidSchema, name, strings.Join(problems, "; "))
	}

	return s, nil
}
