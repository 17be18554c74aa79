package schema

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// TagKey is the struct tag key read by FromType.
const TagKey = "etl"

var cache sync.Map // reflect.Type -> *Schema

// For derives the schema of struct type T. Results are cached per type.
func For[T any]() (*Schema, error) {
	return FromType(reflect.TypeFor[T]())
}

// MustFor is like For but panics on error. It is meant for package-level
// variables.
func MustFor[T any]() *Schema {
	s, err := For[T]()
	if err != nil {
		panic(err)
	}

	return s
}

// FromType derives the schema of a struct type (or pointer to struct).
// Only exported, non-embedded fields are considered.
func FromType(t reflect.Type) (*Schema, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", ErrInvalidSchema)
	}

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if cached, ok := cache.Load(t); ok {
		return cached.(*Schema), nil
	}

	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrInvalidSchema, t)
	}

	fields := make([]Field, 0, t.NumField())

	for i := range t.NumField() {
		sf := t.Field(i)

		if !sf.IsExported() || sf.Anonymous {
			continue
		}

		f, skip, err := fieldFromStruct(sf)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %w", ErrInvalidSchema, t.Name(), sf.Name, err)
		}

		if skip {
			continue
		}

		fields = append(fields, f)
	}

	s, err := newSchema(t.Name(), fields, t)
	if err != nil {
		return nil, err
	}

	actual, _ := cache.LoadOrStore(t, s)

	return actual.(*Schema), nil
}

func fieldFromStruct(sf reflect.StructField) (Field, bool, error) {
	tag, hasTag := sf.Tag.Lookup(TagKey)
	if tag == "-" {
		return Field{}, true, nil
	}

	typ, err := TypeOf(sf.Type)
	if err != nil {
		return Field{}, false, err
	}

	f := Field{
		Name:   sf.Name,
		GoName: sf.Name,
		Type:   typ,
		Index:  sf.Index,
	}

	optional := typ.IsOptional()

	if hasTag {
		opts, err := parseTag(tag)
		if err != nil {
			return Field{}, false, err
		}

		if opts.name != "" {
			f.Name = opts.name
		}

		f.Aliases = opts.aliases
		f.Default = opts.defaultValue
		f.HasDefault = opts.hasDefault
		optional = optional || opts.optional
	}

	f.Required = !optional && !f.HasDefault

	return f, false, nil
}

// TypeOf maps a Go type onto a declared Type. Integer kinds map to int,
// pointers to scalars map to optional and slices of scalars map to list.
func TypeOf(t reflect.Type) (Type, error) {
	switch t.Kind() {
	case reflect.Pointer:
		elem, err := scalarOf(t.Elem())
		if err != nil {
			return Type{}, err
		}

		return Optional(elem), nil
	case reflect.Slice:
		elem, err := scalarOf(t.Elem())
		if err != nil {
			return Type{}, err
		}

		return List(elem), nil
	default:
		return scalarOf(t)
	}
}

func scalarOf(t reflect.Type) (Type, error) {
	switch t.Kind() {
	case reflect.String:
		return TypeString, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeInt, nil
	case reflect.Float32, reflect.Float64:
		return TypeFloat, nil
	case reflect.Bool:
		return TypeBool, nil
	default:
		return Type{}, fmt.Errorf("unsupported field type %s", t)
	}
}

type tagOptions struct {
	name         string
	aliases      []string
	defaultValue any
	hasDefault   bool
	optional     bool
}

// parseTag parses `name,aliases=a|b,default=v,optional`.
func parseTag(tag string) (tagOptions, error) {
	var opts tagOptions

	parts := strings.Split(tag, ",")
	opts.name = strings.TrimSpace(parts[0])

	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		key, value, hasValue := strings.Cut(part, "=")

		switch key {
		case "":
			continue
		case "optional":
			opts.optional = true
		case "default":
			if !hasValue {
				return opts, fmt.Errorf("tag option %q needs a value", key)
			}

			opts.defaultValue = value
			opts.hasDefault = true
		case "aliases", "alias":
			for _, a := range strings.Split(value, "|") {
				if a = strings.TrimSpace(a); a != "" {
					opts.aliases = append(opts.aliases, a)
				}
			}
		default:
			return opts, fmt.Errorf("unknown tag option %q", key)
		}
	}

	return opts, nil
}
