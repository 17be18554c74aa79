package schema

import (
	"fmt"
	"strings"

	"data-pipeline/internal/common"
)

// Kind represents the kind of a declared type.
type Kind int

const (
	KindInvalid  Kind = iota
	KindString        // string scalar
	KindInt           // integer scalar (coerced as int64)
	KindFloat         // floating point scalar (coerced as float64)
	KindBool          // boolean scalar
	KindOptional      // optional-wrapped scalar
	KindList          // homogeneous list of scalar
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindOptional:
		return "optional"
	case KindList:
		return "list"
	default:
		return common.UnknownStr
	}
}

// IsScalar returns true for string, int, float and bool.
func (k Kind) IsScalar() bool {
	return k >= KindString && k <= KindBool
}

// Type is a declared field type. Elem is only set for KindOptional and
// KindList and is always a scalar kind. Type values are comparable.
type Type struct {
	Kind Kind
	Elem Kind
}

// Scalar types.
var (
	TypeString = Type{Kind: KindString}
	TypeInt    = Type{Kind: KindInt}
	TypeFloat  = Type{Kind: KindFloat}
	TypeBool   = Type{Kind: KindBool}
)

// Optional wraps a scalar type. Non-scalar input yields an invalid Type.
func Optional(elem Type) Type {
	if !elem.IsScalar() {
		return Type{}
	}

	return Type{Kind: KindOptional, Elem: elem.Kind}
}

// List declares a homogeneous list of a scalar type. Non-scalar input yields
// an invalid Type.
func List(elem Type) Type {
	if !elem.IsScalar() {
		return Type{}
	}

	return Type{Kind: KindList, Elem: elem.Kind}
}

// IsScalar returns true if the type is a plain scalar.
func (t Type) IsScalar() bool {
	return t.Kind.IsScalar()
}

// IsOptional returns true for optional-wrapped scalars.
func (t Type) IsOptional() bool {
	return t.Kind == KindOptional
}

// IsList returns true for lists.
func (t Type) IsList() bool {
	return t.Kind == KindList
}

// ElemType returns the wrapped scalar of an optional or list type, or the
// type itself for scalars.
func (t Type) ElemType() Type {
	if t.Kind == KindOptional || t.Kind == KindList {
		return Type{Kind: t.Elem}
	}

	return t
}

// Valid reports whether the type is one of the supported shapes.
func (t Type) Valid() bool {
	switch t.Kind {
	case KindString, KindInt, KindFloat, KindBool:
		return t.Elem == KindInvalid
	case KindOptional, KindList:
		return t.Elem.IsScalar()
	default:
		return false
	}
}

// String renders the type in Go-like syntax: "int", "*int", "[]string".
func (t Type) String() string {
	switch t.Kind {
	case KindOptional:
		return "*" + t.Elem.String()
	case KindList:
		return "[]" + t.Elem.String()
	default:
		return t.Kind.String()
	}
}

// ParseType parses the syntax produced by Type.String. A few common spellings
// of the scalar names are accepted as well.
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)

	switch {
	case strings.HasPrefix(s, "*"):
		elem, err := parseScalar(s[1:])
		if err != nil {
			return Type{}, err
		}

		return Optional(elem), nil
	case strings.HasPrefix(s, "[]"):
		elem, err := parseScalar(s[2:])
		if err != nil {
			return Type{}, err
		}

		return List(elem), nil
	default:
		return parseScalar(s)
	}
}

func parseScalar(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "string", "str", "text":
		return TypeString, nil
	case "int", "int64", "integer":
		return TypeInt, nil
	case "float", "float64", "number":
		return TypeFloat, nil
	case "bool", "boolean":
		return TypeBool, nil
	default:
		return Type{}, fmt.Errorf("unsupported type %q", s)
	}
}
