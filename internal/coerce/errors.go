package coerce

import (
	"errors"
	"fmt"

	"data-pipeline/internal/schema"
)

// ErrCoercion matches every *CoercionError via errors.Is.
var ErrCoercion = errors.New("coercion failed")

// CoercionError reports a raw value that could not be converted to a type.
type CoercionError struct {
	Raw    any
	Type   schema.Type
	Reason string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("cannot coerce %s to %s: %s", describe(e.Raw), e.Type, e.Reason)
}

// Is reports whether target is ErrCoercion.
func (e *CoercionError) Is(target error) bool {
	return target == ErrCoercion
}

func describe(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v (%T)", v, v)
	}
}

func fail(raw any, t schema.Type, format string, args ...any) error {
	return &CoercionError{Raw: raw, Type: t, Reason: fmt.Sprintf(format, args...)}
}
