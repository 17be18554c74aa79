package convert

import (
	"errors"
	"fmt"
	"strings"

	"data-pipeline/internal/resolve"
)

var (
	// ErrUnresolvedRequiredField matches every *UnresolvedRequiredFieldError.
	ErrUnresolvedRequiredField = errors.New("unresolved required field")
	// ErrInvalidOptions is returned by New for unusable options.
	ErrInvalidOptions = errors.New("invalid converter options")
)

// UnresolvedRequiredFieldError lists required fields without a column above
// the threshold and without a default.
type UnresolvedRequiredFieldError struct {
	Fields  []string
	Reasons []string
	Mapping *resolve.Mapping
}

func (e *UnresolvedRequiredFieldError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f
		if i < len(e.Reasons) && e.Reasons[i] != "" {
			parts[i] += " (" + e.Reasons[i] + ")"
		}
	}

	return "unresolved required field: " + strings.Join(parts, ", ")
}

// Is reports whether target is ErrUnresolvedRequiredField.
func (e *UnresolvedRequiredFieldError) Is(target error) bool {
	return target == ErrUnresolvedRequiredField
}

// RowError reports the first field of a record that failed to convert.
type RowError struct {
	Row    int    // zero-based record index
	Field  string // schema field name
	Column string // source column, empty when the field is unmapped
	Raw    any
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: field %s: %v", e.Row, e.Field, e.Err)
	}

	return fmt.Sprintf("row %d: field %s (column %q): %v", e.Row, e.Field, e.Column, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
