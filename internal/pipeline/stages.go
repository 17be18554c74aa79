package pipeline

import (
	"context"

	"data-pipeline/internal/record"
)

// Loader reads raw bytes from a source.
type Loader interface {
	// Load returns the content of source.
	Load(ctx context.Context, source string) ([]byte, error)
	// Validate reports whether the loader can read source.
	Validate(source string) error
}

// Parser turns raw bytes into a table.
type Parser interface {
	Parse(ctx context.Context, data []byte) (record.Table, error)
	// Formats lists the file extensions the parser understands, dot included.
	Formats() []string
}

// Transformer rewrites a table between parsing and mapping.
type Transformer interface {
	Transform(ctx context.Context, t record.Table) (record.Table, error)
	Description() string
}

// Mapper consumes the final table and produces values of T.
type Mapper[T any] interface {
	Map(ctx context.Context, t record.Table) ([]T, error)
}

// TransformFunc adapts a function to the Transformer interface.
type TransformFunc func(ctx context.Context, t record.Table) (record.Table, error)

// Transform calls f.
func (f TransformFunc) Transform(ctx context.Context, t record.Table) (record.Table, error) {
	return f(ctx, t)
}

// Description implements Transformer.
func (f TransformFunc) Description() string {
	return "custom transform"
}

// Describe wraps fn in a Transformer reporting desc.
func Describe(desc string, fn TransformFunc) Transformer {
	return describedTransform{desc: desc, fn: fn}
}

type describedTransform struct {
	desc string
	fn   TransformFunc
}

func (d describedTransform) Transform(ctx context.Context, t record.Table) (record.Table, error) {
	return d.fn(ctx, t)
}

func (d describedTransform) Description() string {
	return d.desc
}
