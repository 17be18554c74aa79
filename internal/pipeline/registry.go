package pipeline

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Factories build fresh stage instances.
type (
	LoaderFactory      func() Loader
	ParserFactory      func() Parser
	TransformerFactory func() Transformer
)

// Registry maps names to stage factories.
type Registry struct {
	loaders      map[string]LoaderFactory
	parsers      map[string]ParserFactory
	transformers map[string]TransformerFactory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		loaders:      make(map[string]LoaderFactory),
		parsers:      make(map[string]ParserFactory),
		transformers: make(map[string]TransformerFactory),
	}
}

// DefaultRegistry returns a registry holding the stock stages:
// loaders "csv", "excel" and "file", parsers "csv" and "excel", and the
// "auto_categorize" transformer.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}

	must(r.RegisterLoader("csv", func() Loader { return NewFileLoader(CSVExtensions...) }))
	must(r.RegisterLoader("excel", func() Loader { return NewFileLoader(ExcelExtensions...) }))
	must(r.RegisterLoader("file", func() Loader {
		return NewFileLoader(slices.Concat(CSVExtensions, ExcelExtensions)...)
	}))
	must(r.RegisterParser("csv", func() Parser { return NewCSVParser() }))
	must(r.RegisterParser("excel", func() Parser { return NewExcelParser() }))
	must(r.RegisterTransformer("auto_categorize", func() Transformer { return NewAutoCategorizer() }))

	return r
}

// RegisterLoader adds a loader factory.
func (r *Registry) RegisterLoader(name string, f LoaderFactory) error {
	return register(r.loaders, "loader", name, f)
}

// RegisterParser adds a parser factory.
func (r *Registry) RegisterParser(name string, f ParserFactory) error {
	return register(r.parsers, "parser", name, f)
}

// RegisterTransformer adds a transformer factory.
func (r *Registry) RegisterTransformer(name string, f TransformerFactory) error {
	return register(r.transformers, "transformer", name, f)
}

func register[F any](m map[string]F, kind, name string, f F) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%s name is empty", kind)
	}

	if _, dup := m[name]; dup {
		return fmt.Errorf("%w: %s %q", ErrDuplicateComponent, kind, name)
	}

	m[name] = f

	return nil
}

// Loader instantiates a registered loader.
func (r *Registry) Loader(name string) (Loader, error) {
	f, err := lookup(r.loaders, "loader", name)
	if err != nil {
		return nil, err
	}

	return f(), nil
}

// Parser instantiates a registered parser.
func (r *Registry) Parser(name string) (Parser, error) {
	f, err := lookup(r.parsers, "parser", name)
	if err != nil {
		return nil, err
	}

	return f(), nil
}

// Transformer instantiates a registered transformer.
func (r *Registry) Transformer(name string) (Transformer, error) {
	f, err := lookup(r.transformers, "transformer", name)
	if err != nil {
		return nil, err
	}

	return f(), nil
}

// ParserFor returns the name of the first parser, in name order, whose
// formats include the extension of source.
func (r *Registry) ParserFor(source string) (string, error) {
	for _, name := range slices.Sorted(maps.Keys(r.parsers)) {
		if hasExtension(source, r.parsers[name]().Formats()) {
			return name, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, source)
}

// Names lists registered names per kind.
func (r *Registry) Names() (loaders, parsers, transformers []string) {
	return slices.Sorted(maps.Keys(r.loaders)),
		slices.Sorted(maps.Keys(r.parsers)),
		slices.Sorted(maps.Keys(r.transformers))
}

func lookup[F any](m map[string]F, kind, name string) (F, error) {
	f, ok := m[name]
	if !ok {
		var zero F

		return zero, fmt.Errorf("%w: %s %q", ErrUnknownComponent, kind, name)
	}

	return f, nil
}

// Build assembles a pipeline from registered stage names and a mapper.
func Build[T any](r *Registry, loader, parser string, transformers []string, mapper Mapper[T], opts ...Option) (*Pipeline[T], error) {
	l, err := r.Loader(loader)
	if err != nil {
		return nil, err
	}

	p, err := r.Parser(parser)
	if err != nil {
		return nil, err
	}

	ts := make([]Transformer, 0, len(transformers))

	for _, name := range transformers {
		t, err := r.Transformer(name)
		if err != nil {
			return nil, err
		}

		ts = append(ts, t)
	}

	return New(l, p, mapper, append([]Option{WithTransformers(ts...)}, opts...)...)
}
