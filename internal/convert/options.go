package convert

import (
	"github.com/rs/zerolog"

	"data-pipeline/internal/alias"
	"data-pipeline/internal/coerce"
	"data-pipeline/internal/match"
	"data-pipeline/internal/schema"
)

// Options configures a Converter.
type Options struct {
	// ConfidenceThreshold is the minimum column score accepted, in [0,1].
	ConfidenceThreshold float64
	// StrictTypes aborts the batch on the first row error.
	StrictTypes bool
	// SkipInvalid drops failed rows from Batch.Results in lenient mode.
	SkipInvalid bool
	// ListDelimiter splits string values into lists.
	ListDelimiter string
	// FieldAliases extends the alias catalog per field name.
	FieldAliases map[string][]string
	// Columns overrides the column universe derived from the batch.
	Columns []string
	// Pins fixes field→column pairs.
	Pins map[string]string
	// Similarity scores names. Nil means match.LevenshteinSimilarity.
	Similarity match.Similarity
	// FailOnAmbiguity fails resolution on equal-strength contests.
	FailOnAmbiguity bool
	// Catalog is the base alias catalog. Nil means no catalog aliases.
	Catalog *alias.Catalog
	// Schema overrides the schema derived from the target type.
	Schema *schema.Schema
	// Logger receives conversion progress and lenient-mode failures.
	Logger zerolog.Logger
}

// DefaultOptions returns lenient options with the built-in alias catalog.
func DefaultOptions() Options {
	return Options{
		ConfidenceThreshold: match.DefaultConfidenceThreshold,
		ListDelimiter:       coerce.DefaultListDelimiter,
		Catalog:             alias.Default(),
		Logger:              zerolog.Nop(),
	}
}

// Option customizes Options.
type Option func(*Options)

// WithOptions replaces all options at once.
func WithOptions(o Options) Option {
	return func(opts *Options) {
		*opts = o
	}
}

// WithConfidenceThreshold sets the minimum accepted column score.
func WithConfidenceThreshold(threshold float64) Option {
	return func(o *Options) {
		o.ConfidenceThreshold = threshold
	}
}

// WithStrictTypes makes the first row error abort the batch.
func WithStrictTypes(strict bool) Option {
	return func(o *Options) {
		o.StrictTypes = strict
	}
}

// WithSkipInvalid drops failed rows from the results in lenient mode.
func WithSkipInvalid(skip bool) Option {
	return func(o *Options) {
		o.SkipInvalid = skip
	}
}

// WithListDelimiter sets the delimiter for string-encoded lists.
func WithListDelimiter(delimiter string) Option {
	return func(o *Options) {
		o.ListDelimiter = delimiter
	}
}

// WithFieldAliases adds aliases per field name on top of the catalog.
func WithFieldAliases(aliases map[string][]string) Option {
	return func(o *Options) {
		if o.FieldAliases == nil {
			o.FieldAliases = make(map[string][]string, len(aliases))
		}

		for field, list := range aliases {
			o.FieldAliases[field] = append(o.FieldAliases[field], list...)
		}
	}
}

// WithColumns fixes the column universe instead of deriving it per batch.
func WithColumns(columns ...string) Option {
	return func(o *Options) {
		o.Columns = append([]string(nil), columns...)
	}
}

// WithPins fixes field→column pairs ahead of scoring.
func WithPins(pins map[string]string) Option {
	return func(o *Options) {
		if o.Pins == nil {
			o.Pins = make(map[string]string, len(pins))
		}

		for field, column := range pins {
			o.Pins[field] = column
		}
	}
}

// WithSimilarity replaces the name similarity strategy.
func WithSimilarity(sim match.Similarity) Option {
	return func(o *Options) {
		o.Similarity = sim
	}
}

// WithFailOnAmbiguity turns equal-strength column contests into errors.
func WithFailOnAmbiguity(fail bool) Option {
	return func(o *Options) {
		o.FailOnAmbiguity = fail
	}
}

// WithCatalog replaces the base alias catalog.
func WithCatalog(c *alias.Catalog) Option {
	return func(o *Options) {
		o.Catalog = c
	}
}

// WithSchema sets an explicit schema. It is required for record.Record
// targets.
func WithSchema(s *schema.Schema) Option {
	return func(o *Options) {
		o.Schema = s
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}
