package infer

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"data-pipeline/internal/coerce"
	"data-pipeline/internal/common"
	"data-pipeline/internal/match"
	"data-pipeline/internal/record"
	"data-pipeline/internal/schema"
)

const (
	// DefaultName names inferred schemas.
	DefaultName = "inferred"
	// DefaultSampleSize is the number of rows classified per column.
	DefaultSampleSize = 100
	// DefaultConfidence is the share of non-blank values a type needs.
	DefaultConfidence = 0.8
)

var (
	// ErrNoColumns is returned when the rows expose no columns.
	ErrNoColumns = errors.New("no columns to infer a schema from")
	// ErrInvalidOptions is returned for out-of-range options.
	ErrInvalidOptions = errors.New("invalid inference options")
)

var (
	nonWord    = regexp.MustCompile(`[^\p{L}\p{Nd}_]+`)
	underscore = regexp.MustCompile(`_+`)
)

// Options configures inference.
type Options struct {
	// Name is the schema name.
	Name string
	// SampleSize caps the rows classified. Zero or less samples every row.
	SampleSize int
	// Confidence is the share of non-blank values a type needs, in [0,1].
	Confidence float64
	// ListDelimiter marks string-encoded lists.
	ListDelimiter string
	// Logger receives low-confidence warnings.
	Logger zerolog.Logger
}

// DefaultOptions returns the default inference options.
func DefaultOptions() Options {
	return Options{
		Name:          DefaultName,
		SampleSize:    DefaultSampleSize,
		Confidence:    DefaultConfidence,
		ListDelimiter: coerce.DefaultListDelimiter,
		Logger:        zerolog.Nop(),
	}
}

// Option customizes Options.
type Option func(*Options)

// WithName sets the schema name.
func WithName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

// WithSampleSize sets the number of rows classified.
func WithSampleSize(n int) Option {
	return func(o *Options) {
		o.SampleSize = n
	}
}

// WithConfidence sets the confidence threshold.
func WithConfidence(c float64) Option {
	return func(o *Options) {
		o.Confidence = c
	}
}

// WithListDelimiter sets the list delimiter. An empty delimiter keeps the
// default.
func WithListDelimiter(d string) Option {
	return func(o *Options) {
		if d != "" {
			o.ListDelimiter = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// Column describes the inference for one source column.
type Column struct {
	Column string
	Field  string
	Type   schema.Type
	// Confidence is the share of non-blank sampled values supporting Type.
	Confidence float64
	Values     int // non-blank sampled values
	Blanks     int
}

// Result is an inferred schema and how each field was derived.
type Result struct {
	Schema  *schema.Schema
	Columns []Column
	Sampled int
}

// Pins returns the field→column pairs of the result.
func (r *Result) Pins() map[string]string {
	pins := make(map[string]string, len(r.Columns))
	for _, c := range r.Columns {
		pins[c.Field] = c.Column
	}

	return pins
}

// String renders the schema one field per line.
func (r *Result) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: %d fields from %d sampled rows\n", r.Schema.Name(), len(r.Columns), r.Sampled)

	for _, c := range r.Columns {
		fmt.Fprintf(&b, "  %s %s <- %q (%.2f)\n", c.Field, c.Type, c.Column, c.Confidence)
	}

	return b.String()
}

// Table infers a schema from a table, using its header as the column order.
func Table(t record.Table, opts ...Option) (*Result, error) {
	return Records(t.ColumnNames(), t.Rows, opts...)
}

// Records infers a schema for columns from rows. Empty columns means the
// union of the sampled record keys.
func Records(columns []string, rows []record.Record, opts ...Option) (*Result, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if !common.IsScore(o.Confidence) {
		return nil, fmt.Errorf("%w: confidence %v not in [0,1]", ErrInvalidOptions, o.Confidence)
	}

	sample := rows
	if o.SampleSize > 0 && len(sample) > o.SampleSize {
		sample = sample[:o.SampleSize]
	}

	if len(columns) == 0 {
		columns = record.Columns(sample)
	}

	if len(columns) == 0 {
		return nil, ErrNoColumns
	}

	res := &Result{Sampled: len(sample)}
	b := schema.NewBuilder(o.Name)
	seen := make(map[string]int, len(columns))
	log := o.Logger.With().Str("component", "infer").Logger()

	for _, column := range columns {
		var tl tally
		for _, rec := range sample {
			tl.observe(rec[column], o.ListDelimiter)
		}

		col := tl.decide(o.Confidence)
		col.Column = column
		col.Field = uniqueName(FieldName(column), seen)

		if col.Type == schema.TypeString && tl.best() > 0 {
			log.Warn().
				Str("column", column).
				Float64("confidence", tl.best()).
				Msg("low confidence type inference, using string")
		}

		if col.Type.IsOptional() {
			b.Field(col.Field, col.Type)
		} else {
			b.Field(col.Field, col.Type, schema.NotRequired())
		}

		res.Columns = append(res.Columns, col)
	}

	s, err := b.Build()
	if err != nil {
		return nil, err
	}

	res.Schema = s

	log.Debug().
		Str("schema", s.Name()).
		Int("fields", s.Len()).
		Int("sampled", res.Sampled).
		Msg("schema inferred")

	return res, nil
}

// FieldName cleans a column name into a field name: lowercase, non-word runs
// become single underscores, edges are trimmed and a leading digit gets a
// field_ prefix.
func FieldName(column string) string {
	clean := nonWord.ReplaceAllString(strings.ToLower(column), "_")
	clean = underscore.ReplaceAllString(clean, "_")
	clean = strings.Trim(clean, "_")

	if clean == "" {
		return "unknown_field"
	}

	if unicode.IsDigit([]rune(clean)[0]) {
		clean = "field_" + clean
	}

	return clean
}

// uniqueName suffixes name with _2, _3, ... when its normalized form was
// already used.
func uniqueName(name string, seen map[string]int) string {
	out := name

	for {
		key := match.NormalizeName(out)

		seen[key]++
		if seen[key] == 1 {
			return out
		}

		out = fmt.Sprintf("%s_%d", name, seen[key])
	}
}

// tally counts the votes of one column's sampled values.
type tally struct {
	values, blanks             int
	bools, ints, floats, lists int
}

var coercer = coerce.New()

func (t *tally) observe(raw any, delimiter string) {
	raw = indirect(raw)

	switch v := raw.(type) {
	case nil:
		t.blanks++

		return
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			t.blanks++

			return
		}

		t.values++
		t.observeString(s, delimiter)

		return
	case bool:
		t.values++
		t.bools++

		return
	case float32, float64:
		t.values++
		t.floats++

		return
	case []byte:
		t.values++

		return
	}

	t.values++

	rv := reflect.ValueOf(raw)

	switch {
	case rv.CanInt(), rv.CanUint():
		t.ints++
		t.floats++
	case rv.Kind() == reflect.Slice, rv.Kind() == reflect.Array:
		t.lists++
	}
}

func (t *tally) observeString(s, delimiter string) {
	if coerce.IsBoolWord(s) {
		t.bools++
	}

	if _, err := coercer.Coerce(s, schema.TypeFloat); err == nil {
		t.floats++

		if !strings.ContainsAny(s, ".eE") {
			t.ints++
		}

		return
	}

	if strings.Contains(s, delimiter) && len(nonEmptyParts(s, delimiter)) > 1 {
		t.lists++
	}
}

func (t *tally) ratio(n int) float64 {
	if t.values == 0 {
		return 0
	}

	return float64(n) / float64(t.values)
}

// best returns the highest share any non-string type reached.
func (t *tally) best() float64 {
	return max(t.ratio(t.bools), t.ratio(t.ints), t.ratio(t.floats), t.ratio(t.lists))
}

func (t *tally) decide(confidence float64) Column {
	col := Column{Values: t.values, Blanks: t.blanks}

	if t.values == 0 {
		col.Type = schema.Optional(schema.TypeString)

		return col
	}

	for _, c := range []struct {
		votes int
		typ   schema.Type
	}{
		{t.bools, schema.TypeBool},
		{t.ints, schema.TypeInt},
		{t.floats, schema.TypeFloat},
		{t.lists, schema.List(schema.TypeString)},
	} {
		if t.ratio(c.votes) < confidence {
			continue
		}

		col.Type = c.typ
		col.Confidence = t.ratio(c.votes)

		if t.blanks > 0 && c.typ.IsScalar() {
			col.Type = schema.Optional(c.typ)
		}

		return col
	}

	col.Type = schema.TypeString
	col.Confidence = 1

	return col
}

func nonEmptyParts(s, delimiter string) []string {
	var parts []string

	for _, p := range strings.Split(s, delimiter) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	return parts
}

func indirect(raw any) any {
	rv := reflect.ValueOf(raw)

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}

		rv = rv.Elem()
	}

	if !rv.IsValid() {
		return nil
	}

	return rv.Interface()
}
