package convert

import (
	"context"
	"fmt"
	"reflect"
	"slices"

	"github.com/rs/zerolog"

	"data-pipeline/internal/coerce"
	"data-pipeline/internal/diagnostic"
	"data-pipeline/internal/record"
	"data-pipeline/internal/resolve"
	"data-pipeline/internal/schema"
)

var recordType = reflect.TypeFor[record.Record]()

// Result is the outcome of converting one record.
type Result[T any] struct {
	Row   int
	Value T
	Err   *RowError
}

// OK returns true if the record converted successfully.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Batch is the outcome of converting a list of records.
type Batch[T any] struct {
	// Results holds one entry per record in input order. Failed rows are
	// included unless SkipInvalid is set.
	Results []Result[T]
	// Failures holds every row error.
	Failures []*RowError
	// Mapping is the field→column mapping used for the batch.
	Mapping *resolve.Mapping
	// Diagnostics collects resolution findings and row failures.
	Diagnostics diagnostic.Diagnostics
}

// Values returns the successfully converted values in input order.
func (b *Batch[T]) Values() []T {
	values := make([]T, 0, len(b.Results))

	for _, r := range b.Results {
		if r.OK() {
			values = append(values, r.Value)
		}
	}

	return values
}

// Converter converts records into values of T.
type Converter[T any] struct {
	schema   *schema.Schema
	opts     Options
	resolver *resolve.Resolver
	coercer  *coerce.Coercer
	defaults []any
	isRecord bool
	log      zerolog.Logger

	mapping        *resolve.Mapping
	mappingColumns []string
	last           *Batch[T]
}

// New creates a Converter. T must be a struct type (or pointer to one) or
// record.Record, which requires WithSchema.
func New[T any](opts ...Option) (*Converter[T], error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	target := reflect.TypeFor[T]()
	c := &Converter[T]{
		opts:     o,
		isRecord: target == recordType,
		log:      o.Logger.With().Str("component", "converter").Logger(),
	}

	s, err := schemaFor(target, o.Schema)
	if err != nil {
		return nil, err
	}

	c.schema = s

	catalog := o.Catalog
	if len(o.FieldAliases) > 0 {
		catalog = catalog.Merge(o.FieldAliases)
	}

	rc := resolve.DefaultConfig()
	rc.ConfidenceThreshold = o.ConfidenceThreshold
	rc.Similarity = o.Similarity
	rc.Catalog = catalog
	rc.Pins = o.Pins
	rc.FailOnAmbiguity = o.FailOnAmbiguity
	rc.Logger = o.Logger

	c.resolver, err = resolve.NewResolver(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	c.coercer = coerce.New(coerce.WithListDelimiter(o.ListDelimiter))

	if err := c.prepareDefaults(); err != nil {
		return nil, err
	}

	return c, nil
}

func schemaFor(target reflect.Type, explicit *schema.Schema) (*schema.Schema, error) {
	if target == recordType {
		if explicit == nil {
			return nil, fmt.Errorf("%w: record.Record targets need an explicit schema", ErrInvalidOptions)
		}

		return explicit, nil
	}

	derived, err := schema.FromType(target)
	if err != nil {
		return nil, err
	}

	if explicit != nil && explicit != derived {
		return nil, fmt.Errorf("%w: explicit schema %q does not describe %s",
			ErrInvalidOptions, explicit.Name(), target)
	}

	return derived, nil
}

// prepareDefaults coerces field defaults once so every row reuses them.
func (c *Converter[T]) prepareDefaults() error {
	fields := c.schema.Fields()
	c.defaults = make([]any, len(fields))

	for i, f := range fields {
		if !f.HasDefault || f.Default == nil {
			continue
		}

		v, err := c.coercer.Coerce(f.Default, f.Type)
		if err != nil {
			return fmt.Errorf("%w: default for field %s: %w", ErrInvalidOptions, f.Name, err)
		}

		c.defaults[i] = v
	}

	return nil
}

// Schema returns the target schema.
func (c *Converter[T]) Schema() *schema.Schema {
	return c.schema
}

// LastBatch returns the most recent successful batch, or nil. After Map it
// holds the row failures that Map leaves out of its values.
func (c *Converter[T]) LastBatch() *Batch[T] {
	return c.last
}

// Mapping returns the mapping of the most recent batch, or nil.
func (c *Converter[T]) Mapping() *resolve.Mapping {
	return c.mapping
}

// SuggestFieldMapping resolves the schema against columns without
// converting anything or touching the cached mapping.
func (c *Converter[T]) SuggestFieldMapping(columns []string) (*resolve.Mapping, error) {
	return c.resolver.Resolve(c.schema, columns)
}

// Convert converts records. The column universe is the configured columns,
// or else the union of record keys.
func (c *Converter[T]) Convert(records []record.Record) (*Batch[T], error) {
	columns := c.opts.Columns
	if len(columns) == 0 {
		columns = record.Columns(records)
	}

	return c.convert(columns, records)
}

// ConvertTable converts a table, preferring its header as the column
// universe.
func (c *Converter[T]) ConvertTable(t record.Table) (*Batch[T], error) {
	columns := c.opts.Columns
	if len(columns) == 0 {
		columns = t.ColumnNames()
	}

	return c.convert(columns, t.Rows)
}

// Map converts a table and returns the successful values. It lets a
// Converter serve as the final stage of a pipeline. In lenient mode failed
// rows are dropped from the values; LastBatch reports them.
func (c *Converter[T]) Map(ctx context.Context, t record.Table) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	batch, err := c.ConvertTable(t)
	if err != nil {
		return nil, err
	}

	return batch.Values(), nil
}

func (c *Converter[T]) convert(columns []string, records []record.Record) (*Batch[T], error) {
	m, err := c.resolve(columns)
	if err != nil {
		return nil, err
	}

	batch := &Batch[T]{
		Results: make([]Result[T], 0, len(records)),
		Mapping: m,
	}
	batch.Diagnostics.Merge(m.Diagnostics)

	plan := c.plan(m)

	for i, rec := range records {
		value, rowErr := c.convertRow(i, rec, plan)
		if rowErr == nil {
			batch.Results = append(batch.Results, Result[T]{Row: i, Value: value})

			continue
		}

		if c.opts.StrictTypes {
			return nil, rowErr
		}

		batch.Failures = append(batch.Failures, rowErr)
		batch.Diagnostics.AddError("row_failed",
			fmt.Sprintf("row %d: %v", rowErr.Row, rowErr.Err), rowErr.Field, rowErr.Column)

		c.log.Warn().
			Int("row", rowErr.Row).
			Str("field", rowErr.Field).
			Str("column", rowErr.Column).
			Err(rowErr.Err).
			Msg("row failed to convert")

		if !c.opts.SkipInvalid {
			batch.Results = append(batch.Results, Result[T]{Row: i, Err: rowErr})
		}
	}

	c.log.Debug().
		Int("rows", len(records)).
		Int("failed", len(batch.Failures)).
		Msg("batch converted")

	c.last = batch

	return batch, nil
}

// resolve returns the mapping for columns, reusing the cached one when the
// column universe has not changed.
func (c *Converter[T]) resolve(columns []string) (*resolve.Mapping, error) {
	if c.mapping != nil && slices.Equal(c.mappingColumns, columns) {
		return c.mapping, nil
	}

	m, err := c.resolver.Resolve(c.schema, columns)
	if err != nil {
		return nil, err
	}

	var missing UnresolvedRequiredFieldError

	for _, u := range m.Unmapped {
		f, ok := c.schema.Field(u.Field)
		if ok && f.Required {
			missing.Fields = append(missing.Fields, u.Field)
			missing.Reasons = append(missing.Reasons, u.Reason)
		}
	}

	if len(missing.Fields) > 0 {
		missing.Mapping = m

		return nil, &missing
	}

	c.mapping = m
	c.mappingColumns = slices.Clone(columns)

	c.log.Info().
		Str("schema", c.schema.Name()).
		Int("mapped", len(m.Entries)).
		Int("unmapped", len(m.Unmapped)).
		Msg("field mapping resolved")

	return m, nil
}

// fieldPlan pairs a schema field with its column and prepared default.
type fieldPlan struct {
	field   schema.Field
	column  string
	mapped  bool
	def     any
	hasDflt bool
}

func (c *Converter[T]) plan(m *resolve.Mapping) []fieldPlan {
	fields := c.schema.Fields()
	plans := make([]fieldPlan, len(fields))

	for i, f := range fields {
		column, ok := m.Column(f.Name)
		plans[i] = fieldPlan{
			field:   f,
			column:  column,
			mapped:  ok,
			def:     c.defaults[i],
			hasDflt: f.HasDefault,
		}
	}

	return plans
}

func (c *Converter[T]) convertRow(row int, rec record.Record, plans []fieldPlan) (T, *RowError) {
	var zero T

	values := make([]any, len(plans))
	set := make([]bool, len(plans))

	for i, p := range plans {
		var (
			raw     any
			present bool
		)

		if p.mapped {
			raw, present = rec[p.column]
		}

		if !present || raw == nil {
			switch {
			case p.hasDflt:
				values[i], set[i] = p.def, true

				continue
			case p.field.Type.IsOptional(), !p.field.Required:
				continue
			}
		}

		v, err := c.coercer.Coerce(raw, p.field.Type)
		if err != nil {
			return zero, &RowError{Row: row, Field: p.field.Name, Column: p.column, Raw: raw, Err: err}
		}

		values[i], set[i] = v, true
	}

	if c.isRecord {
		out := make(record.Record, len(plans))

		for i, p := range plans {
			if set[i] {
				out[p.field.Name] = cloneValue(values[i])
			}
		}

		return any(out).(T), nil
	}

	return c.build(row, plans, values, set)
}

// build constructs T through reflection.
func (c *Converter[T]) build(row int, plans []fieldPlan, values []any, set []bool) (T, *RowError) {
	var out T

	target := reflect.ValueOf(&out).Elem()

	// Pointer-to-struct targets get a freshly allocated struct
	if target.Kind() == reflect.Pointer {
		target.Set(reflect.New(target.Type().Elem()))
		target = target.Elem()
	}

	for i, p := range plans {
		if !set[i] {
			continue
		}

		if err := assign(target.FieldByIndex(p.field.Index), values[i], p.field.Type); err != nil {
			var zero T

			return zero, &RowError{Row: row, Field: p.field.Name, Column: p.column, Raw: values[i], Err: err}
		}
	}

	return out, nil
}
