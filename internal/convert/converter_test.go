package convert

import (
	"context"
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"data-pipeline/internal/coerce"
	"data-pipeline/internal/match"
	"data-pipeline/internal/record"
	"data-pipeline/internal/resolve"
	"data-pipeline/internal/schema"
)

type product struct {
	Name   string `etl:"name"`
	Count  int    `etl:"count"`
	Active bool   `etl:"active"`
}

var productAliases = map[string][]string{
	"name":   {"Product Name"},
	"count":  {"Quantity"},
	"active": {"Is Active"},
}

func testLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

func TestConvert_AliasedColumns(t *testing.T) {
	c, err := New[product](WithFieldAliases(productAliases), WithLogger(testLogger()))
	require.NoError(t, err)

	batch, err := c.Convert([]record.Record{
		{"Product Name": "Widget", "Quantity": "5", "Is Active": "yes"},
	})
	require.NoError(t, err)
	require.Empty(t, batch.Failures)

	assert.Equal(t, []product{{Name: "Widget", Count: 5, Active: true}}, batch.Values())
	assert.Equal(t, map[string]string{
		"name":   "Product Name",
		"count":  "Quantity",
		"active": "Is Active",
	}, c.Mapping().AsMap(), spew.Sdump(c.Mapping()))
}

func TestConvert_UnresolvedRequiredField(t *testing.T) {
	for _, strict := range []bool{true, false} {
		c, err := New[product](WithStrictTypes(strict), WithLogger(testLogger()))
		require.NoError(t, err)

		batch, err := c.Convert([]record.Record{{"unrelated_col": "x"}})
		require.Error(t, err)
		assert.Nil(t, batch)
		assert.True(t, errors.Is(err, ErrUnresolvedRequiredField))

		var unresolved *UnresolvedRequiredFieldError
		require.ErrorAs(t, err, &unresolved)
		assert.Contains(t, unresolved.Fields, "name")
		assert.Contains(t, err.Error(), "name (best match \"unrelated_col\"")
		assert.NotNil(t, unresolved.Mapping)

		// A failed mapping is not cached
		assert.Nil(t, c.Mapping())
	}
}

func TestConvert_ListField(t *testing.T) {
	type tagged struct {
		Tags []string `etl:"tags"`
	}

	c, err := New[tagged]()
	require.NoError(t, err)

	batch, err := c.Convert([]record.Record{
		{"tags": "red|blue|green"},
		{"tags": "red| |green"},
	})
	require.NoError(t, err)

	assert.Equal(t, []tagged{
		{Tags: []string{"red", "blue", "green"}},
		{Tags: []string{"red", "green"}},
	}, batch.Values())
}

func TestConvert_StrictAbortsOnRowError(t *testing.T) {
	c, err := New[product](WithStrictTypes(true))
	require.NoError(t, err)

	_, err = c.Convert([]record.Record{
		{"name": "a", "count": "1", "active": "no"},
		{"name": "b", "count": "many", "active": "no"},
		{"name": "c", "count": "3", "active": "no"},
	})
	require.Error(t, err)

	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 1, rowErr.Row)
	assert.Equal(t, "count", rowErr.Field)
	assert.Equal(t, "count", rowErr.Column)
	assert.Equal(t, "many", rowErr.Raw)
	assert.True(t, errors.Is(err, coerce.ErrCoercion))
	assert.Equal(t, `row 1: field count (column "count"): cannot coerce "many" to int: not a number`, err.Error())
}

func TestConvert_LenientKeepsFailures(t *testing.T) {
	rows := []record.Record{
		{"name": "a", "count": "1", "active": "no"},
		{"name": "b", "count": "many", "active": "no"},
		{"name": "c", "count": "3", "active": "maybe"},
		{"name": "d", "count": "4", "active": "y"},
	}

	c, err := New[product]()
	require.NoError(t, err)

	batch, err := c.Convert(rows)
	require.NoError(t, err)

	require.Len(t, batch.Results, 4)
	assert.True(t, batch.Results[0].OK())
	assert.False(t, batch.Results[1].OK())
	assert.Equal(t, "count", batch.Results[1].Err.Field)
	assert.False(t, batch.Results[2].OK())
	assert.Equal(t, "active", batch.Results[2].Err.Field)
	assert.Equal(t, 3, batch.Results[3].Row)

	assert.Len(t, batch.Failures, 2)
	assert.Len(t, batch.Diagnostics.Errors, 2)
	assert.Equal(t, []product{{"a", 1, false}, {"d", 4, true}}, batch.Values())

	skipping, err := New[product](WithSkipInvalid(true))
	require.NoError(t, err)

	batch, err = skipping.Convert(rows)
	require.NoError(t, err)

	require.Len(t, batch.Results, 2)
	assert.Equal(t, 0, batch.Results[0].Row)
	assert.Equal(t, 3, batch.Results[1].Row)
	assert.Len(t, batch.Failures, 2)
}

type listing struct {
	Title    string   `etl:"title"`
	Price    float32  `etl:"price,default=9.99"`
	Stock    uint8    `etl:"stock,optional"`
	Discount *float64 `etl:"discount"`
	Tags     []string `etl:"tags,default=new|sale"`
	Ratings  []int16  `etl:"ratings,optional"`
}

func TestConvert_DefaultsOptionalsAndWidths(t *testing.T) {
	c, err := New[listing](WithCatalog(nil))
	require.NoError(t, err)

	batch, err := c.Convert([]record.Record{
		{"title": "Lamp", "price": "12.5", "stock": "7", "discount": "0.1", "tags": "home", "ratings": "5|4"},
		{"title": "Desk", "price": nil, "discount": ""},
		{"title": "Chair", "stock": "300"},
	})
	require.NoError(t, err)

	require.Len(t, batch.Results, 3)

	lamp := batch.Results[0].Value
	assert.Equal(t, "Lamp", lamp.Title)
	assert.InDelta(t, 12.5, lamp.Price, 1e-6)
	assert.Equal(t, uint8(7), lamp.Stock)
	require.NotNil(t, lamp.Discount)
	assert.InDelta(t, 0.1, *lamp.Discount, 1e-9)
	assert.Equal(t, []string{"home"}, lamp.Tags)
	assert.Equal(t, []int16{5, 4}, lamp.Ratings)

	desk := batch.Results[1].Value
	assert.InDelta(t, 9.99, desk.Price, 1e-6)
	assert.Nil(t, desk.Discount)
	assert.Zero(t, desk.Stock)
	assert.Equal(t, []string{"new", "sale"}, desk.Tags)
	assert.Nil(t, desk.Ratings)

	// 300 does not fit in uint8
	require.False(t, batch.Results[2].OK())
	assert.Equal(t, "stock", batch.Results[2].Err.Field)
	assert.ErrorIs(t, batch.Results[2].Err, coerce.ErrCoercion)

	// Defaults are not shared between rows
	batch.Results[1].Value.Tags[0] = "mutated"

	again, err := c.Convert([]record.Record{{"title": "Shelf"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "sale"}, again.Results[0].Value.Tags)
}

func TestNew_InvalidDefault(t *testing.T) {
	type bad struct {
		Count int `etl:"count,default=lots"`
	}

	_, err := New[bad]()
	require.ErrorIs(t, err, ErrInvalidOptions)
	assert.ErrorIs(t, err, coerce.ErrCoercion)
}

func TestNew_InvalidThreshold(t *testing.T) {
	_, err := New[product](WithConfidenceThreshold(2))
	require.ErrorIs(t, err, ErrInvalidOptions)
	assert.ErrorIs(t, err, resolve.ErrInvalidConfig)
}

func TestConvert_RecordTarget(t *testing.T) {
	s, err := schema.NewBuilder("quiz").
		Field("text", schema.TypeString).
		Field("difficulty", schema.TypeInt, schema.WithDefault("2")).
		Field("answers", schema.List(schema.TypeString), schema.NotRequired()).
		Build()
	require.NoError(t, err)

	c, err := New[record.Record](WithSchema(s), WithListDelimiter(";"))
	require.NoError(t, err)

	batch, err := c.ConvertTable(record.Table{
		Columns: []string{"Prompt", "Level", "Choices"},
		Rows: []record.Record{
			{"Prompt": "2+2?", "Level": "1", "Choices": "3;4;5"},
			{"Prompt": "Capital of France?"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []record.Record{
		{"text": "2+2?", "difficulty": int64(1), "answers": []string{"3", "4", "5"}},
		{"text": "Capital of France?", "difficulty": int64(2)},
	}, batch.Values(), spew.Sdump(batch.Mapping))

	_, err = New[record.Record]()
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestNew_ExplicitSchemaMustDescribeTarget(t *testing.T) {
	other, err := schema.NewBuilder("other").Field("x", schema.TypeString).Build()
	require.NoError(t, err)

	_, err = New[product](WithSchema(other))
	require.ErrorIs(t, err, ErrInvalidOptions)

	derived, err := schema.For[product]()
	require.NoError(t, err)

	_, err = New[product](WithSchema(derived))
	assert.NoError(t, err)
}

func TestConvert_PointerTarget(t *testing.T) {
	c, err := New[*product]()
	require.NoError(t, err)

	batch, err := c.Convert([]record.Record{{"name": "a", "count": 1, "active": true}})
	require.NoError(t, err)

	values := batch.Values()
	require.Len(t, values, 1)
	assert.Equal(t, &product{Name: "a", Count: 1, Active: true}, values[0])
}

func TestConvert_ColumnUniverse(t *testing.T) {
	c, err := New[product](WithColumns("name", "count", "active", "extra"))
	require.NoError(t, err)

	// Rows missing a mapped column fail only that row
	batch, err := c.Convert([]record.Record{
		{"name": "a", "count": "1", "active": "1"},
		{"name": "b", "count": "2"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "count", "active", "extra"}, c.Mapping().Columns)
	require.Len(t, batch.Failures, 1)
	assert.Equal(t, "active", batch.Failures[0].Field)
	assert.Contains(t, batch.Failures[0].Error(), "missing value")
}

func TestConvert_MappingCachedPerColumnSet(t *testing.T) {
	c, err := New[product]()
	require.NoError(t, err)

	rows := []record.Record{{"name": "a", "count": "1", "active": "1"}}

	_, err = c.Convert(rows)
	require.NoError(t, err)

	first := c.Mapping()

	_, err = c.Convert(rows)
	require.NoError(t, err)
	assert.Same(t, first, c.Mapping())

	_, err = c.Convert([]record.Record{{"Name": "a", "Count": "1", "Active": "1"}})
	require.NoError(t, err)
	assert.NotSame(t, first, c.Mapping())
}

func TestSuggestFieldMapping(t *testing.T) {
	c, err := New[product](WithFieldAliases(productAliases))
	require.NoError(t, err)

	m, err := c.SuggestFieldMapping([]string{"Product Name", "Qty", "Is Active"})
	require.NoError(t, err)

	e, ok := m.Entry("name")
	require.True(t, ok)
	assert.Equal(t, match.QualityAlias, e.Quality)
	assert.Nil(t, c.Mapping())
}

func TestConvert_Pins(t *testing.T) {
	c, err := New[product](WithPins(map[string]string{"name": "Label"}), WithCatalog(nil))
	require.NoError(t, err)

	batch, err := c.Convert([]record.Record{{"Label": "x", "count": "1", "active": "no", "name": "ignored"}})
	require.NoError(t, err)

	assert.Equal(t, "x", batch.Values()[0].Name)
}

func TestMap(t *testing.T) {
	c, err := New[product]()
	require.NoError(t, err)

	table := record.Table{
		Columns: []string{"name", "count", "active"},
		Rows: []record.Record{
			{"name": "a", "count": "1", "active": "yes"},
			{"name": "b", "count": "x", "active": "yes"},
		},
	}

	assert.Nil(t, c.LastBatch())

	values, err := c.Map(context.Background(), table)
	require.NoError(t, err)
	assert.Equal(t, []product{{"a", 1, true}}, values)

	last := c.LastBatch()
	require.NotNil(t, last)
	require.Len(t, last.Failures, 1)
	assert.Equal(t, 1, last.Failures[0].Row)
	assert.Equal(t, "count", last.Failures[0].Field)
	assert.Equal(t, "count", last.Failures[0].Column)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Map(ctx, table)
	assert.ErrorIs(t, err, context.Canceled)
}
