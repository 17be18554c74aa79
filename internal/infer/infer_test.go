package infer

import (
	"bytes"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"data-pipeline/internal/record"
	"data-pipeline/internal/schema"
)

func column(t *testing.T, res *Result, name string) Column {
	t.Helper()

	for _, c := range res.Columns {
		if c.Column == name {
			return c
		}
	}

	t.Fatalf("column %q not inferred: %s", name, spew.Sdump(res.Columns))

	return Column{}
}

func TestRecords_ColumnTypes(t *testing.T) {
	rows := []record.Record{
		{"Active": "yes", "Count": "1", "Price": "1.5", "Tags": "a|b", "Name": "x", "Native": 3, "Flag": true},
		{"Active": "no", "Count": "2", "Price": "2", "Tags": "c|d", "Name": "y", "Native": 4, "Flag": false},
		{"Active": "Y", "Count": "1,000", "Price": "3e2", "Tags": "e|f|g", "Name": "z", "Native": 5, "Flag": true},
		{"Active": "0", "Count": "-4", "Price": "-0.25", "Tags": []string{"h"}, "Name": "w", "Native": 6, "Flag": false},
	}

	columns := []string{"Active", "Count", "Price", "Tags", "Name", "Native", "Flag"}

	res, err := Records(columns, rows)
	require.NoError(t, err)

	tests := []struct {
		column string
		want   schema.Type
	}{
		{"Active", schema.TypeBool},
		{"Count", schema.TypeInt},
		{"Price", schema.TypeFloat},
		{"Tags", schema.List(schema.TypeString)},
		{"Name", schema.TypeString},
		{"Native", schema.TypeInt},
		{"Flag", schema.TypeBool},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			c := column(t, res, tt.column)
			assert.Equal(t, tt.want, c.Type)
			assert.Equal(t, 4, c.Values)
			assert.Zero(t, c.Blanks)
		})
	}

	assert.Equal(t, 4, res.Sampled)
	assert.Equal(t, []string{"active", "count", "price", "tags", "name", "native", "flag"}, res.Schema.Names())
}

func TestRecords_ConfidenceThreshold(t *testing.T) {
	// 3 of 4 values are integers
	rows := []record.Record{{"n": "1"}, {"n": "2"}, {"n": "3"}, {"n": "many"}}

	var buf bytes.Buffer

	res, err := Records(nil, rows, WithLogger(zerolog.New(&buf)))
	require.NoError(t, err)

	c := column(t, res, "n")
	assert.Equal(t, schema.TypeString, c.Type)
	assert.Equal(t, 1.0, c.Confidence)
	assert.Contains(t, buf.String(), "low confidence")

	res, err = Records(nil, rows, WithConfidence(0.75))
	require.NoError(t, err)

	c = column(t, res, "n")
	assert.Equal(t, schema.TypeInt, c.Type)
	assert.Equal(t, 0.75, c.Confidence)
}

func TestRecords_Blanks(t *testing.T) {
	rows := []record.Record{
		{"score": "10", "note": "ok", "tags": "a|b", "empty": ""},
		{"score": "", "note": "", "tags": "", "empty": nil},
		{"score": "12", "note": "fine", "tags": "c|d"},
	}

	res, err := Records([]string{"score", "note", "tags", "empty"}, rows)
	require.NoError(t, err)

	score := column(t, res, "score")
	assert.Equal(t, schema.Optional(schema.TypeInt), score.Type)
	assert.Equal(t, 2, score.Values)
	assert.Equal(t, 1, score.Blanks)

	assert.Equal(t, schema.TypeString, column(t, res, "note").Type)
	assert.Equal(t, schema.List(schema.TypeString), column(t, res, "tags").Type)

	empty := column(t, res, "empty")
	assert.Equal(t, schema.Optional(schema.TypeString), empty.Type)
	assert.Equal(t, 3, empty.Blanks)

	// Nothing inferred is required
	for _, f := range res.Schema.Fields() {
		assert.False(t, f.Required, f.Name)
	}
}

func TestRecords_BinaryDigits(t *testing.T) {
	res, err := Records(nil, []record.Record{{"b": "1"}, {"b": "0"}, {"b": "1"}})
	require.NoError(t, err)
	assert.Equal(t, schema.TypeBool, column(t, res, "b").Type)

	res, err = Records(nil, []record.Record{{"b": "1"}, {"b": "0"}, {"b": "7"}})
	require.NoError(t, err)
	assert.Equal(t, schema.TypeInt, column(t, res, "b").Type)
}

func TestRecords_SampleSize(t *testing.T) {
	rows := []record.Record{{"v": "1"}, {"v": "2"}, {"v": "x"}, {"v": "y"}, {"v": "z"}}

	res, err := Records(nil, rows, WithSampleSize(2))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Sampled)
	assert.Equal(t, schema.TypeInt, column(t, res, "v").Type)

	res, err = Records(nil, rows, WithSampleSize(0))
	require.NoError(t, err)
	assert.Equal(t, 5, res.Sampled)
	assert.Equal(t, schema.TypeString, column(t, res, "v").Type)
}

func TestRecords_Errors(t *testing.T) {
	_, err := Records(nil, nil)
	require.ErrorIs(t, err, ErrNoColumns)

	_, err = Records([]string{"a"}, nil, WithConfidence(1.5))
	require.ErrorIs(t, err, ErrInvalidOptions)
}

func TestTable_FieldNamesAndPins(t *testing.T) {
	tbl := record.Table{
		Columns: []string{"Product Name", "product-name", "2nd Price", "!!!"},
		Rows: []record.Record{
			{"Product Name": "a", "product-name": "b", "2nd Price": "1.5", "!!!": "x"},
		},
	}

	res, err := Table(tbl, WithName("product"))
	require.NoError(t, err)

	assert.Equal(t, "product", res.Schema.Name())
	assert.Equal(t, map[string]string{
		"product_name":    "Product Name",
		"product_name_2":  "product-name",
		"field_2nd_price": "2nd Price",
		"unknown_field":   "!!!",
	}, res.Pins())

	out := res.String()
	assert.Contains(t, out, "product: 4 fields from 1 sampled rows")
	assert.Contains(t, out, `field_2nd_price float <- "2nd Price" (1.00)`)
}

func TestFieldName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Product Name", "product_name"},
		{"  Is Active? ", "is_active"},
		{"price ($)", "price"},
		{"3d_model", "field_3d_model"},
		{"名前", "名前"},
		{"", "unknown_field"},
		{"--", "unknown_field"},
	}

	for _, tt := range tests {
		if got := FieldName(tt.in); got != tt.want {
			t.Errorf("FieldName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
