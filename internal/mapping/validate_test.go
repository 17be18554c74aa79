package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"data-pipeline/internal/schema"
)

func productSchema(t *testing.T) *schema.Schema {
	t.Helper()

	s, err := schema.NewBuilder("product").
		Field("name", schema.TypeString).
		Field("count", schema.TypeInt).
		Field("active", schema.TypeBool).
		Build()
	require.NoError(t, err)

	return s
}

func TestValidate_ValidMapping(t *testing.T) {
	yaml := `
aliases:
  name: Title
mappings:
  - target: product
    121:
      Product Name: name
    fields:
      - target: count
        source: Qty
`

	mf, err := Parse([]byte(yaml))
	require.NoError(t, err)

	res := Validate(mf, productSchema(t))
	assert.True(t, res.IsValid(), "expected valid, got: %v", res.Error())
	assert.Empty(t, res.Warnings)
}

func TestValidate_Errors(t *testing.T) {
	yaml := `
aliases:
  text: prompt
mappings:
  - target: product
    threshold: 1.5
    121:
      A: name
      B: name
      C: price
    fields:
      - target: missing
        source: X
      - target: active
  - target: Product
`

	mf, err := Parse([]byte(yaml))
	require.NoError(t, err)

	res := Validate(mf, productSchema(t))
	require.False(t, res.IsValid())

	assert.True(t, res.HasCode("invalid_threshold"))
	assert.True(t, res.HasCode("duplicate_pin"))
	assert.True(t, res.HasCode("unknown_field"))
	assert.True(t, res.HasCode("duplicate_target"))
	assert.True(t, res.HasCode("empty_aliases"))
	assert.True(t, res.HasCode("alias_unused"))

	var pinErr string
	for _, e := range res.Errors {
		if e.Code == "duplicate_pin" {
			pinErr = e.String()
		}
	}

	assert.Equal(t, `name <- "B": [duplicate_pin] field pinned to both "A" and "B"`, pinErr)
}

func TestValidate_Nil(t *testing.T) {
	assert.True(t, Validate(nil, productSchema(t)).HasCode("mapping_is_nil"))
	assert.True(t, Validate(&MappingFile{}, nil).HasCode("schema_is_nil"))
}

func TestValidate_OtherTargetsIgnored(t *testing.T) {
	mf := &MappingFile{TypeMappings: []TypeMapping{{
		Target:   "order",
		OneToOne: map[string]string{"X": "unknown"},
	}}}

	res := Validate(mf, productSchema(t))
	assert.True(t, res.IsValid())
}
