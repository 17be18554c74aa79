package pipeline

import (
	"context"
	"slices"
	"strings"

	"data-pipeline/internal/alias"
	"data-pipeline/internal/coerce"
	"data-pipeline/internal/record"
	"data-pipeline/internal/resolve"
	"data-pipeline/internal/schema"
)

// Category is a label and the keywords that select it.
type Category struct {
	Name     string
	Keywords []string
}

// DefaultCategories are checked in order; the first keyword hit wins.
func DefaultCategories() []Category {
	return []Category{
		{Name: "science", Keywords: []string{"physics", "chemistry", "biology", "math"}},
		{Name: "history", Keywords: []string{"war", "ancient", "civilization"}},
	}
}

// AutoCategorizer fills an empty category column from keywords found in a
// text column. TextColumn and CategoryColumn are field names: when the table
// has a header they are resolved against it the way the converter resolves
// schema fields, so a "Question" header serves as the text column.
type AutoCategorizer struct {
	Categories     []Category
	TextColumn     string
	CategoryColumn string
	// Fallback is used when no keyword matches.
	Fallback string
	// Catalog supplies aliases for header resolution. Nil uses alias.Default().
	Catalog *alias.Catalog
}

// NewAutoCategorizer returns a categorizer with the default categories
// reading "text" and writing "category".
func NewAutoCategorizer() *AutoCategorizer {
	return &AutoCategorizer{
		Categories:     DefaultCategories(),
		TextColumn:     "text",
		CategoryColumn: "category",
		Fallback:       "general",
	}
}

// Description implements Transformer.
func (a *AutoCategorizer) Description() string {
	return "auto-categorizes rows by keywords in " + a.TextColumn
}

// Transform implements Transformer. Rows that already carry a category are
// left alone. The input table is not modified.
func (a *AutoCategorizer) Transform(ctx context.Context, t record.Table) (record.Table, error) {
	if err := ctx.Err(); err != nil {
		return record.Table{}, err
	}

	out := t.Clone()
	textColumn, categoryColumn := a.columns(out.Columns)

	if len(out.Columns) > 0 && !slices.Contains(out.Columns, categoryColumn) {
		out.Columns = append(out.Columns, categoryColumn)
	}

	for _, rec := range out.Rows {
		if current, _ := coerce.Stringify(rec[categoryColumn]); strings.TrimSpace(current) != "" {
			continue
		}

		text, _ := coerce.Stringify(rec[textColumn])
		rec[categoryColumn] = a.categorize(strings.ToLower(text))
	}

	return out, nil
}

// columns resolves the text and category fields against the header. A field
// without a matching column keeps its literal name.
func (a *AutoCategorizer) columns(header []string) (text, category string) {
	text, category = a.TextColumn, a.CategoryColumn
	if len(header) == 0 {
		return text, category
	}

	s, err := schema.NewBuilder("categorizer").
		Field(a.TextColumn, schema.TypeString, schema.NotRequired()).
		Field(a.CategoryColumn, schema.TypeString, schema.NotRequired()).
		Build()
	if err != nil {
		return text, category
	}

	cfg := resolve.DefaultConfig()
	if a.Catalog != nil {
		cfg.Catalog = a.Catalog
	}

	r, err := resolve.NewResolver(cfg)
	if err != nil {
		return text, category
	}

	m, err := r.Resolve(s, header)
	if err != nil {
		return text, category
	}

	if column, ok := m.Column(a.TextColumn); ok {
		text = column
	}

	if column, ok := m.Column(a.CategoryColumn); ok {
		category = column
	}

	return text, category
}

func (a *AutoCategorizer) categorize(text string) string {
	for _, c := range a.Categories {
		for _, kw := range c.Keywords {
			if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
				return c.Name
			}
		}
	}

	return a.Fallback
}
