package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"data-pipeline/internal/record"
)

func TestAutoCategorizer_Transform(t *testing.T) {
	in := record.Table{
		Columns: []string{"text"},
		Rows: []record.Record{
			{"text": "Basic PHYSICS question"},
			{"text": "The ancient world"},
			{"text": "Anything else"},
			{"text": "Math again", "category": "custom"},
			{"text": "Math with blank", "category": "  "},
			{},
		},
	}

	a := NewAutoCategorizer()

	out, err := a.Transform(context.Background(), in)
	require.NoError(t, err)

	got := make([]any, 0, out.Len())
	for _, r := range out.Rows {
		got = append(got, r["category"])
	}

	assert.Equal(t, []any{"science", "history", "general", "custom", "science", "general"}, got)
	assert.Equal(t, []string{"text", "category"}, out.Columns)

	// The input is untouched
	_, ok := in.Rows[0]["category"]
	assert.False(t, ok)
	assert.Equal(t, []string{"text"}, in.Columns)
}

func TestAutoCategorizer_CustomCategories(t *testing.T) {
	a := &AutoCategorizer{
		Categories:     []Category{{Name: "sport", Keywords: []string{"Ball"}}},
		TextColumn:     "title",
		CategoryColumn: "kind",
		Fallback:       "misc",
	}

	out, err := a.Transform(context.Background(), record.Table{Rows: []record.Record{
		{"title": "football"},
		{"title": 42},
	}})
	require.NoError(t, err)

	assert.Equal(t, "sport", out.Rows[0]["kind"])
	assert.Equal(t, "misc", out.Rows[1]["kind"])
	assert.Empty(t, out.Columns)
	assert.Contains(t, a.Description(), "title")
}

func TestAutoCategorizer_ResolvesHeader(t *testing.T) {
	tests := []struct {
		name        string
		in          record.Table
		wantColumns []string
		wantColumn  string
		want        []any
	}{
		{
			name: "alias text column, category appended",
			in: record.Table{
				Columns: []string{"Question", "Level"},
				Rows: []record.Record{
					{"Question": "Which physics law?", "Level": "hard"},
					{"Question": "When did the war end?", "Level": ""},
				},
			},
			wantColumns: []string{"Question", "Level", "category"},
			wantColumn:  "category",
			want:        []any{"science", "history"},
		},
		{
			name: "alias category column is filled in place",
			in: record.Table{
				Columns: []string{"Prompt", "Topic"},
				Rows: []record.Record{
					{"Prompt": "Ancient Rome", "Topic": ""},
					{"Prompt": "Ancient Rome", "Topic": "sport"},
				},
			},
			wantColumns: []string{"Prompt", "Topic"},
			wantColumn:  "Topic",
			want:        []any{"history", "sport"},
		},
		{
			name: "no matching text column",
			in: record.Table{
				Columns: []string{"zzz"},
				Rows:    []record.Record{{"zzz": "physics"}},
			},
			wantColumns: []string{"zzz", "category"},
			wantColumn:  "category",
			want:        []any{"general"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewAutoCategorizer().Transform(context.Background(), tt.in)
			require.NoError(t, err)

			got := make([]any, 0, out.Len())
			for _, r := range out.Rows {
				got = append(got, r[tt.wantColumn])
			}

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantColumns, out.Columns)
		})
	}
}
