package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"data-pipeline/internal/record"
)

// ColumnInfo is one row of PRAGMA table_info.
type ColumnInfo struct {
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
}

// Info describes a written table.
type Info struct {
	Path    string
	Table   string
	Columns []ColumnInfo
	Rows    int
}

// Info reads the schema and row count of the sink's table.
func (s *Sink) Info(ctx context.Context) (Info, error) {
	table := CleanName(s.tableName())
	info := Info{Path: s.Path, Table: table}

	db, err := s.open(ctx)
	if err != nil {
		return info, err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, "PRAGMA table_info("+quote(table)+")")
	if err != nil {
		return info, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			cid     int
			c       ColumnInfo
			notNull int
			dflt    sql.NullString
			pk      int
		)

		if err := rows.Scan(&cid, &c.Name, &c.Type, &notNull, &dflt, &pk); err != nil {
			return info, err
		}

		c.NotNull, c.PrimaryKey = notNull != 0, pk != 0
		info.Columns = append(info.Columns, c)
	}

	if err := rows.Err(); err != nil {
		return info, err
	}

	if len(info.Columns) == 0 {
		return info, fmt.Errorf("table %s does not exist", table)
	}

	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quote(table)).Scan(&info.Rows)

	return info, err
}

// Query runs a read query and returns each row keyed by column name.
func (s *Sink) Query(ctx context.Context, query string, args ...any) ([]record.Record, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []record.Record

	for rows.Next() {
		values := make([]any, len(names))
		ptrs := make([]any, len(names))

		for i := range values {
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		rec := make(record.Record, len(names))
		for i, n := range names {
			rec[n] = values[i]
		}

		out = append(out, rec)
	}

	return out, rows.Err()
}
