package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"data-pipeline/internal/coerce"
	"data-pipeline/internal/record"
	"data-pipeline/internal/schema"
)

// DriverName is the database/sql driver used by the sink.
const DriverName = "sqlite"

// Default settings.
const (
	DefaultTable     = "data"
	DefaultBatchSize = 1000
)

// Column describes one created table column.
type Column struct {
	Name       string // cleaned identifier
	Source     string // original column name
	Affinity   Affinity
	PrimaryKey bool
}

// Summary reports what Write stored.
type Summary struct {
	Path    string
	Table   string
	Rows    int
	Columns []Column
}

// Sink writes tables into one SQLite table.
type Sink struct {
	Path      string
	Table     string
	BatchSize int
	// Overwrite drops an existing table before creating it.
	Overwrite bool
	// PrimaryKey names the key column, by source or cleaned name. When empty
	// the first id-like column is used, if any.
	PrimaryKey string
	Logger     zerolog.Logger
}

// New returns a sink writing to the default table of the database at path.
func New(path string) *Sink {
	return &Sink{
		Path:      path,
		Table:     DefaultTable,
		BatchSize: DefaultBatchSize,
		Logger:    zerolog.Nop(),
	}
}

// Map implements the pipeline mapper contract.
func (s *Sink) Map(ctx context.Context, t record.Table) ([]Summary, error) {
	sum, err := s.Write(ctx, t)
	if err != nil {
		return nil, err
	}

	return []Summary{sum}, nil
}

// Write creates the table if needed and inserts every row of t.
func (s *Sink) Write(ctx context.Context, t record.Table) (Summary, error) {
	log := s.Logger.With().Str("component", "sqlite_sink").Str("path", s.Path).Logger()
	table := CleanName(s.tableName())

	sum := Summary{Path: s.Path, Table: table}

	if t.Len() == 0 {
		log.Warn().Msg("no rows to write")

		return sum, nil
	}

	sum.Columns = s.columns(t)

	db, err := s.open(ctx)
	if err != nil {
		return sum, err
	}
	defer func() { _ = db.Close() }()

	if err := s.createTable(ctx, db, table, sum.Columns); err != nil {
		return sum, err
	}

	rows, err := s.insert(ctx, log, db, table, sum.Columns, t.Rows)
	sum.Rows = rows

	if err != nil {
		return sum, err
	}

	log.Info().Str("table", table).Int("rows", rows).Int("columns", len(sum.Columns)).Msg("table written")

	return sum, nil
}

func (s *Sink) tableName() string {
	if strings.TrimSpace(s.Table) == "" {
		return DefaultTable
	}

	return s.Table
}

// columns infers affinities from the first SampleSize rows and resolves
// clean, unique names and the primary key.
func (s *Sink) columns(t record.Table) []Column {
	sources := t.ColumnNames()
	sample := t.Rows[:min(SampleSize, t.Len())]

	cols := make([]Column, len(sources))
	used := make(map[string]int, len(sources))

	for i, src := range sources {
		values := make([]any, 0, len(sample))
		for _, r := range sample {
			values = append(values, r[src])
		}

		name := CleanName(src)

		key := strings.ToLower(name)
		if n := used[key]; n > 0 {
			name = fmt.Sprintf("%s_%d", name, n+1)
		}

		used[key]++

		cols[i] = Column{Name: name, Source: src, Affinity: InferAffinity(values)}
	}

	if pk := s.primaryKey(cols); pk >= 0 {
		cols[pk].PrimaryKey = true
	}

	return cols
}

func (s *Sink) primaryKey(cols []Column) int {
	if s.PrimaryKey != "" {
		want := CleanName(s.PrimaryKey)

		for i, c := range cols {
			if c.Source == s.PrimaryKey || strings.EqualFold(c.Name, want) {
				return i
			}
		}

		return -1
	}

	for i, c := range cols {
		if isIDColumn(c.Source) {
			return i
		}
	}

	return -1
}

func (s *Sink) open(ctx context.Context) (*sql.DB, error) {
	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open(DriverName, s.Path)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}

	_, _ = db.ExecContext(ctx, "PRAGMA foreign_keys=ON;")
	_, _ = db.ExecContext(ctx, "PRAGMA busy_timeout=5000;")

	return db, nil
}

func (s *Sink) createTable(ctx context.Context, db *sql.DB, table string, cols []Column) error {
	if s.Overwrite {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+quote(table)); err != nil {
			return fmt.Errorf("drop table %s: %w", table, err)
		}
	}

	defs := make([]string, len(cols))

	for i, c := range cols {
		def := quote(c.Name) + " " + string(c.Affinity)

		if c.PrimaryKey {
			def += " PRIMARY KEY"
			if c.Affinity == Integer {
				def += " AUTOINCREMENT"
			}
		}

		defs[i] = def
	}

	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quote(table), strings.Join(defs, ", "))

	s.Logger.Debug().Str("sql", stmt).Msg("creating table")

	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}

	return nil
}

func (s *Sink) insert(ctx context.Context, log zerolog.Logger, db *sql.DB, table string, cols []Column, rows []record.Record) (int, error) {
	names := make([]string, len(cols))
	marks := make([]string, len(cols))

	for i, c := range cols {
		names[i] = quote(c.Name)
		marks[i] = "?"
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(table), strings.Join(names, ", "), strings.Join(marks, ", "))

	size := s.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}

	written := 0

	for start := 0; start < len(rows); start += size {
		batch := rows[start:min(start+size, len(rows))]

		if err := insertBatch(ctx, log, db, stmt, cols, batch); err != nil {
			return written, fmt.Errorf("insert rows %d-%d: %w", start, start+len(batch)-1, err)
		}

		written += len(batch)

		log.Debug().Int("batch", len(batch)).Int("written", written).Msg("inserted batch")
	}

	return written, nil
}

func insertBatch(ctx context.Context, log zerolog.Logger, db *sql.DB, stmt string, cols []Column, rows []record.Record) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return err
	}
	defer func() { _ = prepared.Close() }()

	args := make([]any, len(cols))

	for _, r := range rows {
		for i, c := range cols {
			args[i] = sqlValue(log, r[c.Source], c.Affinity)
		}

		if _, err = prepared.ExecContext(ctx, args...); err != nil {
			return err
		}
	}

	return tx.Commit()
}

var valueCoercer = coerce.New()

// sqlValue converts a raw value for a column of the given affinity. Values
// that do not fit are stored as text.
func sqlValue(log zerolog.Logger, v any, a Affinity) any {
	if v == nil || v == "" {
		return nil
	}

	switch a {
	case Integer:
		if b, ok := v.(bool); ok {
			if b {
				return int64(1)
			}

			return int64(0)
		}

		if n, err := valueCoercer.Coerce(v, schema.TypeInt); err == nil {
			return n
		}
	case Real:
		if f, err := valueCoercer.Coerce(v, schema.TypeFloat); err == nil {
			return f
		}
	case Blob:
		if b, ok := v.([]byte); ok {
			return b
		}

		if s, ok := coerce.Stringify(v); ok {
			return []byte(s)
		}
	case Text:
	}

	if s, ok := coerce.Stringify(v); ok {
		return s
	}

	if data, err := json.Marshal(v); err == nil {
		return string(data)
	}

	log.Warn().Str("affinity", string(a)).Msgf("storing %T value as text", v)

	return fmt.Sprint(v)
}
