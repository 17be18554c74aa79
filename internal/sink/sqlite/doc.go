// Package sqlite writes record tables into a SQLite database.
//
// The sink infers a column affinity from sampled rows, cleans column names
// into safe identifiers, picks a primary key and inserts rows in batched
// transactions. It uses the pure Go modernc.org/sqlite driver.
//
// Key functions:
//   - New: create a Sink with default settings
//   - Sink.Write: create the table and insert a table's rows
//   - Sink.Map: pipeline mapper stage returning one Summary
//   - Sink.Info, Sink.Query: inspect the written table
//   - InferAffinity, CleanName: the schema rules used by Write
package sqlite
