// Package pipeline wires the stages of an ingestion run.
//
// A run validates the source, loads its bytes, parses them into a
// record.Table, applies transformers in order and hands the result to a
// Mapper, typically a convert.Converter or the SQLite sink.
//
// Key types:
//   - Loader, Parser, Transformer, Mapper: stage contracts
//   - FileLoader, CSVParser, ExcelParser, AutoCategorizer: stock stages
//   - Pipeline: ordered stages plus a logger
//   - Registry: named stage factories, Build assembles a Pipeline
package pipeline
