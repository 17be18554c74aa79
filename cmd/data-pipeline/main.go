// Package main provides the data-pipeline command line tool.
//
// data-pipeline reads CSV and XLSX files and:
//   - Suggests which column feeds each requested field (suggest)
//   - Converts rows into typed JSON records, inferring the fields when none
//     are given (convert)
//   - Infers a schema from sampled rows (infer)
//   - Loads rows into a SQLite table (load)
//   - Checks a YAML mapping file against a field list (check)
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
