package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"data-pipeline/internal/convert"
	"data-pipeline/internal/pipeline"
	"data-pipeline/internal/record"
	"data-pipeline/internal/sink/sqlite"
)

func newLoadCmd(a *app) *cobra.Command {
	var (
		db, table, primaryKey string
		overwrite             bool
		batchSize             int
	)

	cmd := &cobra.Command{
		Use:   "load FILE",
		Short: "Load rows into a SQLite table",
		Long: `The load command runs FILE through the pipeline and writes the rows into
a SQLite table whose column types are inferred from the data. With --field
the rows are converted to those fields first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			sc := &a.cfg.SQLite

			if flags.Changed("db") {
				sc.Path = db
			}

			if flags.Changed("table") {
				sc.Table = table
			}

			if flags.Changed("primary-key") {
				sc.PrimaryKey = primaryKey
			}

			if flags.Changed("overwrite") {
				sc.Overwrite = overwrite
			}

			if flags.Changed("batch-size") {
				sc.BatchSize = batchSize
			}

			return a.load(cmd.Context(), args[0])
		},
	}

	a.addFieldFlags(cmd)
	a.addPipelineFlags(cmd)
	cmd.Flags().StringVar(&db, "db", "", "SQLite database file (default from config)")
	cmd.Flags().StringVar(&table, "table", "", "Table name (default from config)")
	cmd.Flags().StringVar(&primaryKey, "primary-key", "", "Primary key column (default: first id-like column)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Drop the table before loading")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Rows per insert transaction")

	return cmd
}

// conformTo converts a table to the converter's schema so only mapped
// fields reach the sink.
func conformTo(conv *convert.Converter[record.Record]) pipeline.Transformer {
	s := conv.Schema()

	return pipeline.Describe("convert to "+s.Name(), func(_ context.Context, t record.Table) (record.Table, error) {
		batch, err := conv.ConvertTable(t)
		if err != nil {
			return record.Table{}, err
		}

		return record.Table{Columns: s.Names(), Rows: batch.Values()}, nil
	})
}

func (a *app) load(ctx context.Context, source string) error {
	var extra []pipeline.Transformer

	if len(a.fields) > 0 {
		conv, err := a.newConverter()
		if err != nil {
			return err
		}

		extra = append(extra, conformTo(conv))
	}

	sink := a.cfg.Sink()
	sink.Logger = a.log

	p, err := build[sqlite.Summary](a, source, sink, extra...)
	if err != nil {
		return err
	}

	out, err := p.Execute(ctx, source)
	if err != nil {
		return err
	}

	sum := out[0]
	fmt.Fprintf(a.stdout, "loaded %d rows into %s (%s)\n", sum.Rows, sum.Table, sum.Path)

	for _, c := range sum.Columns {
		pk := ""
		if c.PrimaryKey {
			pk = " PRIMARY KEY"
		}

		fmt.Fprintf(a.stdout, "  %s %s%s <- %q\n", c.Name, c.Affinity, pk, c.Source)
	}

	return nil
}
