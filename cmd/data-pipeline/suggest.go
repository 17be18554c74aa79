package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"data-pipeline/internal/convert"
	"data-pipeline/internal/mapping"
	"data-pipeline/internal/record"
)

func newSuggestCmd(a *app) *cobra.Command {
	var write string

	cmd := &cobra.Command{
		Use:   "suggest FILE",
		Short: "Show which column would feed each field",
		Long: `The suggest command reads the header of FILE and resolves every --field
against its columns, printing the chosen column, score and match quality.
Fields without a column are listed with the reason.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.suggest(cmd.Context(), args[0], write)
		},
	}

	a.addFieldFlags(cmd)
	a.addPipelineFlags(cmd)
	cmd.Flags().StringVarP(&write, "write", "w", "", "Write the suggested mapping as YAML to this file")

	return cmd
}

// columnsMapper ends a pipeline by reporting the table's columns.
type columnsMapper struct{}

func (columnsMapper) Map(_ context.Context, t record.Table) ([]string, error) {
	return t.ColumnNames(), nil
}

func (a *app) suggest(ctx context.Context, source, write string) error {
	s, err := a.schema()
	if err != nil {
		return err
	}

	opts, err := a.converterOptions(s)
	if err != nil {
		return err
	}

	conv, err := convert.New[record.Record](opts...)
	if err != nil {
		return err
	}

	p, err := build[string](a, source, columnsMapper{})
	if err != nil {
		return err
	}

	columns, err := p.Execute(ctx, source)
	if err != nil {
		return err
	}

	m, err := conv.SuggestFieldMapping(columns)
	if err != nil {
		return err
	}

	fmt.Fprint(a.stdout, m.String())

	for _, amb := range m.Ambiguities {
		fmt.Fprintf(a.stdout, "ambiguous: %s\n", amb)
	}

	for _, w := range m.Diagnostics.Warnings {
		a.log.Warn().Str("code", w.Code).Msg(w.String())
	}

	if write == "" {
		return nil
	}

	if err := mapping.WriteFile(mapping.ExportFile(s.Name(), m), write); err != nil {
		return err
	}

	a.log.Info().Str("file", write).Msg("mapping written")

	return nil
}
