package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"data-pipeline/internal/convert"
	"data-pipeline/internal/infer"
	"data-pipeline/internal/pipeline"
	"data-pipeline/internal/record"
)

func newConvertCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Convert rows into typed JSON records",
		Long: `The convert command runs FILE through the pipeline and prints one JSON
object per converted row. Rows that fail to convert are reported on stderr.
Without --field the schema is inferred from the parsed rows.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.convert(cmd.Context(), args[0])
		},
	}

	a.addFieldFlags(cmd)
	a.addPipelineFlags(cmd)
	a.addInferFlags(cmd)

	return cmd
}

func (a *app) newConverter() (*convert.Converter[record.Record], error) {
	s, err := a.schema()
	if err != nil {
		return nil, err
	}

	opts, err := a.converterOptions(s)
	if err != nil {
		return nil, err
	}

	return convert.New[record.Record](opts...)
}

// inferringMapper infers a schema from the parsed table and converts the
// table with it. Inferred fields are pinned to their source columns.
type inferringMapper struct {
	a      *app
	result *infer.Result
	conv   *convert.Converter[record.Record]
}

func (m *inferringMapper) Map(ctx context.Context, t record.Table) ([]record.Record, error) {
	res, err := infer.Table(t, m.a.inferOptions(m.a.target)...)
	if err != nil {
		return nil, err
	}

	opts, err := m.a.converterOptions(res.Schema)
	if err != nil {
		return nil, err
	}

	conv, err := convert.New[record.Record](append(opts, convert.WithPins(res.Pins()))...)
	if err != nil {
		return nil, err
	}

	m.result, m.conv = res, conv

	m.a.log.Debug().Msg(res.String())

	return conv.Map(ctx, t)
}

func (a *app) convert(ctx context.Context, source string) error {
	var (
		mapper   pipeline.Mapper[record.Record]
		conv     *convert.Converter[record.Record]
		inferred *inferringMapper
	)

	if len(a.fields) == 0 {
		inferred = &inferringMapper{a: a}
		mapper = inferred
	} else {
		c, err := a.newConverter()
		if err != nil {
			return err
		}

		conv, mapper = c, c
	}

	p, err := build[record.Record](a, source, mapper)
	if err != nil {
		return err
	}

	if _, err := p.Execute(ctx, source); err != nil {
		return err
	}

	if inferred != nil {
		conv = inferred.conv
	}

	batch := conv.LastBatch()
	enc := json.NewEncoder(a.stdout)

	for _, r := range batch.Results {
		if !r.OK() {
			continue
		}

		if err := enc.Encode(r.Value); err != nil {
			return err
		}
	}

	for _, f := range batch.Failures {
		fmt.Fprintln(a.stderr, f)
	}

	a.log.Info().
		Int("converted", len(batch.Values())).
		Int("failed", len(batch.Failures)).
		Msg("conversion finished")

	return nil
}
