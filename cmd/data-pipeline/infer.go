package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"data-pipeline/internal/infer"
	"data-pipeline/internal/record"
)

func newInferCmd(a *app) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "infer FILE",
		Short: "Infer a schema from the rows of a file",
		Long: `The infer command samples the parsed rows of FILE and prints the field
inferred for each column with its type, source column and confidence. The
printed fields can be passed back to convert as --field flags.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.infer(cmd.Context(), args[0], name)
		},
	}

	cmd.Flags().StringVarP(&name, "target", "t", infer.DefaultName, "Name of the inferred schema")
	a.addPipelineFlags(cmd)
	a.addInferFlags(cmd)

	return cmd
}

// inferMapper ends a pipeline with the schema inferred from the table.
type inferMapper struct {
	opts []infer.Option
}

func (m inferMapper) Map(_ context.Context, t record.Table) ([]*infer.Result, error) {
	res, err := infer.Table(t, m.opts...)
	if err != nil {
		return nil, err
	}

	return []*infer.Result{res}, nil
}

func (a *app) infer(ctx context.Context, source, name string) error {
	p, err := build[*infer.Result](a, source, inferMapper{opts: a.inferOptions(name)})
	if err != nil {
		return err
	}

	out, err := p.Execute(ctx, source)
	if err != nil {
		return err
	}

	fmt.Fprint(a.stdout, out[0].String())

	return nil
}
