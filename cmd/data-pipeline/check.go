package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"data-pipeline/internal/mapping"
)

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a mapping file against a field list",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.check()
		},
	}

	a.addFieldFlags(cmd)

	return cmd
}

func (a *app) check() error {
	if a.mf == nil {
		return errors.New("check needs --mapping")
	}

	s, err := a.schema()
	if err != nil {
		return err
	}

	diags := mapping.Validate(a.mf, s)

	for _, d := range diags.Errors {
		fmt.Fprintf(a.stdout, "error: %s\n", d)
	}

	for _, d := range diags.Warnings {
		fmt.Fprintf(a.stdout, "warning: %s\n", d)
	}

	for _, d := range diags.Infos {
		fmt.Fprintf(a.stdout, "info: %s\n", d)
	}

	if err := diags.Error(); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "%s: ok\n", a.mappingPath)

	return nil
}
