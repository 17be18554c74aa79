package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"data-pipeline/internal/config"
	"data-pipeline/internal/convert"
	"data-pipeline/internal/infer"
	"data-pipeline/internal/logging"
	"data-pipeline/internal/mapping"
	"data-pipeline/internal/pipeline"
	"data-pipeline/internal/schema"
)

// app holds flag values and the state shared by subcommands.
type app struct {
	configDir   string
	mappingPath string
	logLevel    string

	target     string
	fields     []string
	transforms []string
	sheet      string
	headerRow  int
	sampleSize int
	confidence float64

	cfg config.Config
	mf  *mapping.MappingFile
	log zerolog.Logger

	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, log: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "data-pipeline",
		Short:         "Map spreadsheet columns onto typed records",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.configDir, "config", ".", "Directory holding config.yaml")
	root.PersistentFlags().StringVarP(&a.mappingPath, "mapping", "m", "", "YAML mapping file with aliases and pinned columns")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newSuggestCmd(a),
		newConvertCmd(a),
		newLoadCmd(a),
		newCheckCmd(a),
		newInferCmd(a),
	)

	return root
}

// addFieldFlags registers the schema flags on a subcommand.
func (a *app) addFieldFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&a.target, "target", "t", "record", "Target name used to look up the mapping file")
	cmd.Flags().StringArrayVarP(&a.fields, "field", "f", nil,
		"Field as name[:type][=default]; type is string|int|float|bool, *T optional, []T list")
}

// addPipelineFlags registers the parsing flags on a subcommand.
func (a *app) addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&a.transforms, "transform", nil, "Transformers to apply, in order (e.g. auto_categorize)")
	cmd.Flags().StringVar(&a.sheet, "sheet", "", "Worksheet to read from XLSX files (default first)")
	cmd.Flags().IntVar(&a.headerRow, "header-row", 0, "1-based header row (default first non-blank)")
}

// addInferFlags registers the schema inference flags on a subcommand.
func (a *app) addInferFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&a.sampleSize, "sample-size", 0, "Rows sampled when inferring a schema (0 keeps the config value)")
	cmd.Flags().Float64Var(&a.confidence, "confidence", 0, "Share of values a type needs when inferring a schema")
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configDir)
	if err != nil {
		return err
	}

	flags := cmd.Flags()

	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}

	if flags.Changed("transform") {
		cfg.Pipeline.Transformers = a.transforms
	}

	if flags.Changed("sheet") {
		cfg.Pipeline.Sheet = a.sheet
	}

	if flags.Changed("header-row") {
		cfg.Pipeline.HeaderRow = a.headerRow
	}

	if flags.Changed("sample-size") {
		cfg.Infer.SampleSize = a.sampleSize
	}

	if flags.Changed("confidence") {
		cfg.Infer.Confidence = a.confidence
	}

	log, err := logging.New(cfg.Log.Level, a.stderr)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log

	if cfg.File != "" {
		log.Debug().Str("file", cfg.File).Msg("loaded config")
	}

	if a.mappingPath != "" {
		mf, err := mapping.LoadFile(a.mappingPath)
		if err != nil {
			return err
		}

		a.mf = mf
	}

	return nil
}

// schema builds the target schema from the --field flags.
func (a *app) schema() (*schema.Schema, error) {
	if len(a.fields) == 0 {
		return nil, fmt.Errorf("at least one --field is required")
	}

	b := schema.NewBuilder(a.target)

	for _, spec := range a.fields {
		name, typ, def, hasDef := parseFieldSpec(spec)

		t, err := schema.ParseType(typ)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", spec, err)
		}

		var opts []schema.FieldOption
		if hasDef {
			opts = append(opts, schema.WithDefault(def))
		}

		b.Field(name, t, opts...)
	}

	return b.Build()
}

// parseFieldSpec splits name[:type][=default]. The type defaults to string.
func parseFieldSpec(spec string) (name, typ, def string, hasDef bool) {
	spec, def, hasDef = strings.Cut(spec, "=")
	name, typ, _ = strings.Cut(spec, ":")

	name = strings.TrimSpace(name)
	if typ = strings.TrimSpace(typ); typ == "" {
		typ = "string"
	}

	return name, typ, def, hasDef
}

// inferOptions combines the infer settings with a schema name and the logger.
func (a *app) inferOptions(name string) []infer.Option {
	return append(a.cfg.InferOptions(), infer.WithName(name), infer.WithLogger(a.log))
}

// converterOptions combines config, mapping file and schema settings. The
// mapping file is validated against the schema first.
func (a *app) converterOptions(s *schema.Schema) ([]convert.Option, error) {
	opts := append(a.cfg.ConvertOptions(), convert.WithSchema(s), convert.WithLogger(a.log))

	if a.mf == nil {
		return opts, nil
	}

	diags := mapping.Validate(a.mf, s)

	for _, w := range diags.Warnings {
		a.log.Warn().Str("code", w.Code).Msg(w.String())
	}

	if err := diags.Error(); err != nil {
		return nil, fmt.Errorf("mapping %s: %w", a.mappingPath, err)
	}

	opts = append(opts, convert.WithFieldAliases(a.mf.AliasesFor(s.Name())))

	if tm := a.mf.For(s.Name()); tm != nil {
		opts = append(opts, convert.WithPins(tm.Pins()))

		if tm.Threshold != nil {
			opts = append(opts, convert.WithConfidenceThreshold(*tm.Threshold))
		}
	}

	return opts, nil
}

// registry returns the stage registry with parsers configured from the
// pipeline settings.
func (a *app) registry() (*pipeline.Registry, error) {
	r := pipeline.NewRegistry()
	pc := a.cfg.Pipeline

	for _, err := range []error{
		r.RegisterLoader("file", func() pipeline.Loader {
			return pipeline.NewFileLoader(slices.Concat(pipeline.CSVExtensions, pipeline.ExcelExtensions)...)
		}),
		r.RegisterParser("csv", func() pipeline.Parser {
			return &pipeline.CSVParser{HeaderRow: pc.HeaderRow}
		}),
		r.RegisterParser("excel", func() pipeline.Parser {
			return &pipeline.ExcelParser{Sheet: pc.Sheet, HeaderRow: pc.HeaderRow}
		}),
		r.RegisterTransformer("auto_categorize", func() pipeline.Transformer {
			return pipeline.NewAutoCategorizer()
		}),
	} {
		if err != nil {
			return nil, err
		}
	}

	return r, nil
}

// build assembles a pipeline for source ending in mapper. Extra
// transformers run after the configured ones.
func build[T any](a *app, source string, mapper pipeline.Mapper[T], extra ...pipeline.Transformer) (*pipeline.Pipeline[T], error) {
	r, err := a.registry()
	if err != nil {
		return nil, err
	}

	parser, err := r.ParserFor(source)
	if err != nil {
		return nil, err
	}

	return pipeline.Build(r, "file", parser, a.cfg.Pipeline.Transformers, mapper,
		pipeline.WithTransformers(extra...),
		pipeline.WithLogger(a.log))
}
