package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"data-pipeline/internal/record"
)

// Option configures a Pipeline.
type Option func(*settings)

type settings struct {
	transformers []Transformer
	logger       zerolog.Logger
}

// WithTransformers appends transformers, applied in the given order.
func WithTransformers(ts ...Transformer) Option {
	return func(s *settings) {
		s.transformers = append(s.transformers, ts...)
	}
}

// WithLogger sets the logger; runs log nothing by default.
func WithLogger(l zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// Pipeline runs a source through its stages and maps the result to T.
type Pipeline[T any] struct {
	loader       Loader
	parser       Parser
	transformers []Transformer
	mapper       Mapper[T]
	log          zerolog.Logger
}

// New assembles a pipeline. Loader, parser and mapper are required.
func New[T any](loader Loader, parser Parser, mapper Mapper[T], opts ...Option) (*Pipeline[T], error) {
	if loader == nil || parser == nil || mapper == nil {
		return nil, errors.New("pipeline: loader, parser and mapper are required")
	}

	s := settings{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&s)
	}

	return &Pipeline[T]{
		loader:       loader,
		parser:       parser,
		transformers: s.transformers,
		mapper:       mapper,
		log:          s.logger.With().Str("component", "pipeline").Logger(),
	}, nil
}

// Transformers returns the number of transformer stages.
func (p *Pipeline[T]) Transformers() int {
	return len(p.transformers)
}

// Execute runs every stage against source. A failing stage aborts the run
// with a *StageError naming it.
func (p *Pipeline[T]) Execute(ctx context.Context, source string) ([]T, error) {
	runID := uuid.NewString()
	log := p.log.With().Str("run_id", runID).Str("source", source).Logger()
	start := time.Now()

	fail := func(stage string, err error) ([]T, error) {
		log.Error().Err(err).Str("stage", stage).Msg("pipeline failed")

		return nil, &StageError{RunID: runID, Stage: stage, Err: err}
	}

	if err := p.loader.Validate(source); err != nil {
		return fail(StageValidate, err)
	}

	log.Info().Msg("loading data")

	raw, err := p.loader.Load(ctx, source)
	if err != nil {
		return fail(StageLoad, err)
	}

	log.Debug().Int("bytes", len(raw)).Msg("parsing data")

	table, err := p.parser.Parse(ctx, raw)
	if err != nil {
		return fail(StageParse, err)
	}

	log.Debug().Int("rows", table.Len()).Strs("columns", table.Columns).Msg("parsed")

	table, err = p.transform(ctx, log, table)
	if err != nil {
		return fail(StageTransform, err)
	}

	log.Debug().Msg("mapping rows")

	out, err := p.mapper.Map(ctx, table)
	if err != nil {
		return fail(StageMap, err)
	}

	log.Info().
		Int("rows", table.Len()).
		Int("items", len(out)).
		Dur("elapsed", time.Since(start)).
		Msg("pipeline completed")

	return out, nil
}

func (p *Pipeline[T]) transform(ctx context.Context, log zerolog.Logger, t record.Table) (record.Table, error) {
	for i, tr := range p.transformers {
		if err := ctx.Err(); err != nil {
			return record.Table{}, err
		}

		log.Debug().
			Int("step", i+1).
			Int("of", len(p.transformers)).
			Str("transformer", tr.Description()).
			Msg("applying transformer")

		next, err := tr.Transform(ctx, t)
		if err != nil {
			return record.Table{}, err
		}

		t = next
	}

	return t, nil
}
