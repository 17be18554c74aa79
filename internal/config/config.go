// Package config loads command line settings from config.yaml and
// DATA_PIPELINE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"data-pipeline/internal/coerce"
	"data-pipeline/internal/common"
	"data-pipeline/internal/convert"
	"data-pipeline/internal/infer"
	"data-pipeline/internal/logging"
	"data-pipeline/internal/match"
	"data-pipeline/internal/sink/sqlite"
)

// EnvPrefix prefixes every environment override, e.g.
// DATA_PIPELINE_CONVERTER_THRESHOLD.
const EnvPrefix = "DATA_PIPELINE"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Similarity strategy names.
const (
	SimilarityLevenshtein = "levenshtein"
	SimilarityTokens      = "tokens"
	SimilarityBest        = "best"
)

// Config is the full set of command line settings.
type Config struct {
	Converter ConverterConfig `mapstructure:"converter"`
	Infer     InferConfig     `mapstructure:"infer"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	SQLite    SQLiteConfig    `mapstructure:"sqlite"`
	Log       LogConfig       `mapstructure:"log"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// ConverterConfig mirrors convert.Options.
type ConverterConfig struct {
	Threshold       float64 `mapstructure:"threshold"`
	StrictTypes     bool    `mapstructure:"strict_types"`
	SkipInvalid     bool    `mapstructure:"skip_invalid"`
	ListDelimiter   string  `mapstructure:"list_delimiter"`
	FailOnAmbiguity bool    `mapstructure:"fail_on_ambiguity"`
	Similarity      string  `mapstructure:"similarity"`
}

// InferConfig tunes schema inference when no fields are declared.
type InferConfig struct {
	SampleSize int     `mapstructure:"sample_size"`
	Confidence float64 `mapstructure:"confidence"`
}

// PipelineConfig selects stages and parser settings.
type PipelineConfig struct {
	Transformers []string `mapstructure:"transformers"`
	Sheet        string   `mapstructure:"sheet"`
	HeaderRow    int      `mapstructure:"header_row"`
}

// SQLiteConfig mirrors the sqlite sink settings.
type SQLiteConfig struct {
	Path       string `mapstructure:"path"`
	Table      string `mapstructure:"table"`
	BatchSize  int    `mapstructure:"batch_size"`
	Overwrite  bool   `mapstructure:"overwrite"`
	PrimaryKey string `mapstructure:"primary_key"`
}

// LogConfig configures the console logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Converter: ConverterConfig{
			Threshold:     match.DefaultConfidenceThreshold,
			ListDelimiter: coerce.DefaultListDelimiter,
			Similarity:    SimilarityLevenshtein,
		},
		Infer: InferConfig{
			SampleSize: infer.DefaultSampleSize,
			Confidence: infer.DefaultConfidence,
		},
		SQLite: SQLiteConfig{
			Path:      "data.db",
			Table:     sqlite.DefaultTable,
			BatchSize: sqlite.DefaultBatchSize,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads config.yaml from dir when present, then applies environment
// overrides on top of the defaults.
func Load(dir string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if dir != "" {
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}

	cfg.File = v.ConfigFileUsed()

	return cfg, cfg.Validate()
}

// setDefaults registers every key so environment variables are seen by
// Unmarshal even without a config file.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("converter.threshold", cfg.Converter.Threshold)
	v.SetDefault("converter.strict_types", cfg.Converter.StrictTypes)
	v.SetDefault("converter.skip_invalid", cfg.Converter.SkipInvalid)
	v.SetDefault("converter.list_delimiter", cfg.Converter.ListDelimiter)
	v.SetDefault("converter.fail_on_ambiguity", cfg.Converter.FailOnAmbiguity)
	v.SetDefault("converter.similarity", cfg.Converter.Similarity)
	v.SetDefault("infer.sample_size", cfg.Infer.SampleSize)
	v.SetDefault("infer.confidence", cfg.Infer.Confidence)
	v.SetDefault("pipeline.transformers", cfg.Pipeline.Transformers)
	v.SetDefault("pipeline.sheet", cfg.Pipeline.Sheet)
	v.SetDefault("pipeline.header_row", cfg.Pipeline.HeaderRow)
	v.SetDefault("sqlite.path", cfg.SQLite.Path)
	v.SetDefault("sqlite.table", cfg.SQLite.Table)
	v.SetDefault("sqlite.batch_size", cfg.SQLite.BatchSize)
	v.SetDefault("sqlite.overwrite", cfg.SQLite.Overwrite)
	v.SetDefault("sqlite.primary_key", cfg.SQLite.PrimaryKey)
	v.SetDefault("log.level", cfg.Log.Level)
}

// Validate checks value ranges and names.
func (c Config) Validate() error {
	var errs []error

	if t := c.Converter.Threshold; !common.IsScore(t) {
		errs = append(errs, fmt.Errorf("converter.threshold %v not in [0,1]", t))
	}

	if _, err := SimilarityFor(c.Converter.Similarity); err != nil {
		errs = append(errs, err)
	}

	if t := c.Infer.Confidence; !common.IsScore(t) {
		errs = append(errs, fmt.Errorf("infer.confidence %v not in [0,1]", t))
	}

	if c.SQLite.BatchSize < 0 {
		errs = append(errs, fmt.Errorf("sqlite.batch_size %d is negative", c.SQLite.BatchSize))
	}

	if c.Pipeline.HeaderRow < 0 {
		errs = append(errs, fmt.Errorf("pipeline.header_row %d is negative", c.Pipeline.HeaderRow))
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}

	return nil
}

// SimilarityFor maps a strategy name to a similarity function. An empty
// name means Levenshtein.
func SimilarityFor(name string) (match.Similarity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SimilarityLevenshtein:
		return match.LevenshteinSimilarity, nil
	case SimilarityTokens:
		return match.TokenOverlap, nil
	case SimilarityBest:
		return match.MaxOf(match.LevenshteinSimilarity, match.TokenOverlap), nil
	default:
		return nil, fmt.Errorf("unknown similarity %q", name)
	}
}

// ConvertOptions translates the converter section into converter options.
func (c Config) ConvertOptions() []convert.Option {
	sim, err := SimilarityFor(c.Converter.Similarity)
	if err != nil {
		sim = match.LevenshteinSimilarity
	}

	return []convert.Option{
		convert.WithConfidenceThreshold(c.Converter.Threshold),
		convert.WithStrictTypes(c.Converter.StrictTypes),
		convert.WithSkipInvalid(c.Converter.SkipInvalid),
		convert.WithListDelimiter(c.Converter.ListDelimiter),
		convert.WithFailOnAmbiguity(c.Converter.FailOnAmbiguity),
		convert.WithSimilarity(sim),
	}
}

// InferOptions translates the infer section into inference options. The
// list delimiter follows the converter so inferred lists split the same way.
func (c Config) InferOptions() []infer.Option {
	return []infer.Option{
		infer.WithSampleSize(c.Infer.SampleSize),
		infer.WithConfidence(c.Infer.Confidence),
		infer.WithListDelimiter(c.Converter.ListDelimiter),
	}
}

// Sink builds a sqlite sink from the sqlite section.
func (c Config) Sink() *sqlite.Sink {
	s := sqlite.New(c.SQLite.Path)
	s.Table = c.SQLite.Table
	s.BatchSize = c.SQLite.BatchSize
	s.Overwrite = c.SQLite.Overwrite
	s.PrimaryKey = c.SQLite.PrimaryKey

	return s
}
