package resolve

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"data-pipeline/internal/alias"
	"data-pipeline/internal/common"
	"data-pipeline/internal/match"
)

// Config holds configuration for the resolution process.
type Config struct {
	// ConfidenceThreshold is the minimum score for accepting a column, in [0,1].
	ConfidenceThreshold float64
	// AmbiguityThreshold marks an accepted fuzzy match as a near tie when the
	// runner-up is within this difference.
	AmbiguityThreshold float64
	// Similarity scores normalized names. Nil means match.LevenshteinSimilarity.
	Similarity match.Similarity
	// Catalog supplies aliases per field name. Nil means no catalog aliases.
	Catalog *alias.Catalog
	// Pins fixes field→column pairs before any scoring.
	Pins map[string]string
	// FailOnAmbiguity turns equal-strength contests into an error.
	FailOnAmbiguity bool
	// MaxCandidates is the maximum number of candidates kept for suggestions.
	MaxCandidates int
	// Logger receives debug output about each decision.
	Logger zerolog.Logger
}

// DefaultConfig returns the default resolution configuration.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: match.DefaultConfidenceThreshold,
		AmbiguityThreshold:  match.DefaultAmbiguityThreshold,
		Similarity:          match.LevenshteinSimilarity,
		Catalog:             alias.Default(),
		MaxCandidates:       5,
		Logger:              zerolog.Nop(),
	}
}

// Validate checks the numeric settings.
func (c Config) Validate() error {
	if !common.IsScore(c.ConfidenceThreshold) {
		return fmt.Errorf("%w: confidence threshold %v not in [0,1]", ErrInvalidConfig, c.ConfidenceThreshold)
	}

	if math.IsNaN(c.AmbiguityThreshold) || c.AmbiguityThreshold < 0 {
		return fmt.Errorf("%w: ambiguity threshold %v is negative", ErrInvalidConfig, c.AmbiguityThreshold)
	}

	if c.MaxCandidates < 0 {
		return fmt.Errorf("%w: max candidates %d is negative", ErrInvalidConfig, c.MaxCandidates)
	}

	return nil
}
