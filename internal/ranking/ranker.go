package ranking

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/MikeSquared-Agency/Ranker/internal/evolution"
	"github.com/MikeSquared-Agency/Ranker/internal/scoring"
)

// Result is a complete ranking of one candidate set.
type Result struct {
	Mode    evolution.Mode         `json:"mode"`
	Method  evolution.Method       `json:"method"`
	Best    Entry                  `json:"best"`
	Entries []Entry                `json:"ranking"`
	Weights scoring.WeightSet      `json:"weights"`
	Search  *evolution.SearchStats `json:"search,omitempty"`
	Elapsed time.Duration          `json:"-"`
}

// Options tune a single ranking call.
type Options struct {
	// Explain attaches per-criterion factor breakdowns to each entry.
	Explain bool
	// Pareto marks entries on the Pareto frontier. The frontier is quadratic
	// in the number of candidates.
	Pareto bool
}

// Ranker normalizes a candidate set, runs the evolutionary engine and
// assembles the ordered result.
type Ranker struct {
	engine *evolution.Engine
	logger *slog.Logger
}

// NewRanker creates a Ranker backed by engine.
func NewRanker(engine *evolution.Engine, logger *slog.Logger) *Ranker {
	return &Ranker{engine: engine, logger: logger}
}

// Rank ranks candidates in the given mode. It returns scoring.ErrEmptyInput
// for an empty set.
func (r *Ranker) Rank(mode evolution.Mode, candidates []Candidate, opts Options) (*Result, error) {
	start := time.Now()

	features, err := scoring.Normalize(metricsOf(candidates))
	if err != nil {
		return nil, err
	}

	outcome, err := r.engine.Run(mode, features)
	if err != nil {
		return nil, fmt.Errorf("run %s search: %w", mode, err)
	}

	entries := Assemble(candidates, features, outcome.Weights, opts)

	// A lone candidate is the winner by definition and reports the engine's
	// fitness rather than its score against itself.
	if outcome.Method == evolution.MethodSingleCandidate {
		entries[0].Score = outcome.Fitness
	}

	result := &Result{
		Mode:    mode,
		Method:  outcome.Method,
		Entries: entries,
		Weights: outcome.Weights,
		Search:  outcome.Search,
	}
	result.Best = entries[0]
	for _, e := range entries {
		if e.Index == outcome.BestIndex {
			result.Best = e
			break
		}
	}
	result.Elapsed = time.Since(start)

	r.logger.Debug("ranked candidates",
		"mode", mode,
		"method", outcome.Method,
		"candidates", len(candidates),
		"best", result.Best.Candidate.ID,
		"elapsed", result.Elapsed,
	)
	return result, nil
}
