package evolution

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/MikeSquared-Agency/Ranker/internal/scoring"
)

// ErrSearchFault marks a generation that could not complete. The engine logs
// it and keeps the last good population.
var ErrSearchFault = errors.New("search fault")

// Method names how an outcome was reached. The value is persisted with each
// run.
type Method string

const (
	MethodGeneticAlgorithm Method = "genetic_algorithm"
	MethodSingleCandidate  Method = "single_candidate"
	MethodDirectComparison Method = "direct_comparison"
)

// SearchStats describes a generational run.
type SearchStats struct {
	PopulationSize int               `json:"population_size"`
	Generations    int               `json:"generations"`
	Aborted        bool              `json:"aborted"`
	Fault          string            `json:"fault,omitempty"`
	History        []GenerationStats `json:"history,omitempty"`
}

// Outcome is the engine's answer for one candidate set.
type Outcome struct {
	Mode      Mode              `json:"mode"`
	Method    Method            `json:"method"`
	BestIndex int               `json:"best_index"`
	Weights   scoring.WeightSet `json:"weights"`
	Fitness   float64           `json:"fitness"`
	// Search is nil when the candidate set was too small to need one.
	Search *SearchStats `json:"search,omitempty"`
}

// Engine runs the evolutionary search. It holds no per-run state, so one
// Engine may serve concurrent requests.
type Engine struct {
	params  Params
	weights scoring.WeightSet
	logger  *slog.Logger
}

// NewEngine creates an Engine. weights is the fixed forward-mode weighting,
// also used to compare exactly two candidates in reverse mode.
func NewEngine(params Params, weights scoring.WeightSet, logger *slog.Logger) *Engine {
	return &Engine{params: params, weights: weights.Normalized(), logger: logger}
}

// Weights returns the engine's fixed weighting.
func (e *Engine) Weights() scoring.WeightSet {
	return e.weights
}

// Run finds the best candidate among the normalized feature vectors.
//
// Degenerate sizes skip the search: zero candidates return ErrEmptyInput, one
// candidate wins with fitness 1.0, and two candidates in reverse mode are
// compared directly under the fixed weights.
func (e *Engine) Run(mode Mode, features []scoring.Features) (Outcome, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return Outcome{}, err
	}

	n := len(features)
	switch {
	case n == 0:
		return Outcome{}, scoring.ErrEmptyInput
	case n == 1:
		w := e.weights
		if mode == ModeReverse {
			w = scoring.UniformWeights()
		}
		return Outcome{Mode: mode, Method: MethodSingleCandidate, Weights: w, Fitness: 1.0}, nil
	case n == 2 && mode == ModeReverse:
		scores := scoring.ScoreAll(features, e.weights)
		best := scoring.ArgMax(scores)
		return Outcome{
			Mode:      mode,
			Method:    MethodDirectComparison,
			BestIndex: best,
			Weights:   e.weights,
			Fitness:   scores[best],
		}, nil
	}

	factory, err := NewFactory(mode, n, e.params)
	if err != nil {
		return Outcome{}, err
	}
	eval := NewEvaluator(mode, features, e.weights)
	pop, stats := e.search(mode, factory, eval.Evaluate, e.params.newRNG())

	best, _ := pop.Best()
	out := Outcome{Mode: mode, Method: MethodGeneticAlgorithm, Search: &stats}

	// In forward mode the weights are fixed, so this is a stochastic arg-max;
	// scoring.ArgMax over the same features would give the same answer.
	if mode == ModeForward {
		idx := factory.Resolve(best.Genome)
		out.BestIndex = idx
		out.Weights = e.weights
		out.Fitness = scoring.Score(features[idx], e.weights)
		return out, nil
	}

	w := scoring.WeightsFromVector(scoring.NormalizeVector(best.Genome.Weights))
	scores := scoring.ScoreAll(features, w)
	idx := scoring.ArgMax(scores)
	out.BestIndex = idx
	out.Weights = w
	out.Fitness = scores[idx]
	return out, nil
}

// search runs the generational loop and returns the final population.
func (e *Engine) search(mode Mode, f *Factory, eval func(Genome) float64, rng *rand.Rand) (Population, SearchStats) {
	size := e.params.PopulationSize(f.n)
	pop := make(Population, size)
	for i := range pop {
		g := f.Create(rng)
		pop[i] = Individual{Genome: g, Fitness: eval(g)}
	}

	stats := SearchStats{PopulationSize: size}
	tournament := e.params.Tournament(size)

	for gen := 1; gen <= e.params.Generations; gen++ {
		next, err := e.generation(pop, f, eval, tournament, rng)
		if err != nil {
			e.logger.Error("search generation failed, keeping best so far",
				"mode", mode, "generation", gen, "error", err)
			stats.Aborted = true
			stats.Fault = err.Error()
			break
		}
		if len(next) == 0 {
			break
		}
		pop = next
		stats.Generations = gen
		stats.History = append(stats.History, pop.stats(gen))
	}

	e.logger.Debug("search finished",
		"mode", mode,
		"candidates", f.n,
		"population", size,
		"generations", stats.Generations,
		"aborted", stats.Aborted,
	)
	return pop, stats
}

// generation applies crossover and mutation to a copy of pop, re-evaluates
// the offspring and selects the survivors. Panics and non-finite fitness
// values surface as ErrSearchFault.
func (e *Engine) generation(pop Population, f *Factory, eval func(Genome) float64, tournament int, rng *rand.Rand) (next Population, err error) {
	defer func() {
		if r := recover(); r != nil {
			next = nil
			err = fmt.Errorf("%w: %v", ErrSearchFault, r)
		}
	}()

	offspring := pop.Clone()
	for i := 1; i < len(offspring); i += 2 {
		if rng.Float64() < e.params.CrossoverProb {
			f.Recombine(&offspring[i-1].Genome, &offspring[i].Genome, rng)
		}
	}
	for i := range offspring {
		if rng.Float64() < e.params.MutationProb {
			f.Mutate(&offspring[i].Genome, rng)
		}
	}
	for i := range offspring {
		fit := eval(offspring[i].Genome)
		if math.IsNaN(fit) || math.IsInf(fit, 0) {
			return nil, fmt.Errorf("%w: non-finite fitness %v", ErrSearchFault, fit)
		}
		offspring[i].Fitness = fit
	}

	// Tournament selection is degenerate below three offspring.
	switch len(offspring) {
	case 0:
		return nil, nil
	case 1, 2:
		return offspring, nil
	}

	size := shrinkTournament(tournament, len(offspring))
	return selectTournament(offspring, min(len(pop), len(offspring)), size, rng), nil
}
