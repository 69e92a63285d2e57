package evolution

import (
	"fmt"
	"math/rand/v2"
)

// Params controls the generational search.
type Params struct {
	Generations      int     `yaml:"generations"`
	CrossoverProb    float64 `yaml:"crossover_prob"`
	MutationProb     float64 `yaml:"mutation_prob"`
	MaxPopulation    int     `yaml:"max_population"`
	MinPopulation    int     `yaml:"min_population"`
	TournamentSize   int     `yaml:"tournament_size"`
	GeneMutationProb float64 `yaml:"gene_mutation_prob"`
	MutationSigma    float64 `yaml:"mutation_sigma"`
	BlendAlpha       float64 `yaml:"blend_alpha"`
	// Seed for random number generation (0 for random seed)
	Seed uint64 `yaml:"seed"`
}

// DefaultParams returns the production search settings.
func DefaultParams() Params {
	return Params{
		Generations:      30,
		CrossoverProb:    0.5,
		MutationProb:     0.2,
		MaxPopulation:    50,
		MinPopulation:    2,
		TournamentSize:   3,
		GeneMutationProb: 0.3,
		MutationSigma:    0.1,
		BlendAlpha:       0.5,
	}
}

// Validate rejects settings the engine cannot run with.
func (p Params) Validate() error {
	if p.Generations < 0 {
		return fmt.Errorf("generations must be >= 0, got %d", p.Generations)
	}
	if p.MinPopulation < 1 || p.MaxPopulation < p.MinPopulation {
		return fmt.Errorf("population bounds [%d, %d] invalid", p.MinPopulation, p.MaxPopulation)
	}
	if p.TournamentSize < 1 {
		return fmt.Errorf("tournament_size must be >= 1, got %d", p.TournamentSize)
	}
	for name, v := range map[string]float64{
		"crossover_prob":     p.CrossoverProb,
		"mutation_prob":      p.MutationProb,
		"gene_mutation_prob": p.GeneMutationProb,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0, 1], got %f", name, v)
		}
	}
	if p.MutationSigma < 0 || p.BlendAlpha < 0 {
		return fmt.Errorf("mutation_sigma and blend_alpha must be >= 0")
	}
	return nil
}

// PopulationSize returns min(max, max(min, 2n)).
func (p Params) PopulationSize(n int) int {
	return min(p.MaxPopulation, max(p.MinPopulation, 2*n))
}

// Tournament returns the tournament size for a population: the configured
// size, capped by the population and never below 1.
func (p Params) Tournament(population int) int {
	return max(1, min(p.TournamentSize, population))
}

func (p Params) newRNG() *rand.Rand {
	if p.Seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(p.Seed, p.Seed))
}
