package evolution

import (
	"fmt"

	"github.com/MikeSquared-Agency/Ranker/internal/scoring"
)

// Mode selects what the search optimizes.
type Mode string

const (
	// ModeForward searches for the best candidate under fixed weights.
	ModeForward Mode = "forward"
	// ModeReverse searches for the weighting under which some candidate
	// scores highest, then ranks everything under it.
	ModeReverse Mode = "reverse"
)

// ParseMode accepts "forward" or "reverse".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeForward, ModeReverse:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Genome is the unit the search varies. Forward genomes use Index, reverse
// genomes use Weights.
type Genome struct {
	Mode    Mode
	Index   int
	Weights [scoring.NumCriteria]float64
}

// Individual is a genome with its evaluated fitness.
type Individual struct {
	Genome  Genome
	Fitness float64
}

// Population is an ordered set of individuals.
type Population []Individual

// Clone returns an independent copy. Genomes are plain values, so a slice
// copy is deep.
func (p Population) Clone() Population {
	out := make(Population, len(p))
	copy(out, p)
	return out
}

// Best returns the fittest individual, the first one on ties.
func (p Population) Best() (Individual, bool) {
	if len(p) == 0 {
		return Individual{}, false
	}
	best := p[0]
	for _, ind := range p[1:] {
		if ind.Fitness > best.Fitness {
			best = ind
		}
	}
	return best, true
}

// GenerationStats summarizes one generation's fitness distribution.
type GenerationStats struct {
	Generation int     `json:"generation"`
	Best       float64 `json:"best"`
	Worst      float64 `json:"worst"`
	Average    float64 `json:"average"`
}

func (p Population) stats(generation int) GenerationStats {
	s := GenerationStats{Generation: generation}
	if len(p) == 0 {
		return s
	}
	s.Best, s.Worst = p[0].Fitness, p[0].Fitness
	var sum float64
	for _, ind := range p {
		if ind.Fitness > s.Best {
			s.Best = ind.Fitness
		}
		if ind.Fitness < s.Worst {
			s.Worst = ind.Fitness
		}
		sum += ind.Fitness
	}
	s.Average = sum / float64(len(p))
	return s
}
