package evolution

import (
	"math"

	"github.com/MikeSquared-Agency/Ranker/internal/scoring"
)

// InvalidFitness is assigned to forward genomes pointing outside the
// candidate set so that selection weeds them out.
const InvalidFitness = -1000.0

// Evaluator scores genomes against one normalized candidate set.
type Evaluator struct {
	mode     Mode
	features []scoring.Features
	weights  scoring.WeightSet
}

// NewEvaluator binds a candidate set and the fixed forward-mode weights.
func NewEvaluator(mode Mode, features []scoring.Features, weights scoring.WeightSet) *Evaluator {
	return &Evaluator{mode: mode, features: features, weights: weights.Normalized()}
}

// Evaluate returns a genome's fitness. Forward mode scores the referenced
// candidate. Reverse mode turns the genome into a weight set and returns the
// best score any candidate reaches under it.
func (e *Evaluator) Evaluate(g Genome) float64 {
	if len(e.features) == 0 {
		return InvalidFitness
	}
	if e.mode == ModeForward {
		if g.Index < 0 || g.Index >= len(e.features) {
			return InvalidFitness
		}
		return scoring.Score(e.features[g.Index], e.weights)
	}

	w := scoring.WeightsFromVector(scoring.NormalizeVector(g.Weights))
	best := math.Inf(-1)
	for _, f := range e.features {
		if s := scoring.Score(f, w); s > best {
			best = s
		}
	}
	return best
}
