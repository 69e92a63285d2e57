package evolution

import (
	"fmt"
	"math/rand/v2"

	"github.com/MikeSquared-Agency/Ranker/internal/scoring"
)

// Factory creates and varies genomes for one candidate set.
type Factory struct {
	mode   Mode
	n      int
	params Params
}

// NewFactory returns a factory for n candidates.
func NewFactory(mode Mode, n int, params Params) (*Factory, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, fmt.Errorf("factory needs at least one candidate, got %d", n)
	}
	return &Factory{mode: mode, n: n, params: params}, nil
}

// Create draws a random genome: a uniform candidate index in forward mode,
// six uniform weights rescaled to sum to 1 in reverse mode.
func (f *Factory) Create(rng *rand.Rand) Genome {
	if f.mode == ModeForward {
		return Genome{Mode: ModeForward, Index: rng.IntN(f.n)}
	}
	var w [scoring.NumCriteria]float64
	for i := range w {
		w[i] = rng.Float64()
	}
	return Genome{Mode: ModeReverse, Weights: scoring.NormalizeVector(w)}
}

// Mutate varies g in place. Forward genomes get a fresh random index.
// Reverse genomes have each weight nudged by Gaussian noise with probability
// GeneMutationProb, clamped to [0,1] and renormalized.
func (f *Factory) Mutate(g *Genome, rng *rand.Rand) {
	if f.mode == ModeForward {
		g.Index = rng.IntN(f.n)
		return
	}
	for i := range g.Weights {
		if rng.Float64() < f.params.GeneMutationProb {
			g.Weights[i] = clamp(g.Weights[i]+rng.NormFloat64()*f.params.MutationSigma, 0, 1)
		}
	}
	g.Weights = scoring.NormalizeVector(g.Weights)
}

// Recombine crosses a and b in place: one-point crossover for forward
// genomes, blend crossover for reverse genomes. Blended weights are not
// renormalized here; evaluation does that.
func (f *Factory) Recombine(a, b *Genome, rng *rand.Rand) {
	if f.mode == ModeForward {
		ga, gb := []int{a.Index}, []int{b.Index}
		onePoint(ga, gb, rng)
		a.Index, b.Index = ga[0], gb[0]
		return
	}
	alpha := f.params.BlendAlpha
	for i := range a.Weights {
		gamma := (1+2*alpha)*rng.Float64() - alpha
		x1, x2 := a.Weights[i], b.Weights[i]
		a.Weights[i] = (1-gamma)*x1 + gamma*x2
		b.Weights[i] = gamma*x1 + (1-gamma)*x2
	}
}

// Resolve maps a forward genome to a valid candidate index. Indices outside
// [0, n) resolve to 0.
func (f *Factory) Resolve(g Genome) int {
	if g.Index < 0 || g.Index >= f.n {
		return 0
	}
	return g.Index
}

// onePoint swaps the tails of a and b after a random cut point. Genomes
// shorter than two genes have no cut point and pass through unchanged.
func onePoint(a, b []int, rng *rand.Rand) {
	size := min(len(a), len(b))
	if size < 2 {
		return
	}
	cut := 1 + rng.IntN(size-1)
	for i := cut; i < size; i++ {
		a[i], b[i] = b[i], a[i]
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
