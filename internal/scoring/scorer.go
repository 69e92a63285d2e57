package scoring

// Score computes a candidate's weighted desirability:
//
//	w0*(1-price) + w1*success + w2*(1-delivery) + w3*(1-denial) + w4*orders + w5*revenue
//
// Weights are renormalized before use, so callers may pass any WeightSet.
func Score(f Features, w WeightSet) float64 {
	wv := w.Normalized().Vector()
	var total float64
	for c := range f {
		total += wv[c] * orient(Criterion(c), f[c])
	}
	return total
}

// ScoreAll scores every feature vector under the same weights.
func ScoreAll(features []Features, w WeightSet) []float64 {
	wn := w.Normalized()
	scores := make([]float64, len(features))
	for i, f := range features {
		scores[i] = Score(f, wn)
	}
	return scores
}

// ArgMax returns the index of the highest score, the first one on ties,
// or -1 for an empty slice.
func ArgMax(scores []float64) int {
	best := -1
	for i, s := range scores {
		if best < 0 || s > scores[best] {
			best = i
		}
	}
	return best
}

// orient flips lower-is-better criteria so that 1 is always the best value.
func orient(c Criterion, v float64) float64 {
	if c.LowerIsBetter() {
		return 1.0 - v
	}
	return v
}
