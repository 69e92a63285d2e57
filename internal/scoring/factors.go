package scoring

// FactorResult captures one criterion's contribution to the total score.
type FactorResult struct {
	Name     string  `json:"name"`
	Raw      float64 `json:"raw"`
	Score    float64 `json:"score"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
	Reason   string  `json:"reason"`
}

// Explain breaks Score down per criterion. The Weighted fields sum to
// Score(f, w).
func Explain(m Metrics, f Features, w WeightSet) []FactorResult {
	raw := m.Vector()
	wv := w.Normalized().Vector()

	factors := make([]FactorResult, NumCriteria)
	for c := range factors {
		crit := Criterion(c)
		score := clamp(orient(crit, f[c]), 0, 1)
		reason := "higher is better"
		if crit.LowerIsBetter() {
			reason = "lower is better (inverted)"
		}
		factors[c] = FactorResult{
			Name:     crit.String(),
			Raw:      raw[c],
			Score:    score,
			Weight:   wv[c],
			Weighted: score * wv[c],
			Reason:   reason,
		}
	}
	return factors
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
