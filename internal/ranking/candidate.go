package ranking

import "github.com/MikeSquared-Agency/Ranker/internal/scoring"

// Candidate is one entity competing in a ranking run: a supplier or an
// article/brand pair. Candidates are not modified once a run starts.
type Candidate struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Metrics scoring.Metrics `json:"metrics"`
}

// Entry is a ranked candidate.
type Entry struct {
	Rank          int                    `json:"rank"`
	Index         int                    `json:"index"`
	Candidate     Candidate              `json:"candidate"`
	Score         float64                `json:"fitness_score"`
	ParetoOptimal bool                   `json:"pareto_optimal"`
	Factors       []scoring.FactorResult `json:"factors,omitempty"`
}

func metricsOf(candidates []Candidate) []scoring.Metrics {
	out := make([]scoring.Metrics, len(candidates))
	for i, c := range candidates {
		out[i] = c.Metrics
	}
	return out
}
