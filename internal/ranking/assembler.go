package ranking

import (
	"sort"

	"github.com/MikeSquared-Agency/Ranker/internal/scoring"
)

// Assemble scores every candidate under w and orders them by score,
// descending. Equal scores keep their input order. Rank starts at 1.
func Assemble(candidates []Candidate, features []scoring.Features, w scoring.WeightSet, opts Options) []Entry {
	pareto := make(map[int]bool, len(candidates))
	if opts.Pareto {
		for _, i := range scoring.ComputeFrontier(features) {
			pareto[i] = true
		}
	}

	scores := scoring.ScoreAll(features, w)
	entries := make([]Entry, len(candidates))
	for i, c := range candidates {
		entries[i] = Entry{
			Index:         i,
			Candidate:     c,
			Score:         scores[i],
			ParetoOptimal: pareto[i],
		}
		if opts.Explain {
			entries[i].Factors = scoring.Explain(c.Metrics, features[i], w)
		}
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Score > entries[b].Score
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
