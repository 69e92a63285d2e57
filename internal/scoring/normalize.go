package scoring

import "errors"

// ErrEmptyInput is returned when a ranking is requested for zero candidates.
var ErrEmptyInput = errors.New("no candidates to rank")

// Normalize min-max scales each criterion across the given set. Bounds are
// taken from the set itself, so the result is relative to this run only.
// A criterion on which every candidate agrees has its range treated as 1 and
// normalizes to 0 for all of them.
func Normalize(metrics []Metrics) ([]Features, error) {
	if len(metrics) == 0 {
		return nil, ErrEmptyInput
	}

	lo := metrics[0].Vector()
	hi := lo
	for _, m := range metrics[1:] {
		v := m.Vector()
		for c := range v {
			if v[c] < lo[c] {
				lo[c] = v[c]
			}
			if v[c] > hi[c] {
				hi[c] = v[c]
			}
		}
	}

	var span [NumCriteria]float64
	for c := range span {
		span[c] = hi[c] - lo[c]
		if span[c] == 0 {
			span[c] = 1
		}
	}

	out := make([]Features, len(metrics))
	for i, m := range metrics {
		v := m.Vector()
		for c := range v {
			out[i][c] = (v[c] - lo[c]) / span[c]
		}
	}
	return out, nil
}
