package scoring

// ComputeFrontier returns the indices of the Pareto-optimal feature vectors,
// in input order. A candidate is dominated if another candidate is at least as
// good on every criterion (lower raw value wins on price, delivery time and
// denial rate) and strictly better on at least one.
// O(n^2) dominance check, fine for typical candidate set sizes.
func ComputeFrontier(features []Features) []int {
	if len(features) == 0 {
		return nil
	}

	var frontier []int
	for i := range features {
		dominated := false
		for j := range features {
			if i == j {
				continue
			}
			if dominates(features[j], features[i]) {
				dominated = true
				break
			}
		}
		if !dominated {
			frontier = append(frontier, i)
		}
	}
	return frontier
}

// dominates returns true if a dominates b.
func dominates(a, b Features) bool {
	better := false
	for c := range a {
		av, bv := orient(Criterion(c), a[c]), orient(Criterion(c), b[c])
		if av < bv {
			return false
		}
		if av > bv {
			better = true
		}
	}
	return better
}
