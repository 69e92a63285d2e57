package evolution

import "math/rand/v2"

// selectTournament picks k survivors, each the fittest of size contenders
// drawn with replacement. The first contender wins ties.
func selectTournament(pop Population, k, size int, rng *rand.Rand) Population {
	size = max(1, min(size, len(pop)))
	chosen := make(Population, 0, k)
	for range k {
		best := pop[rng.IntN(len(pop))]
		for j := 1; j < size; j++ {
			c := pop[rng.IntN(len(pop))]
			if c.Fitness > best.Fitness {
				best = c
			}
		}
		chosen = append(chosen, best)
	}
	return chosen
}

// shrinkTournament keeps the tournament strictly smaller than the offspring
// pool once it gets small, with a floor of one contender.
func shrinkTournament(size, offspring int) int {
	return max(1, min(size, offspring-1))
}
