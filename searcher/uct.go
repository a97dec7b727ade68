package searcher

import "math"

// uct is the UCB1 value of a child with the given statistics. c2LnN is
// CSquared times the log of the parent's visits.
func uct(rewards, visits, c2LnN float64) float64 {
	// Prioritize unexplored nodes
	if visits == 0 {
		return math.Inf(1)
	}

	return rewards/visits + math.Sqrt(c2LnN/visits)
}
