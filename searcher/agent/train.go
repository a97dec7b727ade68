package agent

import (
	"math"

	"golang.org/x/exp/rand"

	"penguins/game"
)

// NewSamplingAgent returns a search agent that samples its move from the
// visit counts sharpened by the configured temperature (1 when unset). It
// plays less predictably than the evaluation agent.
func NewSamplingAgent(config Search, rng *rand.Rand) Agent {
	config = withDefaults(config)
	if config.Temperature <= 0 {
		config.Temperature = 1
	}
	a := &searchAgent{config: config, rng: rng}
	a.choose = func(policy map[game.Move]float64) game.Move {
		return sample(adjustTemperature(policy, config.Temperature), rng)
	}
	return a
}

func adjustTemperature(policy map[game.Move]float64, temperature float64) map[game.Move]float64 {
	// Compute temperature-adjusted move probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make(map[game.Move]float64, len(policy))
	for move, visit := range policy {
		prob := math.Pow(visit, exponent)
		sum += prob
		adjusted[move] = prob
	}
	if sum == 0 {
		return adjusted
	}
	// Normalize
	for move := range adjusted {
		adjusted[move] /= sum
	}
	return adjusted
}

func sample(policy map[game.Move]float64, rng *rand.Rand) game.Move {
	sampled := rng.Float64()
	cumulative := 0.0
	var lastMove game.Move
	for _, move := range sortedMoves(policy) {
		lastMove = move
		cumulative += policy[move]
		if sampled < cumulative {
			return move
		}
	}
	return lastMove // Fallback in case of rounding errors
}
