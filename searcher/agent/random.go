package agent

import (
	"time"

	"golang.org/x/exp/rand"

	"penguins/experiments/metrics"
	"penguins/game"
)

type random struct {
	rng *rand.Rand
}

// NewRandomAgent returns an agent playing uniform random legal moves.
func NewRandomAgent(rng *rand.Rand) Agent {
	return &random{rng: rng}
}

func (a *random) Name() string {
	return "random"
}

func (a *random) FindMove(state *game.State, player int, budget time.Duration) (game.Move, metrics.SearchMetric, error) {
	move, err := RandomMove(state, a.rng)
	return move, metrics.SearchMetric{}, err
}
