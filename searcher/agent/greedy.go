package agent

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"

	"penguins/experiments/metrics"
	"penguins/game"
)

const DefaultGreed = 0.7

type greedy struct {
	greed float64
	rng   *rand.Rand
}

// NewGreedyAgent returns an agent that, with probability greed, only considers
// moves landing on the most valuable tiles, then keeps the move leaving its
// pieces the most points within reach.
func NewGreedyAgent(greed float64, rng *rand.Rand) Agent {
	return &greedy{greed: greed, rng: rng}
}

func (a *greedy) Name() string {
	return fmt.Sprintf("greedy(%.2f)", a.greed)
}

func (a *greedy) FindMove(state *game.State, player int, budget time.Duration) (game.Move, metrics.SearchMetric, error) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return game.Move{}, metrics.SearchMetric{}, ErrNoMoves
	}

	candidates := moves
	if a.rng.Float64() < a.greed {
		candidates = richest(state, moves)
	}

	var best game.Move
	bestPotential := 0
	for _, move := range candidates {
		next, err := state.Play(move)
		if err != nil {
			return game.Move{}, metrics.SearchMetric{}, err
		}
		if p := potential(next, player); p > bestPotential {
			best = move
			bestPotential = p
		}
	}

	if bestPotential == 0 {
		return moves[a.rng.Intn(len(moves))], metrics.SearchMetric{}, nil
	}
	return best, metrics.SearchMetric{}, nil
}

// richest keeps the moves whose destination is worth the most.
func richest(state *game.State, moves []game.Move) []game.Move {
	var best []game.Move
	bestValue := 0
	for _, move := range moves {
		value := state.Tiles[move.To].Value
		switch {
		case value > bestValue:
			best = []game.Move{move}
			bestValue = value
		case value == bestValue:
			best = append(best, move)
		}
	}
	return best
}

// potential sums the destination values of every move the player's pieces
// could make next.
func potential(state *game.State, player int) int {
	total := 0
	for _, move := range state.LegalMovesFrom(state.PieceCoords(player)) {
		total += state.Tiles[move.To].Value
	}
	return total
}
