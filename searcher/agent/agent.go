package agent

import (
	"cmp"
	"errors"
	"slices"
	"time"

	"golang.org/x/exp/rand"

	"penguins/experiments/metrics"
	"penguins/game"
)

var ErrNoMoves = errors.New("no legal moves")

type Agent interface {
	Name() string
	// FindMove returns the move to play for player and performance metrics
	// (if collected) from the search. state is owned by the agent.
	FindMove(state *game.State, player int, budget time.Duration) (game.Move, metrics.SearchMetric, error)
}

// RandomMove picks a uniform random legal move of the player to move.
func RandomMove(state *game.State, rng *rand.Rand) (game.Move, error) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return game.Move{}, ErrNoMoves
	}
	return moves[rng.Intn(len(moves))], nil
}

// sortedMoves returns the moves of a policy in a stable order so that ties
// are broken the same way on every run.
func sortedMoves(policy map[game.Move]float64) []game.Move {
	moves := make([]game.Move, 0, len(policy))
	for move := range policy {
		moves = append(moves, move)
	}
	slices.SortFunc(moves, func(a, b game.Move) int {
		return cmp.Or(
			cmp.Compare(a.From.Q, b.From.Q),
			cmp.Compare(a.From.R, b.From.R),
			cmp.Compare(a.To.Q, b.To.Q),
			cmp.Compare(a.To.R, b.To.R),
		)
	})
	return moves
}
