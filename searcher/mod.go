package searcher

import (
	"math"

	"penguins/game"
)

const CSquared = 2.0

const Win = 1.0
const Loss = -Win

// MaxCutoff lets rollouts run until the game is over.
const MaxCutoff = math.MaxInt

// State is the view of a game the search needs. Implementations must treat
// states as immutable: Play returns a new state.
type State interface {
	// Player returns the player to move
	Player() int
	LegalMoves() []game.Move
	Play(move game.Move) State
	IsTerminal() bool
	// Reward scores a terminal state from the player's perspective
	Reward(player int) float64
}

// Evaluate scores a non-terminal state from the player's perspective. It is
// used when a rollout is cut off before the game is over.
type Evaluate func(state State, player int) float64

func draw(State, int) float64 {
	return 0
}
