package game

import (
	"errors"
	"fmt"

	"penguins/hex"
)

var (
	ErrPlayerCount = errors.New("player count must be 2, 3 or 4")
	ErrIllegalMove = errors.New("illegal move")
	ErrLayout      = errors.New("invalid board layout")
)

// Move slides the piece standing on From along a straight line to To.
type Move struct {
	From hex.Cube
	To   hex.Cube
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d,%d)->(%d,%d,%d)", m.From.Q, m.From.R, m.From.S, m.To.Q, m.To.R, m.To.S)
}

// Reward evaluates a state to a score from the given player's perspective.
// Policies are not interchangeable: agents are tuned against a specific one.
type Reward func(s *State, player int) float64

// PiecesPerPlayer returns how many pieces each player starts with.
func PiecesPerPlayer(players int) (int, error) {
	switch players {
	case 2:
		return 4, nil
	case 3:
		return 3, nil
	case 4:
		return 2, nil
	default:
		return 0, fmt.Errorf("%w: got %d", ErrPlayerCount, players)
	}
}
