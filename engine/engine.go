package engine

import (
	"errors"

	"penguins/experiments/metrics"
)

var (
	ErrAwaitingInput = errors.New("awaiting a move from the input layer")
	ErrNotYourTurn   = errors.New("the player to move is not an input seat")
	ErrMatchOver     = errors.New("match is over")
	ErrSeatCount     = errors.New("number of seats does not match number of players")
)

type Engine interface {
	// Run plays the match to the end
	Run() (gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}

// Phase is where a match stands within a turn.
type Phase int

const (
	AwaitingMove Phase = iota
	AgentThinking
	ApplyingMove
	Rotating
	Terminal
)

func (p Phase) String() string {
	switch p {
	case AwaitingMove:
		return "awaiting move"
	case AgentThinking:
		return "agent thinking"
	case ApplyingMove:
		return "applying move"
	case Rotating:
		return "rotating"
	case Terminal:
		return "terminal"
	default:
		return "unknown"
	}
}
