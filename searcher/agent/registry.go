package agent

import (
	"errors"
	"fmt"
	"slices"

	"golang.org/x/exp/rand"

	"penguins/game"
)

var ErrUnknownKind = errors.New("unknown agent kind")

// Human seats have no agent: their moves come from the input layer.
const Human = "human"

// Kinds lists every agent kind New accepts.
var Kinds = []string{Human, "random", "greedy", "network", "mcts", "margin-mcts", "pruned-mcts", "sampling-mcts"}

type Options struct {
	Greed       float64
	Goroutines  int
	Episodes    int
	Cutoff      int
	Temperature float64
	Rand        *rand.Rand
}

func Known(kind string) bool {
	return slices.Contains(Kinds, kind)
}

// New builds the agent of the given kind. A human seat returns a nil agent.
func New(kind string, opts Options) (Agent, error) {
	rng := opts.Rand
	if rng == nil {
		rng = game.NewRand(0)
	}
	search := Search{
		Name:        kind,
		Goroutines:  opts.Goroutines,
		Episodes:    opts.Episodes,
		Cutoff:      opts.Cutoff,
		Temperature: opts.Temperature,
	}

	switch kind {
	case Human:
		return nil, nil
	case "random":
		return NewRandomAgent(rng), nil
	case "greedy":
		return NewGreedyAgent(opts.Greed, rng), nil
	case "network":
		return NewNetworkAgent(), nil
	case "mcts":
		return NewEvaluationAgent(search, rng), nil
	case "margin-mcts":
		search.Reward = game.Margin
		search.Evaluate = game.TerritoryMargin
		return NewEvaluationAgent(search, rng), nil
	case "pruned-mcts":
		search.Prune = true
		return NewEvaluationAgent(search, rng), nil
	case "sampling-mcts":
		return NewSamplingAgent(search, rng), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
