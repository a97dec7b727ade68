package agent

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"penguins/experiments/metrics"
	"penguins/game"
	"penguins/searcher"
)

// searchState exposes a game state to the tree search. Turns skip players
// without moves, so a terminal search state is a finished game.
type searchState struct {
	state  *game.State
	reward game.Reward
	prune  bool
}

func (s searchState) Player() int {
	return s.state.Current
}

func (s searchState) LegalMoves() []game.Move {
	if s.prune {
		return s.state.SensibleMoves()
	}
	return s.state.LegalMoves()
}

func (s searchState) Play(move game.Move) searcher.State {
	next, err := s.state.Play(move)
	if err != nil {
		panic(fmt.Sprintf("search played an illegal move: %v", err))
	}
	next, _ = next.Rotate()
	return searchState{state: next, reward: s.reward, prune: s.prune}
}

func (s searchState) IsTerminal() bool {
	return s.state.IsTerminal()
}

func (s searchState) Reward(player int) float64 {
	return s.reward(s.state, player)
}

// Search configures a tree search agent.
type Search struct {
	Name        string
	Goroutines  int
	Episodes    int // Search for a fixed number of episodes instead of the budget
	Cutoff      int
	Reward      game.Reward
	Evaluate    game.Reward // Scores states at the cutoff
	Prune       bool        // Only search moves of pieces that still compete for space
	Temperature float64     // Sample the visit counts instead of playing the most visited move
}

type searchAgent struct {
	config Search
	rng    *rand.Rand
	choose func(policy map[game.Move]float64) game.Move
}

// NewEvaluationAgent returns a search agent playing the most visited move.
func NewEvaluationAgent(config Search, rng *rand.Rand) Agent {
	config = withDefaults(config)
	return &searchAgent{config: config, rng: rng, choose: findMax}
}

func withDefaults(config Search) Search {
	if config.Name == "" {
		config.Name = "mcts"
	}
	if config.Reward == nil {
		config.Reward = game.WinLoss
	}
	if config.Evaluate == nil {
		config.Evaluate = game.EvaluateTerritory
	}
	config.Goroutines = max(config.Goroutines, 1)
	return config
}

func (a *searchAgent) Name() string {
	return a.config.Name
}

func (a *searchAgent) FindMove(state *game.State, player int, budget time.Duration) (game.Move, metrics.SearchMetric, error) {
	if len(state.LegalMoves()) == 0 {
		return game.Move{}, metrics.SearchMetric{}, ErrNoMoves
	}

	evaluate := a.config.Evaluate
	mcts := searcher.NewMCTS(
		a.config.Goroutines,
		searcher.WithDuration(max(budget, time.Millisecond)),
		searcher.WithEpisodes(a.config.Episodes),
		searcher.WithCutoff(a.config.Cutoff),
		searcher.WithEvaluationFn(func(s searcher.State, player int) float64 {
			return evaluate(s.(searchState).state, player)
		}),
		searcher.WithRand(a.rng),
		searcher.WithMetrics(),
	)

	root := searchState{state: state, reward: a.config.Reward, prune: a.config.Prune}
	policy, metric := mcts.Simulate(root)
	if len(policy) == 0 {
		log.Warn().Str("agent", a.Name()).Msg("search explored no moves, playing at random")
		move, err := RandomMove(state, a.rng)
		return move, metric, err
	}
	return a.choose(policy), metric, nil
}

func findMax(policy map[game.Move]float64) game.Move {
	var maxMove game.Move
	maxVisit := -1.0
	for _, move := range sortedMoves(policy) {
		if visit := policy[move]; visit > maxVisit {
			maxVisit = visit
			maxMove = move
		}
	}
	return maxMove
}
