package searcher

import (
	"sync"
	"time"

	"golang.org/x/exp/rand"

	"penguins/experiments/metrics"
	"penguins/game"
)

type Option func(mcts *MCTS)

type MCTS struct {
	goroutines int
	duration   time.Duration
	episodes   int
	cutoff     int
	evaluate   Evaluate
	rng        *rand.Rand
	root       *decision
	metrics    metrics.Collector
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

func WithCutoff(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.cutoff = depth
		}
	}
}

func WithEvaluationFn(evaluate Evaluate) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

// WithRand seeds the workers' random sources from rng.
func WithRand(rng *rand.Rand) Option {
	return func(m *MCTS) {
		if rng != nil {
			m.rng = rng
		}
	}
}

func NewMCTS(goroutines int, options ...Option) *MCTS {
	m := &MCTS{ // Default values
		goroutines: max(goroutines, 1),
		cutoff:     MaxCutoff,
		evaluate:   draw,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	if m.rng == nil {
		m.rng = game.NewRand(0)
	}
	return m
}

// Simulate searches from state and returns the visit count of each root move.
// The policy is empty when state is terminal.
func (m *MCTS) Simulate(state State) (map[game.Move]float64, metrics.SearchMetric) {
	m.root = newDecision(nil, -1, state)

	// Run simulations to collect statistics
	m.metrics.Start(m.goroutines, m.cutoff)
	rngs := make([]*rand.Rand, m.goroutines)
	for i := range rngs {
		rngs[i] = rand.New(rand.NewSource(m.rng.Uint64()))
	}
	if m.episodes > 0 {
		m.iterate(state, rngs)
	} else {
		m.countdown(state, rngs)
	}
	metric := m.metrics.Complete()

	// Output move policy and move finding metrics
	policy := m.root.Policy()
	return policy, metric
}

func (m *MCTS) iterate(state State, rngs []*rand.Rand) {
	task := make(chan any, m.episodes)
	for i := 0; i < m.episodes; i++ {
		task <- nil
	}
	close(task)

	var wg sync.WaitGroup
	for _, rng := range rngs {
		wg.Add(1)
		go func(rng *rand.Rand) {
			defer wg.Done()

			for range task {
				m.metrics.AddEpisode(m.simulate(state, rng))
			}
		}(rng)
	}

	wg.Wait()
}

func (m *MCTS) countdown(state State, rngs []*rand.Rand) {
	done := make(chan any)

	var wg sync.WaitGroup
	for _, rng := range rngs {
		wg.Add(1)
		go func(rng *rand.Rand) {
			defer wg.Done()

			for {
				select {
				case <-done:
					return
				default:
					m.metrics.AddEpisode(m.simulate(state, rng))
				}
			}
		}(rng)
	}

	<-time.After(m.duration)
	close(done)
	wg.Wait()
}

// simulate runs one episode and returns how many positions it played through
// below the tree.
func (m *MCTS) simulate(state State, rng *rand.Rand) int {
	newNode, newState := selectThenExpand(m.root, state, rng)
	leaf, plies, complete := rollout(newState, m.cutoff, rng)

	score := m.evaluate
	if complete {
		m.metrics.AddFullPlayout()
		score = func(state State, player int) float64 {
			return state.Reward(player)
		}
	}
	backup(newNode, memoize(leaf, score))
	return plies + 1
}

func selectThenExpand(root *decision, state State, rng *rand.Rand) (*decision, State) {
	parent := root
	child, state, selected := parent.SelectOrExpand(state, rng)
	for selected && (child != parent) {
		parent = child
		child, state, selected = parent.SelectOrExpand(state, rng)
	}
	return child, state
}

// rollout plays random moves until the game is over or cutoff moves were
// played. It returns the number of moves played and whether the game is over.
func rollout(state State, cutoff int, rng *rand.Rand) (State, int, bool) {
	depth := 0
	moves := state.LegalMoves()
	for len(moves) > 0 && (depth < cutoff) {
		move := moves[rng.Intn(len(moves))] // Random rollout policy
		state = state.Play(move)
		moves = state.LegalMoves()
		depth++
	}
	return state, depth, len(moves) == 0
}

// memoize scores the leaf at most once per player.
func memoize(leaf State, score Evaluate) func(player int) float64 {
	scores := map[int]float64{}
	return func(player int) float64 {
		if s, ok := scores[player]; ok {
			return s
		}
		s := score(leaf, player)
		scores[player] = s
		return s
	}
}

func backup(newNode *decision, rewarder func(int) float64) {
	node := newNode
	for node != nil {
		node = node.Backup(rewarder)
	}
}
