package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"penguins/experiments/metrics"
	"penguins/game"
	"penguins/searcher/agent"
)

const (
	DefaultBudget       = 5 * time.Second
	DefaultSafetyMargin = 100 * time.Millisecond
)

// Update describes a move the match applied.
type Update struct {
	Step        int
	Player      int
	Move        game.Move
	Substituted bool
	State       *game.State
}

type Option func(m *Match)

// Match drives a game between seats. A nil seat is played through Submit.
// A Match is not safe for concurrent use.
type Match struct {
	state     *game.State
	seats     []agent.Agent
	budget    time.Duration
	margin    time.Duration
	timeLimit bool
	rng       *rand.Rand
	observer  func(Update)

	phase    Phase
	pending  *game.Move
	starting int
	moves    []metrics.MoveMetric
}

func WithBudget(budget time.Duration) Option {
	return func(m *Match) {
		if budget > 0 {
			m.budget = budget
		}
	}
}

// WithSafetyMargin sets how much of the budget is withheld from agents to
// cover the controller's own overhead.
func WithSafetyMargin(margin time.Duration) Option {
	return func(m *Match) {
		if margin >= 0 {
			m.margin = margin
		}
	}
}

// WithTimeLimit toggles replacing late agent moves with random ones.
func WithTimeLimit(enabled bool) Option {
	return func(m *Match) {
		m.timeLimit = enabled
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(m *Match) {
		if rng != nil {
			m.rng = rng
		}
	}
}

// WithObserver registers a function called after every applied move.
func WithObserver(observer func(Update)) Option {
	return func(m *Match) {
		m.observer = observer
	}
}

// NewMatch starts a match from state with one seat per player.
func NewMatch(state *game.State, seats []agent.Agent, options ...Option) (*Match, error) {
	if len(seats) != len(state.Players) {
		return nil, fmt.Errorf("%w: %d seats for %d players", ErrSeatCount, len(seats), len(state.Players))
	}

	m := &Match{ // Default values
		state:     state,
		seats:     seats,
		budget:    DefaultBudget,
		margin:    DefaultSafetyMargin,
		timeLimit: true,
		starting:  state.Current,
	}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.rng = game.NewRand(0)
	}

	// The first player may already be boxed in
	m.rotate()
	return m, nil
}

func (m *Match) State() *game.State {
	return m.state.Clone()
}

func (m *Match) Phase() Phase {
	return m.phase
}

func (m *Match) Current() int {
	return m.state.Current
}

func (m *Match) LegalMoves() []game.Move {
	if m.phase == Terminal {
		return nil
	}
	return m.state.LegalMoves()
}

func (m *Match) LastMove() *game.LastMove {
	if m.state.Last == nil {
		return nil
	}
	last := *m.state.Last
	return &last
}

func (m *Match) Scores() []int {
	return m.state.Scores()
}

// Moves returns the metrics of every move played so far.
func (m *Match) Moves() []metrics.MoveMetric {
	return append([]metrics.MoveMetric(nil), m.moves...)
}

// Submit queues a move from the input layer for the player to move. It is
// applied by the next Step.
func (m *Match) Submit(move game.Move) error {
	if m.phase == Terminal {
		return ErrMatchOver
	}
	if m.seats[m.state.Current] != nil {
		return fmt.Errorf("%w: player %d", ErrNotYourTurn, m.state.Current)
	}
	if !m.state.IsLegal(move) {
		return fmt.Errorf("%w: %s by player %d", game.ErrIllegalMove, move, m.state.Current)
	}
	m.pending = &move
	return nil
}

// Step plays one turn: the pending move if there is one, otherwise the
// seat's agent is asked for a move.
func (m *Match) Step() error {
	if m.phase == Terminal {
		return ErrMatchOver
	}

	player := m.state.Current
	metric := metrics.MoveMetric{Step: len(m.moves) + 1, Player: player}
	var move game.Move
	if m.pending != nil {
		move = *m.pending
		m.pending = nil
	} else {
		seat := m.seats[player]
		if seat == nil {
			return ErrAwaitingInput
		}
		m.phase = AgentThinking
		move, metric = m.think(seat, metric)
	}

	m.phase = ApplyingMove
	next, err := m.state.Play(move)
	if err != nil {
		m.phase = AwaitingMove
		return fmt.Errorf("failed to apply move: %w", err)
	}
	m.state = next
	m.moves = append(m.moves, metric)
	log.Debug().Int("step", metric.Step).Int("player", player).Stringer("move", move).
		Dur("elapsed", metric.Elapsed).Msg("move applied")
	if m.observer != nil {
		m.observer(Update{Step: metric.Step, Player: player, Move: move, Substituted: metric.Substituted, State: m.state.Clone()})
	}

	m.rotate()
	return nil
}

// think asks the seat for a move on a private copy of the state and replaces
// late, failed or illegal answers with a random legal move.
func (m *Match) think(seat agent.Agent, metric metrics.MoveMetric) (game.Move, metrics.MoveMetric) {
	player := metric.Player
	start := time.Now()
	move, search, err := seat.FindMove(m.state.Clone(), player, max(m.budget-m.margin, 0))
	metric.Elapsed = time.Since(start)
	metric.SearchMetric = search
	metric.Overrun = metric.Elapsed > m.budget

	switch {
	case err != nil:
		log.Warn().Err(err).Str("agent", seat.Name()).Int("player", player).Msg("agent failed, playing a random move")
	case metric.Overrun && m.timeLimit:
		log.Warn().Str("agent", seat.Name()).Int("player", player).Dur("elapsed", metric.Elapsed).
			Dur("budget", m.budget).Msg("agent ran over its time budget, playing a random move")
	case !m.state.IsLegal(move):
		log.Warn().Str("agent", seat.Name()).Int("player", player).Stringer("move", move).
			Msg("agent chose an illegal move, playing a random move")
	default:
		if metric.Overrun {
			log.Info().Str("agent", seat.Name()).Int("player", player).Dur("elapsed", metric.Elapsed).
				Msg("accepting late move")
		}
		return move, metric
	}

	metric.Substituted = true
	move, err = agent.RandomMove(m.state, m.rng)
	if err != nil {
		// The match only asks players that can move
		panic(fmt.Sprintf("player %d has no legal moves: %v", player, err))
	}
	return move, metric
}

// rotate hands the turn to the next player who can move, or ends the match.
func (m *Match) rotate() {
	m.phase = Rotating
	next, ok := m.state.Rotate()
	if !ok {
		m.state = m.state.Finalize()
		m.phase = Terminal
		log.Info().Ints("scores", m.state.Scores()).Ints("winners", m.state.Winners()).Msg("match over")
		return
	}
	if next.Current != m.state.Current {
		log.Debug().Int("skipped", m.state.Current).Int("player", next.Current).Msg("player cannot move")
	}
	m.state = next
	m.phase = AwaitingMove
}

// Run steps the match to the end. Every seat must have an agent.
func (m *Match) Run() (metrics.GameMetric, []metrics.MoveMetric, error) {
	start := time.Now()
	for m.phase != Terminal {
		if err := m.Step(); err != nil {
			return metrics.GameMetric{}, m.Moves(), err
		}
	}
	end := time.Now()

	return metrics.GameMetric{
		StartingPlayer: m.starting,
		Winners:        m.state.Winners(),
		FinalScores:    m.state.Scores(),
		StartTime:      start,
		EndTime:        end,
		Duration:       end.Sub(start),
		TotalMoves:     len(m.moves),
	}, m.Moves(), nil
}
