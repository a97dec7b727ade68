package metrics

import (
	"sync/atomic"
	"time"
)

// SearchMetric summarises how an agent spent one decision. Agents fill in the
// fields that apply to them and leave the rest zero.
type SearchMetric struct {
	Goroutines   int
	Duration     time.Duration
	Episodes     int // Tree search iterations
	Cutoff       int // Rollout cutoff of a tree search, search depth of the network agent
	FullPlayouts int // Rollouts that reached the end of the game
	Nodes        int // Positions the search played through
	Branching    int // Most moves any player had when the search started
}

type MoveMetric struct {
	Step        int
	Player      int
	Elapsed     time.Duration // Wall time the seat spent deciding
	Overrun     bool
	Substituted bool // A random move replaced the seat's choice
	SearchMetric
}

type GameMetric struct {
	StartingPlayer int
	Winners        []int
	FinalScores    []int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Collector counts the work of a concurrent tree search. All methods but
// Start and Complete may be called from several goroutines.
type Collector interface {
	Start(goroutines, cutoff int)
	AddEpisode(nodes int)
	AddFullPlayout()
	Complete() SearchMetric
}

type searchCollector struct {
	goroutines int
	cutoff     int
	started    time.Time
	episodes   atomic.Int64
	playouts   atomic.Int64
	nodes      atomic.Int64
}

func NewCollector() Collector {
	return &searchCollector{}
}

// Start resets the counters for a new search.
func (c *searchCollector) Start(goroutines, cutoff int) {
	c.goroutines, c.cutoff = goroutines, cutoff
	c.started = time.Now()
	c.episodes.Store(0)
	c.playouts.Store(0)
	c.nodes.Store(0)
}

// AddEpisode records one finished iteration that played through nodes positions.
func (c *searchCollector) AddEpisode(nodes int) {
	c.episodes.Add(1)
	c.nodes.Add(int64(nodes))
}

func (c *searchCollector) AddFullPlayout() {
	c.playouts.Add(1)
}

func (c *searchCollector) Complete() SearchMetric {
	return SearchMetric{
		Goroutines:   c.goroutines,
		Duration:     time.Since(c.started),
		Cutoff:       c.cutoff,
		Episodes:     int(c.episodes.Load()),
		FullPlayouts: int(c.playouts.Load()),
		Nodes:        int(c.nodes.Load()),
	}
}

// NewDummyCollector returns a Collector that records nothing.
func NewDummyCollector() Collector {
	return dummyCollector{}
}

type dummyCollector struct{}

func (dummyCollector) Start(int, int)         {}
func (dummyCollector) AddEpisode(int)         {}
func (dummyCollector) AddFullPlayout()        {}
func (dummyCollector) Complete() SearchMetric { return SearchMetric{} }
