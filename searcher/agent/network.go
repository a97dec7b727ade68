package agent

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"penguins/experiments/metrics"
	"penguins/game"
)

const (
	// nodeCost bounds the time in milliseconds to visit one search node.
	// BenchmarkNetworkSearch reports the cost on a full board as ns/node.
	nodeCost = 0.001
	// maxBranching bounds the depth table. Four pieces rarely reach it.
	maxBranching = 255
	unbounded    = math.MaxInt32
)

type networkAgent struct{}

// NewNetworkAgent returns an agent running a fixed-depth search over the
// connectivity network of the board. Each player in seat order picks the
// move maximising twice its own gains minus everyone's gains, and the depth
// is the deepest the budget allows when every ply has as many moves as the
// most mobile player.
func NewNetworkAgent() Agent {
	return networkAgent{}
}

func (a networkAgent) Name() string {
	return "network"
}

func (a networkAgent) FindMove(state *game.State, player int, budget time.Duration) (game.Move, metrics.SearchMetric, error) {
	start := time.Now()
	net := newNetwork(state)

	branching := net.branching()
	depth := depthTable(budget)[min(branching, maxBranching)]

	best, ok := net.best(player, depth)
	if !ok {
		return game.Move{}, metrics.SearchMetric{}, ErrNoMoves
	}

	metric := metrics.SearchMetric{
		Goroutines: 1,
		Duration:   time.Since(start),
		Cutoff:     depth,
		Nodes:      net.visits,
		Branching:  branching,
	}
	log.Debug().Int("player", player).Int("branching", branching).Int("depth", depth).
		Int("nodes", net.visits).Dur("duration", metric.Duration).Ints("gains", best.gains).
		Msg("network search complete")
	move := game.Move{From: best.origin.coord, To: best.dest.coord}
	return move, metric, nil
}

// depthTable maps a branching factor to the deepest search that visits at
// most budget/nodeCost nodes. Branching factors of 0 and 1 are never expensive.
func depthTable(budget time.Duration) []int {
	ms := float64(budget) / float64(time.Millisecond)
	depths := make([]int, maxBranching+1)
	depths[0], depths[1] = unbounded, unbounded
	for b := 2; b <= maxBranching; b++ {
		depths[b] = 1
		if ms > nodeCost {
			depths[b] = max(1, int(math.Floor(math.Log(ms/nodeCost)/math.Log(float64(b)))))
		}
	}
	return depths
}

type plan struct {
	piece  *piece
	origin *node
	dest   *node
	gains  []int // Points each player collects along the line of play
	score  int
}

// best searches depth plies starting with player and returns the move with
// the highest score for that player. It reports false when player is stuck.
func (net *network) best(player, depth int) (plan, bool) {
	var best plan
	found := false
	for _, p := range net.pieces[player] {
		origin := p.node
		for _, dest := range origin.neighbours() {
			net.makeMove(p, dest)
			gains := net.heuristic((player+1)%len(net.pieces), depth-1)
			net.unmakeMove(p, origin)

			gains[player] += dest.value
			score := 2*gains[player] - sum(gains)
			if !found || score > best.score {
				best = plan{piece: p, origin: origin, dest: dest, gains: gains, score: score}
				found = true
			}
		}
	}
	return best, found
}

// heuristic returns the gains of the line of play starting with player. The
// line ends at the depth limit or at a player without moves.
func (net *network) heuristic(player, depth int) []int {
	if depth > 0 {
		if next, ok := net.best(player, depth); ok {
			return next.gains
		}
	}
	return make([]int, len(net.pieces))
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
