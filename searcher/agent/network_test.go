package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"penguins/experiments/metrics"
	"penguins/game"
	"penguins/hex"
)

type snapshot struct {
	used   map[hex.Cube]bool
	pieces [][]hex.Cube
}

func snapshotOf(net *network) snapshot {
	s := snapshot{used: map[hex.Cube]bool{}}
	for _, n := range net.nodes {
		s.used[n.coord] = n.used
	}
	for _, pieces := range net.pieces {
		var coords []hex.Cube
		for _, p := range pieces {
			coords = append(coords, p.node.coord)
		}
		s.pieces = append(s.pieces, coords)
	}
	return s
}

func TestNewNetwork(t *testing.T) {
	// q:  -1  0  1  2  3
	//      2  *  1  #  1    (# is the opponent)
	values := axis(-1, 2, 1, 1, 1, 1)
	s, err := game.NewStateFromLayout(values, [][]hex.Cube{{hex.New(0, 0)}, {hex.New(2, 0)}})
	require.NoError(t, err)

	net := newNetwork(s)
	require.Len(t, net.nodes, 5)

	var origin *node
	for _, n := range net.nodes {
		if n.coord == hex.New(0, 0) {
			origin = n
		}
		require.Equal(t, s.Tiles[n.coord].Occupied(), n.used)
	}
	require.NotNil(t, origin)

	var coords []hex.Cube
	for _, n := range origin.neighbours() {
		coords = append(coords, n.coord)
	}
	require.Equal(t, []hex.Cube{hex.New(1, 0), hex.New(-1, 0)}, coords,
		"lines should stop before the opponent")
	require.Equal(t, 2, net.branching(), "each player has two slides")
}

func TestNetworkMakeUnmake(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		s, err := game.NewState(3, 7, 17, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		net := newNetwork(s)
		before := snapshotOf(net)

		var p *piece
		for _, pieces := range net.pieces {
			for _, candidate := range pieces {
				if p == nil && len(candidate.node.neighbours()) > 0 {
					p = candidate
				}
			}
		}
		require.NotNil(t, p)
		origin := p.node
		dest := origin.neighbours()[0]
		net.makeMove(p, dest)
		require.True(t, dest.used)
		require.True(t, origin.used, "the departed node should stay unusable")
		require.NotContains(t, dest.neighbours(), origin)
		net.unmakeMove(p, origin)
		require.Equal(t, before, snapshotOf(net))

		visits := net.visits
		_, ok := net.best(p.player, 3)
		require.True(t, ok)
		require.Greater(t, net.visits, visits)
		require.Equal(t, before, snapshotOf(net), "searching should leave the network as it found it")
	}
}

func TestDepthTable(t *testing.T) {
	depths := depthTable(5 * time.Second)

	require.Len(t, depths, maxBranching+1)
	require.Equal(t, unbounded, depths[0])
	require.Equal(t, unbounded, depths[1])
	require.Equal(t, 22, depths[2])
	require.Equal(t, 14, depths[3])
	require.Equal(t, 4, depths[30])
	require.Equal(t, 2, depths[maxBranching])
	for b := 3; b <= maxBranching; b++ {
		require.LessOrEqual(t, depths[b], depths[b-1], "wider boards should not search deeper")
	}

	for _, budget := range []time.Duration{0, -time.Second, 500 * time.Nanosecond} {
		for _, depth := range depthTable(budget)[2:] {
			require.Equal(t, 1, depth)
		}
	}
}

func TestNetworkScoring(t *testing.T) {
	t.Run("collects the richest destination when the opponent is stuck", func(t *testing.T) {
		s := stuckOpponent(t, axis(-2, 1, 3, 1, 3, 2, 2), 1, hex.New(0, 0))

		move, metric, err := NewNetworkAgent().FindMove(s, 0, time.Second)

		require.NoError(t, err)
		require.Equal(t, game.Move{From: hex.New(0, 0), To: hex.New(1, 0)}, move)
		require.Positive(t, metric.Cutoff)
		require.Equal(t, 5, metric.Branching)
		require.Positive(t, metric.Nodes)
	})

	t.Run("denies the opponent the tile it needs", func(t *testing.T) {
		// q:   0  1  2  3
		//      *  1  3  #
		// Taking the 3 leaves the opponent nothing, while taking the 1
		// hands the opponent the 3.
		values := axis(0, 1, 1, 3, 1)
		s, err := game.NewStateFromLayout(values, [][]hex.Cube{{hex.New(0, 0)}, {hex.New(3, 0)}})
		require.NoError(t, err)
		net := newNetwork(s)

		best, ok := net.best(0, 2)

		require.True(t, ok)
		require.Equal(t, hex.New(2, 0), best.dest.coord)
		require.Equal(t, []int{3, 0}, best.gains)
		require.Equal(t, 3, best.score)
	})
}

func TestNetworkBudgetUse(t *testing.T) {
	if testing.Short() {
		t.Skip("plays searches against a real budget")
	}
	budget := 2 * time.Second
	rng := rand.New(rand.NewSource(7))
	s, err := game.NewState(2, 7, 17, rng)
	require.NoError(t, err)
	search, opponent := NewNetworkAgent(), NewRandomAgent(rng)

	var longest time.Duration
	for searches := 0; searches < 8; {
		next, ok := s.Rotate()
		if !ok {
			break
		}
		s = next

		var move game.Move
		if s.Current == 0 {
			start := time.Now()
			var metric metrics.SearchMetric
			move, metric, err = search.FindMove(s.Clone(), 0, budget)
			elapsed := time.Since(start)
			require.NoError(t, err)
			require.Less(t, elapsed, budget, "depth %d at branching %d", metric.Cutoff, metric.Branching)
			longest = max(longest, elapsed)
			searches++
		} else {
			move, _, err = opponent.FindMove(s.Clone(), s.Current, budget)
			require.NoError(t, err)
		}
		s, err = s.Play(move)
		require.NoError(t, err)
	}

	require.Greater(t, longest, budget/100, "the deepest search should use a real share of the budget")
}

func BenchmarkNetworkSearch(b *testing.B) {
	s, err := game.NewState(2, 7, 17, rand.New(rand.NewSource(1)))
	require.NoError(b, err)

	visits := 0
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		net := newNetwork(s)
		net.best(0, 3)
		visits += net.visits
	}
	b.ReportMetric(float64(b.Elapsed().Nanoseconds())/float64(visits), "ns/node")
}
