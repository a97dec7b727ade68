package searcher

import (
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"penguins/game"
	"penguins/hex"
)

/**
Tests parallel MCTS (tree parallelization with virtual loss) on decision nodes
sequential:
- selection: fully expanded node -> max UCT child + loss, child state
- expansion: expandable node -> new random child + loss, child state, mover recorded
- terminal node -> same node, same state
- backup: reverse loss on non-root nodes, reward from the mover's perspective
concurrent: 3 race conditions
- shared expansion
- shared backup
- shared selection + backup
*/

type mockState struct {
	player  int
	players int
	moves   []game.Move
	played  []game.Move
}

func (s mockState) Player() int             { return s.player }
func (s mockState) LegalMoves() []game.Move { return s.moves }
func (s mockState) IsTerminal() bool        { return len(s.moves) == 0 }
func (s mockState) Reward(player int) float64 {
	return 0
}

func (s mockState) Play(move game.Move) State {
	next := s
	next.played = append(slices.Clone(s.played), move)
	if s.players > 0 {
		next.player = (s.player + 1) % s.players
	}
	return next
}

func mockMove(id int) game.Move {
	return game.Move{From: hex.New(id, 0), To: hex.New(id, 1)}
}

func TestDecisionSelectOrExpand(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	t.Run("selecting fully expanded node", func(t *testing.T) {
		maxMove := mockMove(1)
		maxChild := &decision{rewards: 1, visits: 1}
		otherChild := &decision{rewards: 0, visits: 1}
		node := &decision{
			unexplored: []game.Move{},
			explored:   []game.Move{mockMove(0), maxMove},
			children:   []*decision{otherChild, maxChild},
			rewards:    1,
			visits:     2,
		}
		state := mockState{}

		gotChild, gotState, gotSelected := node.SelectOrExpand(state, rng)

		require.Same(t, maxChild, gotChild, "Node should select child with max policy value")
		require.Equal(t, 1+Loss, gotChild.rewards, "Child should apply a temporary loss")
		require.Equal(t, 2.0, gotChild.visits, "Child should apply a temporary loss")
		require.Equal(t, []game.Move{maxMove}, gotState.(mockState).played, "State should update by the move to the max policy child")
		require.True(t, gotSelected, "Node should perform selection")
		require.Equal(t, 1.0, node.rewards, "Node stats should not change")
		require.Equal(t, 2.0, node.visits, "Node stats should not change")
	})

	t.Run("selecting fully expanded node prefers the less visited child on equal rewards", func(t *testing.T) {
		rareMove := mockMove(1)
		rareChild := &decision{rewards: 0, visits: 1}
		frequentChild := &decision{rewards: 0, visits: 5}
		node := &decision{
			explored: []game.Move{mockMove(0), rareMove},
			children: []*decision{frequentChild, rareChild},
			visits:   6,
		}

		gotChild, gotState, gotSelected := node.SelectOrExpand(mockState{}, rng)

		require.Same(t, rareChild, gotChild, "Node should explore the less visited child")
		require.Equal(t, []game.Move{rareMove}, gotState.(mockState).played)
		require.True(t, gotSelected)
	})

	t.Run("expanding node with an unexplored move", func(t *testing.T) {
		unexploredMove := mockMove(1)
		node := &decision{
			unexplored: []game.Move{unexploredMove},
			explored:   []game.Move{mockMove(0)},
			children:   []*decision{{rewards: 1, visits: 1}},
			visits:     1,
		}
		state := mockState{player: 1, players: 2, moves: []game.Move{}}

		gotChild, gotState, gotSelected := node.SelectOrExpand(state, rng)

		require.Equal(t, Loss, gotChild.rewards, "Child should apply a temporary loss")
		require.Equal(t, 1.0, gotChild.visits, "Child should apply a temporary loss")
		require.Equal(t, 1, gotChild.mover, "Child should record the player who moved into it")
		require.Same(t, node, gotChild.parent)
		require.Len(t, node.children, 2, "Node should add a new child")
		require.Empty(t, node.unexplored, "Node should mark the move as explored")
		require.Equal(t, []game.Move{mockMove(0), unexploredMove}, node.explored)
		require.Equal(t, []game.Move{unexploredMove}, gotState.(mockState).played, "State should update by the move to the unexplored child")
		require.Equal(t, 0, gotState.Player(), "Turn should pass to the next player")
		require.False(t, gotSelected, "Node should perform expansion")
	})

	t.Run("stagnating on terminal node", func(t *testing.T) {
		node := &decision{}
		state := mockState{}

		gotChild, gotState, gotSelected := node.SelectOrExpand(state, rng)

		require.Same(t, node, gotChild, "Should return the same node")
		require.Equal(t, mockState{}, gotState, "Should return the same state")
		require.False(t, gotSelected, "Should not select any child or expand")
	})
}

func TestDecisionBackup(t *testing.T) {
	rewarder := func(player int) float64 {
		if player == 0 {
			return Win
		}
		return Loss
	}

	t.Run("recording root node", func(t *testing.T) {
		node := &decision{mover: -1}

		got := node.Backup(rewarder)

		require.Nil(t, got, "Should return no parent")
		require.Equal(t, 0.0, node.rewards, "Root has no mover to reward")
		require.Equal(t, 1.0, node.visits, "Should add a visit")
	})

	t.Run("recording win", func(t *testing.T) {
		parent := &decision{}
		node := &decision{parent: parent, mover: 0, rewards: Loss, visits: 1}

		got := node.Backup(rewarder)

		require.Same(t, parent, got, "Should return the parent node")
		require.Equal(t, Win, node.rewards, "Should reverse virtual loss and add a win")
		require.Equal(t, 1.0, node.visits, "Should reverse virtual loss and add a visit")
	})

	t.Run("recording loss", func(t *testing.T) {
		parent := &decision{}
		node := &decision{parent: parent, mover: 1, rewards: Loss, visits: 1}

		got := node.Backup(rewarder)

		require.Same(t, parent, got, "Should return the parent node")
		require.Equal(t, Loss, node.rewards, "Should reverse virtual loss and add a loss")
		require.Equal(t, 1.0, node.visits, "Should reverse virtual loss and add a visit")
	})
}

func TestDecisionPolicy(t *testing.T) {
	node := &decision{
		explored: []game.Move{mockMove(0), mockMove(1)},
		children: []*decision{{visits: 3}, {visits: 7}},
	}

	require.Equal(t, map[game.Move]float64{mockMove(0): 3, mockMove(1): 7}, node.Policy())
}

func TestDecisionRaceConditions(t *testing.T) {
	t.Run("concurrent expansion", func(t *testing.T) {
		// Setup a node with 2 unexplored moves
		node := &decision{
			unexplored: []game.Move{mockMove(0), mockMove(1)},
		}

		var wg sync.WaitGroup
		type result struct {
			child    *decision
			state    mockState
			selected bool
		}
		var got [2]result

		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				// Each goroutine gets its own random source and state
				rng := rand.New(rand.NewSource(uint64(i + 1)))
				gotChild, gotState, gotSelected := node.SelectOrExpand(mockState{moves: []game.Move{}}, rng)
				got[i] = result{gotChild, gotState.(mockState), gotSelected}
			}(i)
		}
		wg.Wait()

		require.Len(t, node.children, 2, "Node should have two children")
		for i := 0; i < 2; i++ {
			require.Equal(t, Loss, got[i].child.rewards, "Child should apply a temporary loss")
			require.Equal(t, 1.0, got[i].child.visits, "Child should apply a temporary loss")
			require.False(t, got[i].selected, "Node should be expanded")
			require.Contains(t, []game.Move{mockMove(0), mockMove(1)}, got[i].state.played[0],
				"Node should expand with a legal move")
		}

		// Both goroutines should have expanded different moves
		require.NotEqual(t, got[0].state.played[0], got[1].state.played[0],
			"Node should expand with different moves")
	})

	t.Run("concurrent backup", func(t *testing.T) {
		// Setup a node with 2 virtual losses
		parent := &decision{}
		node := &decision{
			parent:  parent,
			mover:   0,
			rewards: Loss * 2,
			visits:  2,
		}

		var wg sync.WaitGroup
		parents := make([]*decision, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				parents[i] = node.Backup(func(int) float64 { return Win })
			}(i)
		}
		wg.Wait()

		require.Equal(t, []*decision{parent, parent}, parents, "Should return the parent node")
		require.Equal(t, Win*2, node.rewards, "Node should reverse virtual losses and add two wins")
		require.Equal(t, 2.0, node.visits, "Node should reverse virtual losses and add two visits")
	})

	t.Run("concurrent selection and backup", func(t *testing.T) {
		// Setup a node with a child and a virtual loss
		parent := &decision{}
		node := &decision{
			parent:  parent,
			mover:   0,
			rewards: Loss,
			visits:  3,
		}
		child := &decision{parent: node, rewards: 0, visits: 1}
		move := mockMove(0)
		node.explored = []game.Move{move}
		node.children = []*decision{child}

		var wg sync.WaitGroup
		wg.Add(2)

		var gotChild *decision
		var gotState State
		var gotSelected bool
		go func() {
			defer wg.Done()
			gotChild, gotState, gotSelected = node.SelectOrExpand(mockState{}, rand.New(rand.NewSource(1)))
		}()

		var gotParent *decision
		go func() {
			defer wg.Done()
			gotParent = node.Backup(func(int) float64 { return Win })
		}()

		wg.Wait()

		require.Same(t, child, gotChild, "Node should select the child")
		require.Equal(t, move, gotState.(mockState).played[0], "State should update by the move to the child")
		require.True(t, gotSelected, "Node should perform selection")
		require.Same(t, parent, gotParent, "Node should return its parent")

		require.Equal(t, Loss, child.rewards, "Child should apply a temporary loss")
		require.Equal(t, 2.0, child.visits, "Child should apply a temporary loss")
		require.Equal(t, Win, node.rewards, "Node should reverse virtual loss and add a win")
		require.Equal(t, 3.0, node.visits, "Node should reverse virtual loss and add a visit")
	})
}

func TestUCT(t *testing.T) {
	require.True(t, uct(0, 0, 1) > 1e300, "Unvisited children should be explored first")
	require.InDelta(t, 0.5+1.0, uct(1, 2, 2), 1e-9)
}
