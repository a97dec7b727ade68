package searcher

import (
	"math"
	"sync"

	"golang.org/x/exp/rand"

	"penguins/game"
)

type decision struct {
	sync.RWMutex
	parent     *decision
	mover      int // Player whose move led to this node, -1 at the root
	unexplored []game.Move
	explored   []game.Move
	children   []*decision
	rewards    float64 // Accumulated from the mover's perspective
	visits     float64
}

func newDecision(parent *decision, mover int, state State) *decision {
	moves := state.LegalMoves()
	return &decision{
		parent:     parent,
		mover:      mover,
		unexplored: moves,
		explored:   make([]game.Move, 0, len(moves)),
		children:   make([]*decision, 0, len(moves)),
	}
}

// SelectOrExpand descends one level from d. It expands a random unexplored
// move when there is one, otherwise it selects the child with the highest UCT
// value. The returned child carries a virtual loss until it is backed up. A
// terminal node returns itself and the unchanged state.
func (d *decision) SelectOrExpand(state State, rng *rand.Rand) (*decision, State, bool) {
	d.Lock()
	defer d.Unlock()

	if len(d.unexplored) == 0 && len(d.explored) == 0 { // Terminal node
		return d, state, false
	}

	if len(d.unexplored) > 0 { // Expandable node
		child, childState := d.expand(state, rng)
		child.applyLoss()
		return child, childState, false
	}

	// Fully expanded node
	i := d.pickChild()
	child := d.children[i]
	child.applyLoss()
	return child, state.Play(d.explored[i]), true
}

func (d *decision) expand(state State, rng *rand.Rand) (*decision, State) {
	i := rng.Intn(len(d.unexplored))
	move := d.unexplored[i]
	last := len(d.unexplored) - 1
	d.unexplored[i] = d.unexplored[last]
	d.unexplored = d.unexplored[:last]

	mover := state.Player()
	childState := state.Play(move)
	child := newDecision(d, mover, childState)
	d.explored = append(d.explored, move)
	d.children = append(d.children, child)
	return child, childState
}

func (d *decision) pickChild() int {
	// Concurrent workers can reach a fully expanded root before its first backup
	normalizer := CSquared * math.Log(max(d.visits, 1))

	maxIndex := -1
	maxScore := math.Inf(-1)
	for i, child := range d.children {
		score := child.score(normalizer)
		if math.IsInf(score, 1) {
			return i
		}
		if score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	if maxIndex < 0 {
		panic("node has no children to select")
	}
	return maxIndex
}

func (d *decision) applyLoss() {
	d.Lock()
	defer d.Unlock()

	d.rewards += Loss
	d.visits++
}

func (d *decision) score(normalizer float64) float64 {
	d.RLock()
	defer d.RUnlock()

	return uct(d.rewards, d.visits, normalizer)
}

// Backup records a simulation outcome on d and returns its parent. rewarder
// maps a player to the reward they received.
func (d *decision) Backup(rewarder func(player int) float64) *decision {
	d.Lock()
	defer d.Unlock()

	if d.parent != nil { // Non-root node
		d.reverseLoss()
	}

	if d.mover >= 0 {
		d.rewards += rewarder(d.mover)
	}
	d.visits++

	return d.parent
}

func (d *decision) reverseLoss() {
	d.rewards -= Loss
	d.visits--
}

// Policy returns the visit count of every explored move.
func (d *decision) Policy() map[game.Move]float64 {
	d.RLock()
	defer d.RUnlock()

	policy := make(map[game.Move]float64, len(d.children))
	for i, child := range d.children {
		child.RLock()
		policy[d.explored[i]] = child.visits
		child.RUnlock()
	}
	return policy
}
