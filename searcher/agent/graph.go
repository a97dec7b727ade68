package agent

import (
	"penguins/game"
	"penguins/hex"
)

// node is a tile of the network. Its lines hold, per direction, the tiles a
// piece could slide to when the board was built, nearest first.
type node struct {
	coord hex.Cube
	value int
	lines [len(hex.Directions)][]*node
	used  bool // Occupied, or destroyed by a hypothetical move
}

type piece struct {
	player int
	node   *node
}

// network mirrors a state so that moves can be made and unmade in place
// without copying the board.
type network struct {
	nodes  []*node
	pieces [][]*piece
	visits int // Moves made since the network was built
}

func newNetwork(state *game.State) *network {
	byCoord := make(map[hex.Cube]*node, len(state.Tiles))
	nodes := make([]*node, 0, len(state.Tiles))
	for coord, tile := range state.Tiles {
		n := &node{coord: coord, value: tile.Value, used: tile.Occupied()}
		byCoord[coord] = n
		nodes = append(nodes, n)
	}

	for _, n := range nodes {
		for dir, step := range hex.Directions {
			for next := n.coord.Add(step); ; next = next.Add(step) {
				other, ok := byCoord[next]
				if !ok || other.used {
					break
				}
				n.lines[dir] = append(n.lines[dir], other)
			}
		}
	}

	pieces := make([][]*piece, len(state.Players))
	for p, player := range state.Players {
		for _, pc := range player.Pieces {
			pieces[p] = append(pieces[p], &piece{player: p, node: byCoord[pc.Coord]})
		}
	}

	return &network{nodes: nodes, pieces: pieces}
}

// neighbours returns the nodes reachable in one slide, stopping each line at
// the first used node.
func (n *node) neighbours() []*node {
	var out []*node
	for _, line := range n.lines {
		for _, other := range line {
			if other.used {
				break
			}
			out = append(out, other)
		}
	}
	return out
}

// makeMove slides p to dest. The departed node stays used.
func (net *network) makeMove(p *piece, dest *node) {
	net.visits++
	dest.used = true
	p.node = dest
}

func (net *network) unmakeMove(p *piece, origin *node) {
	p.node.used = false
	p.node = origin
}

// branching is the largest number of moves any player has.
func (net *network) branching() int {
	most := 0
	for _, pieces := range net.pieces {
		moves := 0
		for _, p := range pieces {
			moves += len(p.node.neighbours())
		}
		most = max(most, moves)
	}
	return most
}
