package game

import "penguins/hex"

// Reachable flood fills the free tiles connected to the piece's tile. It
// returns the reachable unoccupied tiles, excluding the piece's own tile, and
// the other pieces bordering that region. Occupied tiles stop the fill.
func (s *State) Reachable(ref PieceRef) (tiles []hex.Cube, pieces []PieceRef) {
	start := s.Players[ref.Player].Pieces[ref.Index].Coord
	visited := map[hex.Cube]bool{start: true}
	touched := map[PieceRef]bool{}
	queue := []hex.Cube{start}

	for len(queue) > 0 {
		coord := queue[0]
		queue = queue[1:]
		for dir := range hex.Directions {
			neighbor := coord.Neighbor(dir)
			if visited[neighbor] {
				continue
			}
			tile, ok := s.Tiles[neighbor]
			if !ok {
				continue
			}
			if tile.Occupied() {
				if !touched[tile.Occupant] {
					touched[tile.Occupant] = true
					pieces = append(pieces, tile.Occupant)
				}
				continue
			}
			visited[neighbor] = true
			tiles = append(tiles, neighbor)
			queue = append(queue, neighbor)
		}
	}
	return tiles, pieces
}

// ClassifyPieces splits a player's pieces that still have room to move into
// those sharing their region with an opponent and those alone in it.
func (s *State) ClassifyPieces(player int) (contested, isolated []int) {
	for i := range s.Players[player].Pieces {
		tiles, pieces := s.Reachable(PieceRef{Player: player, Index: i})
		if len(tiles) == 0 {
			continue
		}
		if touchesOpponent(pieces, player) {
			contested = append(contested, i)
		} else {
			isolated = append(isolated, i)
		}
	}
	return contested, isolated
}

// SensibleMoves narrows the legal moves of the player to move to the pieces
// that still compete for space, falling back to pieces that can still move.
func (s *State) SensibleMoves() []Move {
	contested, isolated := s.ClassifyPieces(s.Current)
	focus := contested
	if len(focus) == 0 {
		focus = isolated
	}
	origins := make([]hex.Cube, len(focus))
	for i, index := range focus {
		origins[i] = s.Players[s.Current].Pieces[index].Coord
	}
	return s.LegalMovesFrom(origins)
}

func touchesOpponent(pieces []PieceRef, player int) bool {
	for _, ref := range pieces {
		if ref.Player != player {
			return true
		}
	}
	return false
}
