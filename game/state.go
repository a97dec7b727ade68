package game

import (
	"fmt"

	"penguins/hex"
)

// PieceRef identifies a piece by its owner and its index in the owner's piece list.
type PieceRef struct {
	Player int
	Index  int
}

// NoPiece marks an unoccupied tile.
var NoPiece = PieceRef{Player: -1, Index: -1}

// Tile is an ice floe worth Value points. Tiles are deleted from the board
// once their occupant leaves.
type Tile struct {
	Coord    hex.Cube
	Value    int
	Occupant PieceRef
}

func (t Tile) Occupied() bool {
	return t.Occupant != NoPiece
}

// Piece records where a player's piece stands.
type Piece struct {
	Owner int
	Coord hex.Cube
}

type Player struct {
	ID     int
	Score  int
	Pieces []Piece
}

// LastMove is the most recently applied move and who made it.
type LastMove struct {
	Player int
	Move   Move
}

// State is an immutable snapshot of a match: every transition returns a new
// State and leaves the receiver untouched.
type State struct {
	Tiles     map[hex.Cube]Tile
	Players   []Player
	Current   int
	Last      *LastMove
	Finalized bool // scores already include the tiles under surviving pieces
}

// Clone returns a deep copy that shares no memory with s.
func (s *State) Clone() *State {
	tiles := make(map[hex.Cube]Tile, len(s.Tiles))
	for coord, tile := range s.Tiles {
		tiles[coord] = tile
	}

	players := make([]Player, len(s.Players))
	for i, p := range s.Players {
		pieces := make([]Piece, len(p.Pieces))
		copy(pieces, p.Pieces)
		players[i] = Player{ID: p.ID, Score: p.Score, Pieces: pieces}
	}

	var last *LastMove
	if s.Last != nil {
		l := *s.Last
		last = &l
	}

	return &State{
		Tiles:     tiles,
		Players:   players,
		Current:   s.Current,
		Last:      last,
		Finalized: s.Finalized,
	}
}

// Player returns the index of the player to move.
func (s *State) Player() int {
	return s.Current
}

// Scores returns each player's accumulated score.
func (s *State) Scores() []int {
	scores := make([]int, len(s.Players))
	for i, p := range s.Players {
		scores[i] = p.Score
	}
	return scores
}

// PieceCoords returns the coordinates of the given player's pieces.
func (s *State) PieceCoords(player int) []hex.Cube {
	pieces := s.Players[player].Pieces
	coords := make([]hex.Cube, len(pieces))
	for i, piece := range pieces {
		coords[i] = piece.Coord
	}
	return coords
}

// LegalMoves returns every slide available to the player to move.
func (s *State) LegalMoves() []Move {
	return s.LegalMovesFrom(s.PieceCoords(s.Current))
}

// LegalMovesFrom returns every slide starting at one of the origins. A piece
// may stop on any tile of an unobstructed straight line; the line ends at the
// first occupied tile or missing cell.
func (s *State) LegalMovesFrom(origins []hex.Cube) []Move {
	var moves []Move
	for _, origin := range origins {
		for _, direction := range hex.Directions {
			target := origin.Add(direction)
			for {
				tile, ok := s.Tiles[target]
				if !ok || tile.Occupied() {
					break
				}
				moves = append(moves, Move{From: origin, To: target})
				target = target.Add(direction)
			}
		}
	}
	return moves
}

// IsLegal reports whether m is in the legal move set of the player to move.
func (s *State) IsLegal(m Move) bool {
	origin, ok := s.Tiles[m.From]
	if !ok || origin.Occupant.Player != s.Current {
		return false
	}
	for _, legal := range s.LegalMovesFrom([]hex.Cube{m.From}) {
		if legal == m {
			return true
		}
	}
	return false
}

// Play applies a legal move for the player to move and returns the resulting
// state. The mover is credited with the value of the tile it leaves, which is
// then removed from the board.
func (s *State) Play(m Move) (*State, error) {
	if !s.IsLegal(m) {
		return nil, fmt.Errorf("%w: %s by player %d", ErrIllegalMove, m, s.Current)
	}

	next := s.Clone()
	origin := next.Tiles[m.From]
	ref := origin.Occupant

	mover := &next.Players[ref.Player]
	mover.Score += origin.Value
	mover.Pieces[ref.Index].Coord = m.To

	destination := next.Tiles[m.To]
	destination.Occupant = ref
	next.Tiles[m.To] = destination
	delete(next.Tiles, m.From)

	next.Last = &LastMove{Player: ref.Player, Move: m}
	next.Current = (next.Current + 1) % len(next.Players)
	return next, nil
}

// canMove reports whether any of the player's pieces has a free neighbor.
func (s *State) canMove(player int) bool {
	for _, piece := range s.Players[player].Pieces {
		for dir := range hex.Directions {
			if tile, ok := s.Tiles[piece.Coord.Neighbor(dir)]; ok && !tile.Occupied() {
				return true
			}
		}
	}
	return false
}

// IsTerminal reports whether the player to move has no legal move. The match
// may still continue with another player.
func (s *State) IsTerminal() bool {
	return !s.canMove(s.Current)
}

// IsOver reports whether no player has a legal move.
func (s *State) IsOver() bool {
	for p := range s.Players {
		if s.canMove(p) {
			return false
		}
	}
	return true
}

// Rotate hands the turn to the first player, starting with the player to
// move, who has a legal move. It returns false when a full cycle finds nobody.
func (s *State) Rotate() (*State, bool) {
	n := len(s.Players)
	for i := 0; i < n; i++ {
		candidate := (s.Current + i) % n
		if !s.canMove(candidate) {
			continue
		}
		if candidate == s.Current {
			return s, true
		}
		next := s.Clone()
		next.Current = candidate
		return next, true
	}
	return s, false
}

// FinalScores returns each player's score plus the value of the tiles their
// pieces still stand on.
func (s *State) FinalScores() []int {
	scores := s.Scores()
	if s.Finalized {
		return scores
	}
	for i, p := range s.Players {
		for _, piece := range p.Pieces {
			scores[i] += s.Tiles[piece.Coord].Value
		}
	}
	return scores
}

// Finalize returns a snapshot whose scores are the final scores.
func (s *State) Finalize() *State {
	if s.Finalized {
		return s
	}
	next := s.Clone()
	for i, score := range s.FinalScores() {
		next.Players[i].Score = score
	}
	next.Finalized = true
	return next
}

// Winners returns the players sharing the highest final score.
func (s *State) Winners() []int {
	scores := s.FinalScores()
	best := scores[0]
	for _, score := range scores[1:] {
		best = max(best, score)
	}
	var winners []int
	for p, score := range scores {
		if score == best {
			winners = append(winners, p)
		}
	}
	return winners
}

// Validate checks coordinate validity and that tile occupants and piece
// records reference each other.
func (s *State) Validate() error {
	for coord, tile := range s.Tiles {
		if !coord.Valid() || tile.Coord != coord {
			return fmt.Errorf("tile at %v has invalid coordinate %v", coord, tile.Coord)
		}
		if tile.Value < 1 || tile.Value > 3 {
			return fmt.Errorf("tile at %v has value %d", coord, tile.Value)
		}
		if !tile.Occupied() {
			continue
		}
		ref := tile.Occupant
		if ref.Player < 0 || ref.Player >= len(s.Players) || ref.Index < 0 || ref.Index >= len(s.Players[ref.Player].Pieces) {
			return fmt.Errorf("tile at %v references unknown piece %+v", coord, ref)
		}
		if s.Players[ref.Player].Pieces[ref.Index].Coord != coord {
			return fmt.Errorf("piece %+v does not stand on its tile %v", ref, coord)
		}
	}

	for p, player := range s.Players {
		if player.ID != p {
			return fmt.Errorf("player %d has id %d", p, player.ID)
		}
		for i, piece := range player.Pieces {
			if piece.Owner != p {
				return fmt.Errorf("piece %d of player %d is owned by %d", i, p, piece.Owner)
			}
			tile, ok := s.Tiles[piece.Coord]
			if !ok {
				return fmt.Errorf("piece %d of player %d stands on missing tile %v", i, p, piece.Coord)
			}
			if tile.Occupant != (PieceRef{Player: p, Index: i}) {
				return fmt.Errorf("tile %v does not reference piece %d of player %d", piece.Coord, i, p)
			}
		}
	}
	return nil
}
