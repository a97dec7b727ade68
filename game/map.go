package game

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"

	"penguins/hex"
)

// FishBank holds how many tiles of value 1, 2 and 3 remain to be dealt.
type FishBank [3]int

// NewFishBank splits total cells so that a sixth are worth 3, a third are
// worth 2 and the remainder are worth 1.
func NewFishBank(total int) FishBank {
	threes := total / 6
	twos := total / 3
	return FishBank{total - twos - threes, twos, threes}
}

func (b *FishBank) Remaining() int {
	return b[0] + b[1] + b[2]
}

// Draw picks a uniform random value among those still in stock.
func (b *FishBank) Draw(rng *rand.Rand) int {
	if b.Remaining() == 0 {
		panic("fish bank exhausted")
	}
	value := rng.Intn(3)
	for b[value] == 0 {
		value = rng.Intn(3)
	}
	b[value]--
	return value + 1
}

// NewRand returns a random source for the given seed; seed 0 picks a
// time-based seed.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(seed))
}

// NewState generates a random board for the given number of players.
func NewState(players, cols, rows int, rng *rand.Rand) (*State, error) {
	perPlayer, err := PiecesPerPlayer(players)
	if err != nil {
		return nil, err
	}
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: %dx%d board", ErrLayout, cols, rows)
	}
	cells := hex.Region(cols, rows)
	if len(cells) < players*perPlayer {
		return nil, fmt.Errorf("%w: %d cells cannot hold %d pieces", ErrLayout, len(cells), players*perPlayer)
	}
	if rng == nil {
		rng = NewRand(0)
	}

	s := &State{
		Tiles:   make(map[hex.Cube]Tile, len(cells)),
		Players: make([]Player, players),
	}

	bank := NewFishBank(len(cells))
	for _, coord := range cells {
		s.Tiles[coord] = Tile{Coord: coord, Value: bank.Draw(rng), Occupant: NoPiece}
	}
	if bank.Remaining() != 0 {
		panic(fmt.Sprintf("fish bank not exhausted: %v left over", bank))
	}

	for p := range s.Players {
		s.Players[p] = Player{ID: p, Pieces: make([]Piece, 0, perPlayer)}
		for i := 0; i < perPlayer; i++ {
			target := cells[rng.Intn(len(cells))]
			for s.Tiles[target].Occupied() {
				target = cells[rng.Intn(len(cells))]
			}
			s.place(p, target)
		}
	}
	return s, nil
}

// NewStateFromLayout builds a scenario board from explicit tile values and
// piece positions, pieces[p] listing player p's pieces. Player 0 moves first.
// A player may hold fewer pieces than a generated game deals, never more, so
// that positions can isolate the pieces they are about.
func NewStateFromLayout(values map[hex.Cube]int, pieces [][]hex.Cube) (*State, error) {
	perPlayer, err := PiecesPerPlayer(len(pieces))
	if err != nil {
		return nil, err
	}
	for p, coords := range pieces {
		if len(coords) > perPlayer {
			return nil, fmt.Errorf("%w: player %d has %d pieces, at most %d with %d players",
				ErrLayout, p, len(coords), perPlayer, len(pieces))
		}
	}

	s := &State{
		Tiles:   make(map[hex.Cube]Tile, len(values)),
		Players: make([]Player, len(pieces)),
	}
	for coord, value := range values {
		s.Tiles[coord] = Tile{Coord: coord, Value: value, Occupant: NoPiece}
	}
	for p, coords := range pieces {
		s.Players[p] = Player{ID: p, Pieces: make([]Piece, 0, len(coords))}
		for _, coord := range coords {
			tile, ok := s.Tiles[coord]
			if !ok {
				return nil, fmt.Errorf("%w: piece of player %d off the board at %v", ErrLayout, p, coord)
			}
			if tile.Occupied() {
				return nil, fmt.Errorf("%w: two pieces on %v", ErrLayout, coord)
			}
			s.place(p, coord)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLayout, err)
	}
	return s, nil
}

func (s *State) place(player int, coord hex.Cube) {
	ref := PieceRef{Player: player, Index: len(s.Players[player].Pieces)}
	s.Players[player].Pieces = append(s.Players[player].Pieces, Piece{Owner: player, Coord: coord})
	tile := s.Tiles[coord]
	tile.Occupant = ref
	s.Tiles[coord] = tile
}
