package game

import "penguins/hex"

// WinLoss scores +1 when the player's final score strictly beats every other
// player's and -1 otherwise. Ties count as losses.
func WinLoss(s *State, player int) float64 {
	scores := s.FinalScores()
	for p, score := range scores {
		if p != player && score >= scores[player] {
			return -1
		}
	}
	return 1
}

// Margin scores the smallest lead the player holds over any opponent.
func Margin(s *State, player int) float64 {
	scores := s.FinalScores()
	margin := 0
	first := true
	for p, score := range scores {
		if p == player {
			continue
		}
		if diff := scores[player] - score; first || diff < margin {
			margin = diff
			first = false
		}
	}
	return float64(margin)
}

// EvaluateTerritory estimates how favorable a non-terminal state is for the
// player as a score between -1 and 1: banked points plus the value of the
// regions the player's pieces hold alone, against the strongest opponent.
func EvaluateTerritory(s *State, player int) float64 {
	holdings := s.territory()
	best := 0.0
	for p, value := range holdings {
		if p != player {
			best = max(best, value)
		}
	}
	return normalize(holdings[player], best)
}

// TerritoryMargin is the cutoff counterpart of Margin: the smallest lead of
// the player's holdings over any opponent's.
func TerritoryMargin(s *State, player int) float64 {
	holdings := s.territory()
	margin := 0.0
	first := true
	for p, value := range holdings {
		if p == player {
			continue
		}
		if diff := holdings[player] - value; first || diff < margin {
			margin = diff
			first = false
		}
	}
	return margin
}

func (s *State) territory() []float64 {
	holdings := make([]float64, len(s.Players))
	for p, player := range s.Players {
		holdings[p] = float64(player.Score)
		counted := map[hex.Cube]bool{}
		for i, piece := range player.Pieces {
			holdings[p] += float64(s.Tiles[piece.Coord].Value)
			tiles, pieces := s.Reachable(PieceRef{Player: p, Index: i})
			if touchesOpponent(pieces, p) {
				continue
			}
			for _, coord := range tiles {
				if !counted[coord] {
					counted[coord] = true
					holdings[p] += float64(s.Tiles[coord].Value)
				}
			}
		}
	}
	return holdings
}

// normalize normalizes value relative to otherValue to a score between -1 and 1
func normalize(value float64, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0
	}
	return (value - otherValue) / total
}
