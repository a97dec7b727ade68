package hex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirections(t *testing.T) {
	seen := map[Cube]bool{}
	for i, d := range Directions {
		require.True(t, d.Valid(), "direction %d should satisfy q+r+s=0", i)
		require.Equal(t, 1, Distance(Cube{}, d), "direction %d should be a unit step", i)
		require.Equal(t, Cube{}, d.Add(Directions[(i+3)%6]), "direction %d should cancel its opposite", i)
		seen[d] = true
	}
	require.Len(t, seen, 6, "directions should be distinct")
}

func TestNeighbor(t *testing.T) {
	c := New(2, -1)
	for i := range Directions {
		n := c.Neighbor(i)
		require.True(t, n.Valid())
		require.Equal(t, 1, Distance(c, n))
	}
	require.Equal(t, New(3, -1), c.Neighbor(0))
}

func TestInline(t *testing.T) {
	t.Run("straight line", func(t *testing.T) {
		a := New(0, 0)
		b := a.Add(Directions[4].Scale(3))

		dir, dist, ok := Inline(a, b)

		require.True(t, ok)
		require.Equal(t, 4, dir)
		require.Equal(t, 3, dist)
	})

	t.Run("off line", func(t *testing.T) {
		_, _, ok := Inline(New(0, 0), New(2, -1))
		require.False(t, ok)
	})

	t.Run("same cell", func(t *testing.T) {
		_, _, ok := Inline(New(1, 1), New(1, 1))
		require.False(t, ok)
	})
}

func TestOffsetRoundTrip(t *testing.T) {
	for _, parity := range []Parity{Odd, Even} {
		for col := -3; col < 8; col++ {
			for row := -3; row < 8; row++ {
				o := Offset{Col: col, Row: row}
				c := OffsetToCube(parity, o)
				require.True(t, c.Valid())
				require.Equal(t, o, CubeToOffset(parity, c))
			}
		}
	}
}

func TestRegion(t *testing.T) {
	tests := []struct {
		cols, rows, want int
	}{
		{cols: 7, rows: 17, want: 60},
		{cols: 7, rows: 16, want: 56},
		{cols: 5, rows: 5, want: 13},
		{cols: 4, rows: 3, want: 6},
		{cols: 1, rows: 1, want: 1},
	}
	for _, tt := range tests {
		cells := Region(tt.cols, tt.rows)
		require.Len(t, cells, tt.want)
		require.Equal(t, tt.want, RegionSize(tt.cols, tt.rows))

		unique := map[Cube]bool{}
		for _, c := range cells {
			require.True(t, c.Valid())
			unique[c] = true
		}
		require.Len(t, unique, tt.want, "cells should not overlap")
	}
}
