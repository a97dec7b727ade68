// Package hex implements cube coordinates for a flat-top hexagonal grid.
package hex

// Cube represents cube coordinates (q, r, s) with q+r+s=0.
type Cube struct {
	Q int
	R int
	S int
}

// Directions are the six unit vectors to neighboring cells, indexed 0-5.
var Directions = [6]Cube{
	{Q: 1, R: 0, S: -1},
	{Q: 1, R: -1, S: 0},
	{Q: 0, R: -1, S: 1},
	{Q: -1, R: 0, S: 1},
	{Q: -1, R: 1, S: 0},
	{Q: 0, R: 1, S: -1},
}

// New returns the cube coordinate for axial (q, r), deriving s.
func New(q, r int) Cube {
	return Cube{Q: q, R: r, S: -q - r}
}

// Valid reports whether c satisfies q+r+s=0.
func (c Cube) Valid() bool {
	return c.Q+c.R+c.S == 0
}

// Add returns c+o.
func (c Cube) Add(o Cube) Cube {
	return Cube{Q: c.Q + o.Q, R: c.R + o.R, S: c.S + o.S}
}

// Sub returns c-o.
func (c Cube) Sub(o Cube) Cube {
	return Cube{Q: c.Q - o.Q, R: c.R - o.R, S: c.S - o.S}
}

// Scale multiplies c by k.
func (c Cube) Scale(k int) Cube {
	return Cube{Q: c.Q * k, R: c.R * k, S: c.S * k}
}

// Neighbor returns the adjacent cell in direction dir (0-5).
func (c Cube) Neighbor(dir int) Cube {
	return c.Add(Directions[dir])
}

// Components returns (q, r, s) as an array so lines can be compared by axis.
func (c Cube) Components() [3]int {
	return [3]int{c.Q, c.R, c.S}
}

// Distance returns the number of steps between a and b.
func Distance(a, b Cube) int {
	d := a.Sub(b)
	return max(abs(d.Q), abs(d.R), abs(d.S))
}

// Inline reports whether b lies on one of the six straight lines from a, and
// if so the direction index and the number of steps from a to b.
func Inline(a, b Cube) (dir int, dist int, ok bool) {
	if a == b {
		return 0, 0, false
	}
	d := b.Sub(a)
	if d.Q != 0 && d.R != 0 && d.S != 0 {
		return 0, 0, false
	}
	dist = Distance(a, b)
	unit := Cube{Q: d.Q / dist, R: d.R / dist, S: d.S / dist}
	for i, direction := range Directions {
		if direction == unit {
			return i, dist, true
		}
	}
	return 0, 0, false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
