package hex

// Parity selects which columns of an offset grid are shifted.
type Parity int

const (
	Odd  Parity = -1 // odd columns are shoved down
	Even Parity = 1  // even columns are shoved down
)

// Offset is a (col, row) coordinate on a column-offset grid, used only while
// laying out a board.
type Offset struct {
	Col int
	Row int
}

// OffsetToCube converts a column-offset coordinate to cube coordinates.
func OffsetToCube(parity Parity, o Offset) Cube {
	q := o.Col
	r := o.Row - floorDiv(o.Col+int(parity)*(o.Col&1), 2)
	return New(q, r)
}

// CubeToOffset converts cube coordinates back to a column-offset coordinate.
func CubeToOffset(parity Parity, c Cube) Offset {
	return Offset{
		Col: c.Q,
		Row: c.R + floorDiv(c.Q+int(parity)*(c.Q&1), 2),
	}
}

// RegionSize returns the number of cells Region(cols, rows) generates.
func RegionSize(cols, rows int) int {
	return (rows/2)*cols + (rows%2)*((cols+1)/2)
}

// Region lays out the board outline: rows/2 full rows of cols cells on the
// odd-parity grid and, when rows is odd, a trailing half row holding the
// ceil(cols/2) even columns on the even-parity grid. Cells are returned
// column-major, so the order is stable for a given size.
func Region(cols, rows int) []Cube {
	cells := make([]Cube, 0, RegionSize(cols, rows))
	for col := 0; col < cols; col++ {
		for row := 0; row < rows/2; row++ {
			cells = append(cells, OffsetToCube(Odd, Offset{Col: col, Row: row}))
		}
	}
	if rows%2 == 1 {
		for col := 0; col < cols; col += 2 {
			cells = append(cells, OffsetToCube(Even, Offset{Col: col, Row: rows / 2}))
		}
	}
	return cells
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
