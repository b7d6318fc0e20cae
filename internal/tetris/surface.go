package tetris

// Heights returns the stack height of every column.
func (b *Board) Heights() [Width]int {
	var h [Width]int
	for j := range h {
		h[j] = b.ColumnHeight(j)
	}
	return h
}

// MaxHeight returns the tallest column height.
func (b *Board) MaxHeight() int {
	m := 0
	for j := 0; j < Width; j++ {
		if h := b.ColumnHeight(j); h > m {
			m = h
		}
	}
	return m
}

// Overhangs returns the empty cells that have an occupied cell directly above.
func (b *Board) Overhangs() []Cell {
	var cells []Cell
	for col := 0; col < Width; col++ {
		for row := Height - b.ColumnHeight(col) + 1; row < Height; row++ {
			if !b.Get(row, col) && b.Get(row-1, col) {
				cells = append(cells, Cell{Row: row, Col: col})
			}
		}
	}
	return cells
}

// Holes returns the overhangs a piece cannot tuck into with a single
// sideways step: both sides are closed, or one side is closed and the other
// side is itself covered one row up.
func (b *Board) Holes() []Cell {
	var holes []Cell
	for _, c := range b.Overhangs() {
		left := b.GetSigned(c.Row, c.Col-1)
		right := b.GetSigned(c.Row, c.Col+1)

		switch {
		case left && right:
		case left && b.GetSigned(c.Row-1, c.Col+1):
		case right && b.GetSigned(c.Row-1, c.Col-1):
		default:
			continue
		}
		holes = append(holes, c)
	}
	return holes
}

// Readiness describes how close the board is to a 4-line clear.
type Readiness struct {
	Depth  int // consecutive rows completed by filling the well, 0-4
	Column int // the well column
}

// TetrisReadiness finds the unique lowest column and counts how many rows
// would complete, bottom up, if that column were filled with up to four
// cells. It returns false when two or more columns share the lowest height.
func (b *Board) TetrisReadiness() (Readiness, bool) {
	heights := b.Heights()

	well := 0
	tie := false
	for j := 1; j < Width; j++ {
		switch {
		case heights[j] < heights[well]:
			well = j
			tie = false
		case heights[j] == heights[well]:
			tie = true
		}
	}
	if tie {
		return Readiness{}, false
	}

	bit := Row(1) << (Width - 1 - well)
	depth := 0
	for row := Height - 1 - heights[well]; row >= 0 && depth < 4; row-- {
		if !(b.rows[row] | bit).Full() {
			break
		}
		depth++
	}

	return Readiness{Depth: depth, Column: well}, true
}

// WellDepth returns how far a column sits below its lower neighbour.
// Walls count as full height.
func (b *Board) WellDepth(col int) int {
	left, right := Height, Height
	if col > 0 {
		left = b.ColumnHeight(col - 1)
	}
	if col < Width-1 {
		right = b.ColumnHeight(col + 1)
	}

	side := min(left, right)
	if d := side - b.ColumnHeight(col); d > 0 {
		return d
	}
	return 0
}

// surfaceTop returns the row of a column's highest occupied cell, or Height
// (the floor) for an empty column.
func (b *Board) surfaceTop(col int) int {
	return Height - b.ColumnHeight(col)
}
