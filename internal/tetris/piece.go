package tetris

import (
	"fmt"
	"math/bits"
)

// PieceType is one of the seven tetromino shapes.
type PieceType uint8

const (
	PieceI PieceType = iota
	PieceO
	PieceJ
	PieceL
	PieceS
	PieceZ
	PieceT
)

// NumPieceTypes is the number of distinct shapes.
const NumPieceTypes = 7

// AllPieceTypes lists every shape in a fixed order.
var AllPieceTypes = [NumPieceTypes]PieceType{PieceI, PieceO, PieceJ, PieceL, PieceS, PieceZ, PieceT}

// String returns the single-letter name of the shape.
func (t PieceType) String() string {
	if int(t) < len(pieceNames) {
		return pieceNames[t]
	}
	return "?"
}

var pieceNames = [NumPieceTypes]string{"I", "O", "J", "L", "S", "Z", "T"}

// ParsePieceType converts a single-letter name to a PieceType.
func ParsePieceType(s string) (PieceType, error) {
	for i, name := range pieceNames {
		if name == s {
			return PieceType(i), nil
		}
	}
	return 0, fmt.Errorf("tetris: unknown piece type %q", s)
}

// Grid is a 4x4 cell layout. Bit 15 is the top-left cell, bit 0 the
// bottom-right; each nibble from the top is one row.
type Grid uint16

// at reports whether the grid cell at (row, col) is set.
func (g Grid) at(row, col int) bool {
	return g&(1<<(15-(4*row+col))) != 0
}

// rotationTable holds the clockwise rotation sequence for each shape.
// Shapes with fewer distinct orientations repeat entries.
var rotationTable = [NumPieceTypes][4]Grid{
	PieceI: {
		0b0000_0000_1111_0000,
		0b0010_0010_0010_0010,
		0b0000_0000_1111_0000,
		0b0010_0010_0010_0010,
	},
	PieceO: {
		0b0000_0110_0110_0000,
		0b0000_0110_0110_0000,
		0b0000_0110_0110_0000,
		0b0000_0110_0110_0000,
	},
	PieceJ: {
		0b0000_1110_0010_0000,
		0b0100_0100_1100_0000,
		0b1000_1110_0000_0000,
		0b0110_0100_0100_0000,
	},
	PieceL: {
		0b0000_1110_1000_0000,
		0b1100_0100_0100_0000,
		0b0010_1110_0000_0000,
		0b0100_0100_0110_0000,
	},
	PieceS: {
		0b0000_0110_1100_0000,
		0b0100_0110_0010_0000,
		0b0000_0110_1100_0000,
		0b0100_0110_0010_0000,
	},
	PieceZ: {
		0b0000_1100_0110_0000,
		0b0010_0110_0100_0000,
		0b0000_1100_0110_0000,
		0b0010_0110_0100_0000,
	},
	PieceT: {
		0b0000_1110_0100_0000,
		0b0100_1100_0100_0000,
		0b0100_1110_0000_0000,
		0b0100_0110_0100_0000,
	},
}

// Grids returns the rotation table of the shape.
func (t PieceType) Grids() [4]Grid {
	return rotationTable[t]
}

// DistinctGrids returns the rotation grids without repeats, in table order.
func (t PieceType) DistinctGrids() []Grid {
	grids := make([]Grid, 0, 4)
	for _, g := range rotationTable[t] {
		seen := false
		for _, h := range grids {
			if g == h {
				seen = true
				break
			}
		}
		if !seen {
			grids = append(grids, g)
		}
	}
	return grids
}

// RotateDir is a rotation direction.
type RotateDir int

const (
	Clockwise RotateDir = iota
	CounterClockwise
)

// Cell is a (row, col) board coordinate. Rows grow downwards.
type Cell struct {
	Row, Col int
}

// Piece is a shape in a given orientation anchored at (Row, Col), the
// board position of its grid's top-left corner. It is a comparable value,
// so two pieces covering the same cells in the same orientation are equal.
type Piece struct {
	Type PieceType
	Grid Grid
	Row  int
	Col  int
}

// NewPiece returns a piece of type t in its first orientation.
func NewPiece(t PieceType, row, col int) Piece {
	return Piece{Type: t, Grid: rotationTable[t][0], Row: row, Col: col}
}

// Rotate returns the piece turned one step in dir. The new grid is looked up
// in the rotation table rather than computed.
func (p Piece) Rotate(dir RotateDir) Piece {
	offset := 1
	if dir == CounterClockwise {
		offset = 3
	}

	grids := rotationTable[p.Type]
	p.Grid = grids[(gridIndex(grids, p.Grid)+offset)%4]
	return p
}

// Shift returns the piece moved dc columns to the right.
func (p Piece) Shift(dc int) Piece {
	p.Col += dc
	return p
}

// Translate returns the piece moved by (dr, dc).
func (p Piece) Translate(dr, dc int) Piece {
	p.Row += dr
	p.Col += dc
	return p
}

func gridIndex(grids [4]Grid, g Grid) int {
	for i, h := range grids {
		if h == g {
			return i
		}
	}
	panic(fmt.Sprintf("tetris: grid %016b not in rotation table", uint16(g)))
}

// gridCells decodes a grid into its four cells relative to the grid corner.
func gridCells(g Grid) [4]Cell {
	if n := bits.OnesCount16(uint16(g)); n != 4 {
		panic(fmt.Sprintf("tetris: grid %016b has %d cells, want 4", uint16(g), n))
	}

	var res [4]Cell
	k := 0
	for i := 0; i < 16; i++ {
		if g.at(i/4, i%4) {
			res[k] = Cell{Row: i / 4, Col: i % 4}
			k++
		}
	}
	return res
}

// Cells returns the four absolute board cells covered by the piece,
// top-to-bottom then left-to-right.
func (p Piece) Cells() [4]Cell {
	cells := gridCells(p.Grid)
	for i := range cells {
		cells[i].Row += p.Row
		cells[i].Col += p.Col
	}
	return cells
}

func (p Piece) String() string {
	return fmt.Sprintf("%s@%016b(%d,%d)", p.Type, uint16(p.Grid), p.Row, p.Col)
}
