// Package tetris provides the 10x20 bit board, piece geometry, placement
// search and surface analysis used by the stacking bot. Boards are values;
// assigning one copies it.
package tetris

import (
	"fmt"
	"math/bits"
	"strings"
)

// Board dimensions.
const (
	Width  = 10
	Height = 20
)

// DefaultLinesClearedMax is the line target a game is played to.
const DefaultLinesClearedMax = 130

// Row holds the occupied columns of one board row.
// Column j is stored at bit 9-j so the leftmost column is the highest bit.
type Row uint16

const fullRow Row = 1<<Width - 1

// Full reports whether all 10 columns are occupied.
func (r Row) Full() bool {
	return r == fullRow
}

func (r Row) get(col int) bool {
	return r&(1<<(Width-1-col)) != 0
}

// Column holds the occupied rows of one board column.
// Row i is stored at bit 19-i so the topmost occupied cell is the highest set bit.
type Column uint32

// Height returns the stack height of the column.
func (c Column) Height() int {
	return bits.Len32(uint32(c))
}

// removeRow drops row i, shifting every row above it down by one.
// Bits below the removed row are left untouched.
func (c Column) removeRow(i int) Column {
	keep := Column(1)<<(Height-1-i) - 1
	return (c>>1)&^keep | c&keep
}

// lineScores is indexed by the number of rows cleared in one pass.
var lineScores = [5]int{0, 40, 100, 300, 1200}

// Board is a 20x10 grid stored twice: once as row masks and once as column
// masks. Both views are updated together by flip, which is the only place
// cells change.
type Board struct {
	rows [Height]Row
	cols [Width]Column

	linesCleared    int
	linesClearedMax int
	finished        bool
	score           int
	tetrises        int
}

// NewBoard creates an empty board that finishes after linesClearedMax lines.
func NewBoard(linesClearedMax int) Board {
	return Board{linesClearedMax: linesClearedMax}
}

// FromCompact parses a 200-character string of '0'/'1' in row-major order
// (row 0 is the top row).
func FromCompact(s string, linesClearedMax int) (Board, error) {
	b := NewBoard(linesClearedMax)
	if len(s) != Width*Height {
		return b, fmt.Errorf("tetris: compact board must have %d cells, got %d", Width*Height, len(s))
	}

	for i := 0; i < Height; i++ {
		for j := 0; j < Width; j++ {
			switch s[i*Width+j] {
			case '0':
			case '1':
				b.flip(i, j)
			default:
				return NewBoard(linesClearedMax), fmt.Errorf("tetris: invalid cell %q at row %d col %d", s[i*Width+j], i, j)
			}
		}
	}
	return b, nil
}

// MustFromCompact is FromCompact for fixtures; it panics on malformed input.
func MustFromCompact(s string, linesClearedMax int) Board {
	b, err := FromCompact(s, linesClearedMax)
	if err != nil {
		panic(err)
	}
	return b
}

// FromRows builds a board from up to 20 row strings aligned to the bottom
// of the board. Convenient for fixtures that only care about the stack.
func FromRows(linesClearedMax int, rows ...string) (Board, error) {
	if len(rows) > Height {
		return NewBoard(linesClearedMax), fmt.Errorf("tetris: %d rows exceed board height", len(rows))
	}
	var sb strings.Builder
	for i := 0; i < Height-len(rows); i++ {
		sb.WriteString(strings.Repeat("0", Width))
	}
	for _, r := range rows {
		sb.WriteString(r)
	}
	return FromCompact(sb.String(), linesClearedMax)
}

// CompactString encodes the grid as 200 '0'/'1' characters, top row first.
func (b *Board) CompactString() string {
	var sb strings.Builder
	sb.Grow(Width * Height)
	for i := 0; i < Height; i++ {
		for j := 0; j < Width; j++ {
			if b.Get(i, j) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
	}
	return sb.String()
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() Board {
	return *b
}

// Equal reports whether two boards have the same occupied cells.
func (b *Board) Equal(other *Board) bool {
	return b.rows == other.rows && b.cols == other.cols
}

// Get returns whether the cell at (row, col) is occupied.
func (b *Board) Get(row, col int) bool {
	return b.rows[row].get(col)
}

// GetSigned is Get with boundary semantics used by placement checks:
// side walls and the floor read as occupied, everything above the board
// reads as empty.
func (b *Board) GetSigned(row, col int) bool {
	if col < 0 || col >= Width || row >= Height {
		return true
	}
	if row < 0 {
		return false
	}
	return b.Get(row, col)
}

// Set sets the cell at (row, col) to val.
func (b *Board) Set(row, col int, val bool) {
	if b.Get(row, col) != val {
		b.flip(row, col)
	}
}

// Flip toggles the cell at (row, col).
func (b *Board) Flip(row, col int) {
	b.flip(row, col)
}

// flip is the single mutation point keeping both views consistent.
func (b *Board) flip(row, col int) {
	b.rows[row] ^= 1 << (Width - 1 - col)
	b.cols[col] ^= 1 << (Height - 1 - row)
}

// RowMask returns the raw mask of a row.
func (b *Board) RowMask(row int) Row {
	return b.rows[row]
}

// ColumnHeight returns the stack height of a column.
func (b *Board) ColumnHeight(col int) int {
	return b.cols[col].Height()
}

// RemoveClears collapses every full row and scores the pass.
// Scanning top-to-bottom means rows already visited can never become full
// again, so a single pass leaves no full row behind.
func (b *Board) RemoveClears() int {
	n := 0
	for i := 0; i < Height; i++ {
		if b.rows[i].Full() {
			b.removeRow(i)
			n++
		}
	}
	b.scoreClears(n)
	return n
}

func (b *Board) removeRow(i int) {
	copy(b.rows[1:i+1], b.rows[:i])
	b.rows[0] = 0

	for j := range b.cols {
		b.cols[j] = b.cols[j].removeRow(i)
	}
}

func (b *Board) scoreClears(n int) {
	if n > 4 {
		panic(fmt.Sprintf("tetris: cleared %d rows in one pass", n))
	}

	b.score += lineScores[n]
	b.linesCleared += n
	if n == 4 {
		b.tetrises++
	}

	if b.linesCleared >= b.linesClearedMax {
		b.finished = true
	}
}

// LinesCleared returns the total number of cleared lines.
func (b *Board) LinesCleared() int {
	return b.linesCleared
}

// LinesClearedMax returns the line target.
func (b *Board) LinesClearedMax() int {
	return b.linesClearedMax
}

// Score returns the accumulated line-clear score.
func (b *Board) Score() int {
	return b.score
}

// Tetrises returns how many 4-line clears happened.
func (b *Board) Tetrises() int {
	return b.tetrises
}

// Finished reports whether no further placements are accepted.
func (b *Board) Finished() bool {
	return b.finished
}

// MarkFinished ends the board, used when a piece has nowhere to go.
func (b *Board) MarkFinished() {
	b.finished = true
}

// String renders the grid as 20 lines of '.' and '#'.
func (b *Board) String() string {
	var sb strings.Builder
	for i := 0; i < Height; i++ {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for j := 0; j < Width; j++ {
			if b.Get(i, j) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}
