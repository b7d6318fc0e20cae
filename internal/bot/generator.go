package bot

import "github.com/vovakirdan/stackbot/internal/tetris"

// Generator turns raw random words into piece types, never drawing the
// same type twice in a row.
type Generator struct {
	last    tetris.PieceType
	hasLast bool
}

// NewGenerator returns a generator with no previous piece.
func NewGenerator() *Generator {
	return &Generator{}
}

// Next draws a piece type from r. The low bits pick one of the seven types;
// if that repeats the previous type, the remaining bits pick uniformly among
// the other six.
func (g *Generator) Next(r uint32) tetris.PieceType {
	t := tetris.PieceType(r % tetris.NumPieceTypes)

	if g.hasLast && t == g.last {
		t = tetris.PieceType((r >> 3) % (tetris.NumPieceTypes - 1))
		if t >= g.last {
			t++
		}
	}

	g.last, g.hasLast = t, true
	return t
}

// Last returns the previously drawn type.
func (g *Generator) Last() (tetris.PieceType, bool) {
	return g.last, g.hasLast
}
