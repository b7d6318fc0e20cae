package tetris

// Overlaps reports whether any cell of p is occupied, counting the walls and
// floor as occupied and the space above the board as free.
func (b *Board) Overlaps(p Piece) bool {
	for _, c := range p.Cells() {
		if b.GetSigned(c.Row, c.Col) {
			return true
		}
	}
	return false
}

// ReachableSimple reports whether p could have fallen straight into place:
// every on-board cell sits above its column's current stack.
func (b *Board) ReachableSimple(p Piece) bool {
	for _, c := range p.Cells() {
		if c.Row < 0 {
			continue
		}
		if c.Col < 0 || c.Col >= Width {
			return false
		}
		if b.ColumnHeight(c.Col) >= Height-c.Row {
			return false
		}
	}
	return true
}

// CanFit reports whether p is a legal resting placement. Besides a straight
// drop, the piece may finish with exactly one rotation or one sideways step
// from a position it could have dropped into. Longer tucks and spins are not
// modelled; Holes makes the same assumption.
func (b *Board) CanFit(p Piece) bool {
	if b.Overlaps(p) {
		return false
	}
	if b.ReachableSimple(p) {
		return true
	}

	alternatives := [4]Piece{
		p.Rotate(Clockwise),
		p.Rotate(CounterClockwise),
		p.Shift(-1),
		p.Shift(1),
	}
	for _, alt := range alternatives {
		if !b.Overlaps(alt) && b.ReachableSimple(alt) {
			return true
		}
	}
	return false
}

// InsertUnchecked flips the piece's cells without validating the placement.
func (b *Board) InsertUnchecked(p Piece) {
	for _, c := range p.Cells() {
		b.flip(c.Row, c.Col)
	}
}
