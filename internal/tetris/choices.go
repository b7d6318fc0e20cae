package tetris

// RestPositions returns the cells where a piece cell could come to rest:
// for each column, left to right, the cell just above the stack followed by
// every empty cell below the stack top that has a block or the floor
// directly beneath it.
func (b *Board) RestPositions() []Cell {
	positions := make([]Cell, 0, Width*2)

	for col := 0; col < Width; col++ {
		top := Height - b.ColumnHeight(col)
		if top > 0 {
			positions = append(positions, Cell{Row: top - 1, Col: col})
		}

		for row := top + 1; row < Height; row++ {
			if !b.Get(row, col) && b.GetSigned(row+1, col) {
				positions = append(positions, Cell{Row: row, Col: col})
			}
		}
	}

	return positions
}

// Placements returns the distinct legal placements of a piece type in a
// deterministic order: rotation grid, then piece cell, then rest position.
// Placements that would lock any cell above the visible board are excluded.
func (b *Board) Placements(t PieceType) []Piece {
	rests := b.RestPositions()
	seen := make(map[Piece]struct{})
	var placements []Piece

	for _, grid := range t.DistinctGrids() {
		for _, cell := range gridCells(grid) {
			for _, rest := range rests {
				p := Piece{
					Type: t,
					Grid: grid,
					Row:  rest.Row - cell.Row,
					Col:  rest.Col - cell.Col,
				}
				if _, ok := seen[p]; ok {
					continue
				}
				if !b.CanFit(p) || aboveBoard(p) {
					continue
				}
				seen[p] = struct{}{}
				placements = append(placements, p)
			}
		}
	}

	return placements
}

// Choices returns every distinct board reachable by placing one piece of
// type t, with full rows already cleared.
func (b *Board) Choices(t PieceType) []Board {
	placements := b.Placements(t)
	choices := make([]Board, 0, len(placements))
	for _, p := range placements {
		choices = append(choices, b.Place(p))
	}
	return choices
}

// Place returns a copy of the board with p inserted and full rows cleared.
func (b *Board) Place(p Piece) Board {
	next := b.Clone()
	next.InsertUnchecked(p)
	next.RemoveClears()
	return next
}

func aboveBoard(p Piece) bool {
	for _, c := range p.Cells() {
		if c.Row < 0 {
			return true
		}
	}
	return false
}
