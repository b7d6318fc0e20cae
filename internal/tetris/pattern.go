package tetris

import (
	"errors"
	"fmt"
)

// Pattern template symbols.
const (
	symAnchor   = 'T' // the column top every other constraint is relative to
	symTop      = 't' // another column top at a fixed offset from the anchor
	symFilled   = '1'
	symEmpty    = '0'
	symDontCare = ' '
)

type offset struct {
	dr, dc int
}

type cellRule struct {
	offset
	filled bool
}

// SurfacePattern is a compiled skyline template. A column's top is the row
// of its highest block, or the floor for an empty column. The anchor is
// placed on a column's top; every 't' must then coincide with its column's
// top and every '0'/'1' must match the board, walls and floor included.
type SurfacePattern struct {
	source []string
	tops   []offset
	cells  []cellRule

	// anchor column range, inclusive
	minCol, maxCol int
}

// NewSurfacePattern compiles a template given as rows of symbols.
func NewSurfacePattern(rows []string) (*SurfacePattern, error) {
	anchorRow, anchorCol := -1, -1
	width := 0

	for r, line := range rows {
		width = max(width, len(line))
		for c := 0; c < len(line); c++ {
			if line[c] != symAnchor {
				continue
			}
			if anchorRow >= 0 {
				return nil, fmt.Errorf("tetris: pattern has more than one anchor (row %d col %d)", r, c)
			}
			anchorRow, anchorCol = r, c
		}
	}
	if anchorRow < 0 {
		return nil, errors.New("tetris: pattern has no anchor top")
	}

	p := &SurfacePattern{
		source: append([]string(nil), rows...),
		minCol: anchorCol,
		maxCol: Width - width + anchorCol,
	}

	for r, line := range rows {
		for c := 0; c < len(line); c++ {
			off := offset{dr: r - anchorRow, dc: c - anchorCol}
			switch line[c] {
			case symAnchor, symDontCare:
			case symTop:
				p.tops = append(p.tops, off)
			case symFilled:
				p.cells = append(p.cells, cellRule{offset: off, filled: true})
			case symEmpty:
				p.cells = append(p.cells, cellRule{offset: off, filled: false})
			default:
				return nil, fmt.Errorf("tetris: pattern symbol %q at row %d col %d", line[c], r, c)
			}
		}
	}

	return p, nil
}

// MustSurfacePattern is NewSurfacePattern for fixed templates; it panics if
// the template does not compile.
func MustSurfacePattern(rows ...string) *SurfacePattern {
	p, err := NewSurfacePattern(rows)
	if err != nil {
		panic(err)
	}
	return p
}

// Source returns the template rows the pattern was compiled from.
func (p *SurfacePattern) Source() []string {
	return append([]string(nil), p.source...)
}

// CountSurfacePattern returns the number of anchor columns where the
// pattern matches the board's skyline.
func (b *Board) CountSurfacePattern(p *SurfacePattern) int {
	count := 0
	for col := p.minCol; col <= p.maxCol; col++ {
		if b.matchesAt(p, col) {
			count++
		}
	}
	return count
}

func (b *Board) matchesAt(p *SurfacePattern, col int) bool {
	top := b.surfaceTop(col)

	for _, t := range p.tops {
		if b.surfaceTop(col+t.dc) != top+t.dr {
			return false
		}
	}
	for _, c := range p.cells {
		if b.GetSigned(top+c.dr, col+c.dc) != c.filled {
			return false
		}
	}
	return true
}
