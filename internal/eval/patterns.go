package eval

import (
	"sync"

	"github.com/vovakirdan/stackbot/internal/tetris"
)

// Skyline templates, see tetris.SurfacePattern for the symbols.
var (
	goodTemplates = [][]string{
		// flat pair
		{"Tt"},
		// single step up, either side
		{" t", "T "},
		{"t ", " T"},
	}

	badTemplates = [][]string{
		// one-wide well, two deep
		{"1 1", "1 1", " T "},
		// two-step cliff
		{" t", "  ", "T "},
		{"t ", "  ", " T"},
	}

	veryBadTemplates = [][]string{
		// one-wide well, three deep or more
		{"1 1", "1 1", "1 1", " T "},
		// a column towering over both neighbours
		{" T ", "   ", "   ", "0 0"},
	}
)

type patternLibrary struct {
	good, bad, veryBad []*tetris.SurfacePattern
}

// patterns compiles the template libraries on first use.
var patterns = sync.OnceValue(func() patternLibrary {
	return patternLibrary{
		good:    compile(goodTemplates),
		bad:     compile(badTemplates),
		veryBad: compile(veryBadTemplates),
	}
})

func compile(templates [][]string) []*tetris.SurfacePattern {
	lib := make([]*tetris.SurfacePattern, len(templates))
	for i, rows := range templates {
		lib[i] = tetris.MustSurfacePattern(rows...)
	}
	return lib
}
