package bot

import (
	"github.com/vovakirdan/stackbot/internal/registry"
	"github.com/vovakirdan/stackbot/internal/tetris"
)

// Search picks the best board reachable by placing one piece of type t.
//
// At depth 0 each choice is scored by the evaluator. At depth d > 0 a
// choice is worth the mean, over all seven next piece types, of the best
// value reachable at depth d-1. Ties keep the first choice found. It
// returns false when the piece has no legal placement.
func Search(b *tetris.Board, t tetris.PieceType, depth int, ev registry.Evaluator) (tetris.Board, float64, bool) {
	choices := b.Choices(t)
	if len(choices) == 0 {
		return tetris.Board{}, 0, false
	}

	best := 0
	bestValue := value(&choices[0], depth, ev)
	for i := 1; i < len(choices); i++ {
		if v := value(&choices[i], depth, ev); v > bestValue {
			best, bestValue = i, v
		}
	}

	return choices[best], bestValue, true
}

// value is the expected worth of a board with depth pieces of lookahead.
// A next type with no legal placement adds nothing to the sum, but the sum
// is still divided by all seven types.
func value(b *tetris.Board, depth int, ev registry.Evaluator) float64 {
	if depth == 0 || b.Finished() {
		return ev.Eval(b)
	}

	sum := 0.0
	for _, t := range tetris.AllPieceTypes {
		if _, v, ok := Search(b, t, depth-1, ev); ok {
			sum += v
		}
	}
	return sum / tetris.NumPieceTypes
}
