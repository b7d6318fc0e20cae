// Package bot drives simulated games: it draws pieces, searches placements
// and tracks the results. Games are single-threaded; Bench runs many of them
// in parallel.
package bot

import (
	"context"
	"math/rand"

	"github.com/vovakirdan/stackbot/internal/registry"
	"github.com/vovakirdan/stackbot/internal/tetris"
)

// State is the lifecycle state of a game.
type State int

const (
	StateRunning State = iota
	StateFinished
)

func (s State) String() string {
	if s == StateFinished {
		return "finished"
	}
	return "running"
}

// Options configure a game.
type Options struct {
	Seed            int64
	Depth           int // lookahead pieces; 0 is greedy
	LinesClearedMax int // 0 selects tetris.DefaultLinesClearedMax
}

// Game is one simulated game played by a searcher.
type Game struct {
	board     tetris.Board
	lastBoard tetris.Board
	eval      registry.Evaluator
	gen       *Generator
	rng       *rand.Rand
	seed      int64
	depth     int
	pieces    int
	toppedOut bool
}

// NewGame creates a game on an empty board.
func NewGame(ev registry.Evaluator, opts Options) *Game {
	maxLines := opts.LinesClearedMax
	if maxLines <= 0 {
		maxLines = tetris.DefaultLinesClearedMax
	}

	b := tetris.NewBoard(maxLines)
	return &Game{
		board:     b,
		lastBoard: b,
		eval:      ev,
		gen:       NewGenerator(),
		rng:       rand.New(rand.NewSource(opts.Seed)),
		seed:      opts.Seed,
		depth:     max(opts.Depth, 0),
	}
}

// Step draws the next piece and commits the best placement for it.
// It returns the drawn type and false once the game is finished, either
// because the line target was reached earlier or because the piece has
// nowhere to go.
func (g *Game) Step() (tetris.PieceType, bool) {
	g.lastBoard = g.board
	if g.board.Finished() {
		return 0, false
	}

	t := g.gen.Next(g.rng.Uint32())

	next, _, ok := Search(&g.board, t, g.depth, g.eval)
	if !ok {
		g.board.MarkFinished()
		g.toppedOut = true
		return t, false
	}

	g.board = next
	g.pieces++
	return t, true
}

// Run steps until the game finishes or ctx is cancelled.
func (g *Game) Run(ctx context.Context) error {
	for !g.board.Finished() {
		if err := ctx.Err(); err != nil {
			return err
		}
		g.Step()
	}
	return nil
}

// State returns the lifecycle state.
func (g *Game) State() State {
	if g.board.Finished() {
		return StateFinished
	}
	return StateRunning
}

// Board returns a copy of the current board.
func (g *Game) Board() tetris.Board { return g.board }

// LastBoard returns the board before the most recent step.
func (g *Game) LastBoard() tetris.Board { return g.lastBoard }

// Pieces returns the number of pieces placed.
func (g *Game) Pieces() int { return g.pieces }

// Seed returns the seed the game was created with.
func (g *Game) Seed() int64 { return g.seed }

// Depth returns the lookahead depth.
func (g *Game) Depth() int { return g.depth }

// Evaluator returns the evaluator driving the search.
func (g *Game) Evaluator() registry.Evaluator { return g.eval }

// ToppedOut reports whether the game ended because a piece could not be
// placed rather than by reaching the line target.
func (g *Game) ToppedOut() bool { return g.toppedOut }

// Efficiency returns points per cleared line. A game that topped out is
// charged for the full line target.
func (g *Game) Efficiency() float64 {
	lines := g.board.LinesCleared()
	if g.board.Finished() {
		lines = max(lines, g.board.LinesClearedMax())
	}
	if lines == 0 {
		return 0
	}
	return float64(g.board.Score()) / float64(lines)
}

// TetrisRate returns the share of cleared lines that came from 4-line
// clears, as a percentage.
func (g *Game) TetrisRate() float64 {
	lines := g.board.LinesCleared()
	if lines == 0 {
		return 0
	}
	return 100 * float64(4*g.board.Tetrises()) / float64(lines)
}
