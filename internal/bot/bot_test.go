package bot

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/stackbot/internal/eval"
	"github.com/vovakirdan/stackbot/internal/tetris"
)

// flatEvaluator prefers low, hole-free stacks.
type flatEvaluator struct{}

func (flatEvaluator) Name() string { return "flat" }

func (flatEvaluator) Eval(b *tetris.Board) float64 {
	return -float64(b.MaxHeight()) - 10*float64(len(b.Holes()))
}

func topOutBoard(t *testing.T) tetris.Board {
	t.Helper()
	rows := []string{"0000000000", "1111111110"}
	for i := 2; i < tetris.Height; i++ {
		rows = append(rows, "0111111111")
	}
	b, err := tetris.FromRows(tetris.DefaultLinesClearedMax, rows...)
	require.NoError(t, err)
	return b
}

func TestGeneratorNeverRepeats(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	gen := NewGenerator()

	counts := make(map[tetris.PieceType]int)
	prev, ok := gen.Last()
	require.False(t, ok)

	for i := 0; i < 10000; i++ {
		pt := gen.Next(rng.Uint32())
		require.Less(t, int(pt), tetris.NumPieceTypes)
		if i > 0 {
			require.NotEqual(t, prev, pt, "repeat at draw %d", i)
		}
		prev = pt
		counts[pt]++
	}

	assert.Len(t, counts, tetris.NumPieceTypes)
	for pt, n := range counts {
		assert.Greater(t, n, 1000, "type %s drawn %d times", pt, n)
	}
}

func TestGeneratorRedraw(t *testing.T) {
	gen := NewGenerator()

	assert.Equal(t, tetris.PieceType(3), gen.Next(3))
	// 3 repeats; 3>>3 = 0 picks the first of the other six.
	assert.Equal(t, tetris.PieceType(0), gen.Next(3))
	// 0 repeats; the redraw 0 is shifted past the previous type.
	assert.Equal(t, tetris.PieceType(1), gen.Next(0))
	// 13%7 = 6 is fresh.
	assert.Equal(t, tetris.PieceType(6), gen.Next(13))
}

func TestSearchGreedyPicksBestFirst(t *testing.T) {
	b := tetris.NewBoard(tetris.DefaultLinesClearedMax)

	next, v, ok := Search(&b, tetris.PieceI, 0, flatEvaluator{})
	require.True(t, ok)
	assert.Equal(t, -1.0, v)

	// The first flat I found is the leftmost one.
	want, err := tetris.FromRows(tetris.DefaultLinesClearedMax, "1111000000")
	require.NoError(t, err)
	assert.True(t, next.Equal(&want), "got\n%s", next.String())
}

func TestSearchNoPlacement(t *testing.T) {
	b := topOutBoard(t)

	_, _, ok := Search(&b, tetris.PieceO, 0, flatEvaluator{})
	assert.False(t, ok)
}

type constEvaluator float64

func (constEvaluator) Name() string { return "const" }
func (c constEvaluator) Eval(*tetris.Board) float64 { return float64(c) }

func TestValueDeadEndAddsNothing(t *testing.T) {
	b := topOutBoard(t)

	fit := 0
	for _, pt := range tetris.AllPieceTypes {
		if len(b.Choices(pt)) > 0 {
			fit++
		}
	}
	require.Positive(t, fit)
	require.Less(t, fit, tetris.NumPieceTypes)

	// Types that fit contribute -7 each; dead ends contribute 0, and the
	// sum is still divided by seven.
	v := value(&b, 1, constEvaluator(-7))
	assert.InDelta(t, -float64(fit), v, 1e-9)
}

func TestValueFinishedBoardIsEvaluatedDirectly(t *testing.T) {
	b, err := tetris.FromRows(1, "1000000000")
	require.NoError(t, err)
	b.MarkFinished()

	assert.Equal(t, flatEvaluator{}.Eval(&b), value(&b, 2, flatEvaluator{}))
}

func TestSearchLookaheadTakesMean(t *testing.T) {
	b := tetris.NewBoard(tetris.DefaultLinesClearedMax)

	_, v, ok := Search(&b, tetris.PieceO, 1, flatEvaluator{})
	require.True(t, ok)

	// Every follow-up piece can lie flat beside the O without raising the
	// stack above 2.
	assert.Equal(t, -2.0, v)
}

func TestGameDeterministic(t *testing.T) {
	opts := Options{Seed: 42, LinesClearedMax: 8}

	a := NewGame(flatEvaluator{}, opts)
	b := NewGame(flatEvaluator{}, opts)
	require.NoError(t, a.Run(context.Background()))
	require.NoError(t, b.Run(context.Background()))

	assert.Equal(t, a.Snapshot(), b.Snapshot())
	assert.Equal(t, StateFinished, a.State())
	assert.Positive(t, a.Pieces())
}

func TestGameStepAfterFinish(t *testing.T) {
	g := NewGame(flatEvaluator{}, Options{Seed: 3, LinesClearedMax: 2})
	require.NoError(t, g.Run(context.Background()))

	pieces := g.Pieces()
	_, ok := g.Step()
	assert.False(t, ok)
	assert.Equal(t, pieces, g.Pieces())

	last := g.LastBoard()
	cur := g.Board()
	assert.True(t, cur.Equal(&last), "finished step must not change the board")
}

func TestGameTracksLastBoard(t *testing.T) {
	g := NewGame(flatEvaluator{}, Options{Seed: 9})

	_, ok := g.Step()
	require.True(t, ok)
	last := g.LastBoard()
	cur := g.Board()

	assert.Zero(t, last.MaxHeight())
	assert.Positive(t, cur.MaxHeight())
	assert.Equal(t, 1, g.Pieces())
	assert.Equal(t, StateRunning, g.State())
}

func TestGameRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGame(flatEvaluator{}, Options{Seed: 1})
	assert.ErrorIs(t, g.Run(ctx), context.Canceled)
}

func TestGameWithLinearEvaluator(t *testing.T) {
	g := NewGame(eval.MustLinear(eval.DefaultWeights()), Options{Seed: 5, LinesClearedMax: 10})
	require.NoError(t, g.Run(context.Background()))

	snap := g.Snapshot()
	assert.Equal(t, eval.LinearName, snap.Evaluator)
	assert.Equal(t, "finished", snap.State)
	assert.Len(t, snap.Board, tetris.Width*tetris.Height)
	if !snap.ToppedOut {
		assert.GreaterOrEqual(t, snap.Lines, 10)
	}
}

func TestEfficiencyAndTetrisRate(t *testing.T) {
	g := NewGame(flatEvaluator{}, Options{Seed: 1})
	assert.Zero(t, g.Efficiency())
	assert.Zero(t, g.TetrisRate())

	b, err := tetris.FromRows(tetris.DefaultLinesClearedMax,
		"1111111111", "1111111111", "1111111111", "1111111111",
	)
	require.NoError(t, err)
	b.RemoveClears()

	// Add one single clear on top of the tetris.
	for j := 0; j < tetris.Width; j++ {
		b.Set(tetris.Height-1, j, true)
	}
	b.RemoveClears()
	g.board = b

	assert.InDelta(t, 1240.0/5, g.Efficiency(), 1e-9)
	assert.InDelta(t, 80.0, g.TetrisRate(), 1e-9)
}

func TestEfficiencyChargesTopOut(t *testing.T) {
	g := NewGame(flatEvaluator{}, Options{Seed: 1, LinesClearedMax: 10})
	b, err := tetris.FromRows(10, "1111111111")
	require.NoError(t, err)
	b.RemoveClears()
	b.MarkFinished()
	g.board = b

	assert.InDelta(t, 4.0, g.Efficiency(), 1e-9)
}

func TestDump(t *testing.T) {
	g := NewGame(flatEvaluator{}, Options{Seed: 2})
	g.Step()

	out := g.Dump()
	for _, want := range []string{"lines: 0/130", "score: 0", "piece: 1", "holes: 0", "ready:"} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, out, g.board.CompactString())
	assert.Equal(t, tetris.Height+2, strings.Count(RenderBoard(&g.board, nil), "\n"))
}

func TestSummaryStringFewGames(t *testing.T) {
	var s Summary
	s.Add(500)
	assert.Equal(t, "mean=500, best=500, n=1", s.String())

	var zero Summary
	zero.Add(0)
	zero.Add(0)
	assert.NotContains(t, zero.String(), "NaN")
	assert.Zero(t, zero.RelError())
}

func TestSummary(t *testing.T) {
	var s Summary
	assert.True(t, math.IsNaN(s.Stdev()))

	for _, x := range []float64{1, 2, 3, 4, 5} {
		s.Add(x)
	}

	assert.Equal(t, 5, s.N())
	assert.InDelta(t, 3.0, s.Mean(), 1e-12)
	assert.InDelta(t, math.Sqrt(2.5), s.Stdev(), 1e-12)
	assert.Equal(t, 5.0, s.Best())
	assert.InDelta(t, 2*math.Sqrt(2.5)/math.Sqrt(5)/3, s.RelError(), 1e-12)
	assert.Contains(t, s.String(), "n=5")
}

func TestSummaryNegativeBest(t *testing.T) {
	var s Summary
	s.Add(-3)
	s.Add(-5)
	assert.Equal(t, -3.0, s.Best())
}

func TestBenchMatchesSequentialGames(t *testing.T) {
	cfg := BenchConfig{Games: 4, FirstSeed: 10, LinesClearedMax: 6, Workers: 2}

	var seen int
	done := make(chan struct{}, cfg.Games)
	cfg.OnGame = func(Snapshot) { done <- struct{}{} }

	results, err := Bench(context.Background(), flatEvaluator{}, cfg)
	require.NoError(t, err)
	require.Len(t, results, cfg.Games)
	close(done)
	for range done {
		seen++
	}
	assert.Equal(t, cfg.Games, seen)

	for i, r := range results {
		g := NewGame(flatEvaluator{}, Options{Seed: cfg.FirstSeed + int64(i), LinesClearedMax: 6})
		require.NoError(t, g.Run(context.Background()))
		assert.Equal(t, g.Snapshot(), r, "seed %d", r.Seed)
	}

	s := Summarize(results)
	assert.Equal(t, cfg.Games, s.N())
}

func TestBenchErrors(t *testing.T) {
	_, err := Bench(context.Background(), flatEvaluator{}, BenchConfig{})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Bench(ctx, flatEvaluator{}, BenchConfig{Games: 2})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFitnessUsesCache(t *testing.T) {
	cache := NewFitnessCache()
	cfg := FitnessConfig{
		LinesClearedMax: 4,
		FirstSeed:       1,
		Samples:         3,
		Cache:           cache,
	}
	w := eval.DefaultWeights()

	f1, err := Fitness(context.Background(), w, cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, cache.Len())
	assert.LessOrEqual(t, f1, 0.0)

	f2, err := Fitness(context.Background(), w, cfg)
	require.NoError(t, err)
	assert.Equal(t, f1, f2)
	assert.Equal(t, 3, cache.Len())

	// A sliding window only plays the new seed.
	cfg.FirstSeed = 2
	_, err = Fitness(context.Background(), w, cfg)
	require.NoError(t, err)
	assert.Equal(t, 4, cache.Len())

	cache.Prune(2)
	assert.Equal(t, 3, cache.Len())

	var none *FitnessCache
	assert.NotPanics(t, func() { none.Prune(1) })
	assert.Zero(t, none.Len())

	// Different weights are a different model.
	w[eval.FeatHoles] = -100
	_, err = Fitness(context.Background(), w, cfg)
	require.NoError(t, err)
	assert.Equal(t, 6, cache.Len())
}

func TestFitnessMatchesBench(t *testing.T) {
	w := eval.DefaultWeights()
	f, err := Fitness(context.Background(), w, FitnessConfig{LinesClearedMax: 4, FirstSeed: 7, Samples: 2})
	require.NoError(t, err)

	results, err := Bench(context.Background(), eval.MustLinear(w), BenchConfig{Games: 2, FirstSeed: 7, LinesClearedMax: 4})
	require.NoError(t, err)
	assert.InDelta(t, -Summarize(results).Mean(), f, 1e-9)
}

func TestFitnessErrors(t *testing.T) {
	_, err := Fitness(context.Background(), []float64{1}, FitnessConfig{Samples: 1})
	assert.Error(t, err)

	_, err = Fitness(context.Background(), eval.DefaultWeights(), FitnessConfig{})
	assert.Error(t, err)
}
