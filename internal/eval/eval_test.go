package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/stackbot/internal/registry"
	"github.com/vovakirdan/stackbot/internal/tetris"
)

func mustRows(t *testing.T, rows ...string) tetris.Board {
	t.Helper()
	b, err := tetris.FromRows(tetris.DefaultLinesClearedMax, rows...)
	require.NoError(t, err)
	return b
}

func TestFeaturesEmptyBoard(t *testing.T) {
	b := tetris.NewBoard(tetris.DefaultLinesClearedMax)
	f := Features(&b)

	require.Len(t, f, FeatureCount)
	assert.Equal(t, 1.0, f[FeatBias])
	assert.Zero(t, f[FeatOverhangs])
	assert.Zero(t, f[FeatHoles])
	assert.Zero(t, f[FeatMeanHeight])
	assert.Zero(t, f[FeatHeightVariance])
	assert.Zero(t, f[FeatMaxHeight])

	// Every column ties for lowest: no well features.
	for j := 0; j < tetris.Width; j++ {
		assert.Zero(t, f[FeatWellColumn+j])
		assert.Zero(t, f[FeatWellDepth+j])
	}
	for d := 0; d <= 4; d++ {
		assert.Zero(t, f[FeatReadiness+d])
	}

	// Nine flat pairs on the floor.
	assert.Equal(t, float64(tetris.Width-1), f[FeatGoodPatterns])
}

func TestFeaturesReadyBoard(t *testing.T) {
	b := mustRows(t,
		"1111111010",
		"1111111011",
		"1111111011",
	)
	f := Features(&b)

	assert.Equal(t, 1.0, f[FeatReadiness+2], "depth 2 one-hot")
	assert.Zero(t, f[FeatReadyDeep])
	assert.Equal(t, 1.0, f[FeatWellColumn+7])
	assert.Equal(t, 3.0, f[FeatWellDepth+7])

	// Heights without the well: eight columns of 3 and column 9 at 2.
	assert.InDelta(t, 26.0/9, f[FeatMeanHeight], 1e-9)
	mean := 26.0 / 9
	variance := (8*(3-mean)*(3-mean) + (2-mean)*(2-mean)) / 9
	assert.InDelta(t, variance, f[FeatHeightVariance], 1e-9)

	assert.Zero(t, f[FeatOverhangs])
	assert.Equal(t, 3.0, f[FeatMaxHeight])
}

func TestFeaturesReadyDeep(t *testing.T) {
	b := mustRows(t,
		"1111111110",
		"1111111110",
		"1111111110",
		"1111111110",
	)
	f := Features(&b)

	assert.Equal(t, 1.0, f[FeatReadiness+4])
	assert.Equal(t, 1.0, f[FeatReadyDeep])
	assert.Equal(t, 1.0, f[FeatWellColumn+9])
	assert.Equal(t, 4.0, f[FeatWellDepth+9])
	assert.Equal(t, 4.0, f[FeatMeanHeight])
	assert.Zero(t, f[FeatHeightVariance])
}

func TestFeaturesHole(t *testing.T) {
	b := mustRows(t,
		"0010000000",
		"0101000000",
	)
	f := Features(&b)

	assert.Equal(t, 1.0, f[FeatOverhangs])
	assert.Equal(t, 1.0, f[FeatHoles])
}

func TestFeaturesScore(t *testing.T) {
	b := mustRows(t, "1111111111")
	b.RemoveClears()

	f := Features(&b)
	assert.InDelta(t, 0.04, f[FeatScore], 1e-12)
}

func TestPatternLibrariesCompile(t *testing.T) {
	lib := patterns()
	assert.Len(t, lib.good, len(goodTemplates))
	assert.Len(t, lib.bad, len(badTemplates))
	assert.Len(t, lib.veryBad, len(veryBadTemplates))
	assert.Same(t, lib.good[0], patterns().good[0], "compiled once")
}

func TestBadPatterns(t *testing.T) {
	// A one-wide, three-deep well at column 4.
	b := mustRows(t,
		"1111011111",
		"1111011111",
		"1111011111",
	)
	f := Features(&b)

	assert.GreaterOrEqual(t, f[FeatBadPatterns], 1.0)
	assert.GreaterOrEqual(t, f[FeatVeryBadPatterns], 1.0)
}

func TestNewLinearRejectsMismatch(t *testing.T) {
	_, err := NewLinear(make([]float64, FeatureCount-1))
	require.Error(t, err)

	assert.Panics(t, func() { MustLinear([]float64{1}) })
}

func TestLinearEval(t *testing.T) {
	w := make([]float64, FeatureCount)
	w[FeatBias] = 5
	w[FeatHoles] = -10
	l := MustLinear(w)

	b := mustRows(t,
		"0010000000",
		"0101000000",
	)
	assert.InDelta(t, -5.0, l.Eval(&b), 1e-9)

	w[FeatBias] = 100
	assert.InDelta(t, -5.0, l.Eval(&b), 1e-9, "evaluator keeps its own copy")
}

func TestDotPanicsOnMismatch(t *testing.T) {
	assert.Panics(t, func() { Dot([]float64{1, 2}, []float64{1}) })
}

func TestBaselineEval(t *testing.T) {
	b := mustRows(t,
		"0010000000",
		"0101000000",
	)
	assert.Equal(t, -(10000.0 + 100 + 2), Baseline{}.Eval(&b))

	empty := tetris.NewBoard(tetris.DefaultLinesClearedMax)
	assert.Zero(t, Baseline{}.Eval(&empty))
}

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()
	require.Len(t, w, FeatureCount)
	assert.Negative(t, w[FeatHoles])
	assert.Greater(t, w[FeatReadiness+4], w[FeatReadiness+0])

	_, err := NewLinear(w)
	assert.NoError(t, err)
}

func TestRegistered(t *testing.T) {
	for _, name := range []string{LinearName, BaselineName} {
		ev, err := registry.Create(name, nil)
		require.NoError(t, err, name)
		assert.Equal(t, name, ev.Name())
	}

	_, err := registry.Create(LinearName, []float64{1, 2, 3})
	assert.Error(t, err)

	// An empty weights list from YAML selects the defaults.
	ev, err := registry.Create(LinearName, []float64{})
	require.NoError(t, err)
	assert.Equal(t, DefaultWeights(), ev.(*Linear).Weights())
}

func TestFeatureNames(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < FeatureCount; i++ {
		name := FeatureName(i)
		assert.NotEmpty(t, name)
		assert.False(t, seen[name], "duplicate name %q", name)
		seen[name] = true
	}
	assert.Equal(t, "?", FeatureName(FeatureCount))
}
