// Package eval turns boards into feature vectors and scores them.
//
// The linear evaluator is a dot product of a weight vector with the
// features below; the baseline evaluator is a fixed hand-written penalty
// used for comparison. Both register themselves with the registry package.
package eval

import (
	"fmt"

	"github.com/vovakirdan/stackbot/internal/tetris"
)

// Feature vector layout.
const (
	FeatBias            = 0
	FeatOverhangs       = 1
	FeatHoles           = 2
	FeatReadiness       = 3 // one-hot readiness depth 0..4
	FeatReadyDeep       = 8 // readiness depth >= ReadyDeepThreshold
	FeatWellColumn      = 9 // one-hot well column
	FeatWellDepth       = FeatWellColumn + tetris.Width
	FeatMeanHeight      = FeatWellDepth + tetris.Width
	FeatHeightVariance  = FeatMeanHeight + 1
	FeatGoodPatterns    = FeatHeightVariance + 1
	FeatBadPatterns     = FeatGoodPatterns + 1
	FeatVeryBadPatterns = FeatBadPatterns + 1
	FeatScore           = FeatVeryBadPatterns + 1
	FeatMaxHeight       = FeatScore + 1

	// FeatureCount is the length of every feature and weight vector.
	FeatureCount = FeatMaxHeight + 1
)

// ReadyDeepThreshold is the readiness depth from which FeatReadyDeep is set.
const ReadyDeepThreshold = 3

// Features extracts the feature vector of a board.
//
// The well column is the column reported by TetrisReadiness. When there is
// no unique lowest column, the well features stay zero and the height
// statistics cover every column.
func Features(b *tetris.Board) []float64 {
	f := make([]float64, FeatureCount)

	f[FeatBias] = 1
	f[FeatOverhangs] = float64(len(b.Overhangs()))
	f[FeatHoles] = float64(len(b.Holes()))

	well := -1
	if r, ok := b.TetrisReadiness(); ok {
		well = r.Column
		f[FeatReadiness+r.Depth] = 1
		if r.Depth >= ReadyDeepThreshold {
			f[FeatReadyDeep] = 1
		}
		f[FeatWellColumn+well] = 1
		f[FeatWellDepth+well] = float64(b.WellDepth(well))
	}

	mean, variance := heightStats(b.Heights(), well)
	f[FeatMeanHeight] = mean
	f[FeatHeightVariance] = variance

	lib := patterns()
	f[FeatGoodPatterns] = float64(countAll(b, lib.good))
	f[FeatBadPatterns] = float64(countAll(b, lib.bad))
	f[FeatVeryBadPatterns] = float64(countAll(b, lib.veryBad))

	f[FeatScore] = float64(b.Score()) / 1000
	f[FeatMaxHeight] = float64(b.MaxHeight())

	return f
}

// heightStats returns the mean and population variance of the column
// heights, skipping the well column (-1 skips nothing).
func heightStats(heights [tetris.Width]int, well int) (mean, variance float64) {
	n := 0
	sum := 0.0
	for j, h := range heights {
		if j == well {
			continue
		}
		sum += float64(h)
		n++
	}
	mean = sum / float64(n)

	for j, h := range heights {
		if j == well {
			continue
		}
		d := float64(h) - mean
		variance += d * d
	}
	variance /= float64(n)

	return mean, variance
}

func countAll(b *tetris.Board, lib []*tetris.SurfacePattern) int {
	n := 0
	for _, p := range lib {
		n += b.CountSurfacePattern(p)
	}
	return n
}

var featureNames = buildFeatureNames()

func buildFeatureNames() [FeatureCount]string {
	var names [FeatureCount]string
	names[FeatBias] = "bias"
	names[FeatOverhangs] = "overhangs"
	names[FeatHoles] = "holes"
	for d := 0; d <= 4; d++ {
		names[FeatReadiness+d] = fmt.Sprintf("ready_%d", d)
	}
	names[FeatReadyDeep] = "ready_deep"
	for j := 0; j < tetris.Width; j++ {
		names[FeatWellColumn+j] = fmt.Sprintf("well_col_%d", j)
		names[FeatWellDepth+j] = fmt.Sprintf("well_depth_%d", j)
	}
	names[FeatMeanHeight] = "mean_height"
	names[FeatHeightVariance] = "height_variance"
	names[FeatGoodPatterns] = "good_patterns"
	names[FeatBadPatterns] = "bad_patterns"
	names[FeatVeryBadPatterns] = "very_bad_patterns"
	names[FeatScore] = "score"
	names[FeatMaxHeight] = "max_height"
	return names
}

// FeatureName returns the short name of a feature index.
func FeatureName(i int) string {
	if i < 0 || i >= FeatureCount {
		return "?"
	}
	return featureNames[i]
}
