package eval

import (
	"fmt"

	"github.com/vovakirdan/stackbot/internal/registry"
	"github.com/vovakirdan/stackbot/internal/tetris"
)

// Registered evaluator names.
const (
	LinearName   = "linear"
	BaselineName = "baseline"
)

func init() {
	registry.Register(registry.Info{
		Name:        LinearName,
		Description: "Weighted sum of surface features",
		Weighted:    true,
	}, func(weights []float64) (registry.Evaluator, error) {
		if len(weights) == 0 {
			weights = DefaultWeights()
		}
		return NewLinear(weights)
	})

	registry.Register(registry.Info{
		Name:        BaselineName,
		Description: "Fixed penalty on holes, overhangs and height",
	}, func([]float64) (registry.Evaluator, error) {
		return Baseline{}, nil
	})
}

// Linear scores a board as the dot product of its weights with Features.
type Linear struct {
	weights []float64
}

// NewLinear returns a linear evaluator over a copy of weights.
func NewLinear(weights []float64) (*Linear, error) {
	if len(weights) != FeatureCount {
		return nil, fmt.Errorf("eval: got %d weights, want %d", len(weights), FeatureCount)
	}
	return &Linear{weights: append([]float64(nil), weights...)}, nil
}

// MustLinear is NewLinear that panics on a length mismatch.
func MustLinear(weights []float64) *Linear {
	l, err := NewLinear(weights)
	if err != nil {
		panic(err)
	}
	return l
}

// Name implements registry.Evaluator.
func (l *Linear) Name() string { return LinearName }

// Weights returns a copy of the weight vector.
func (l *Linear) Weights() []float64 {
	return append([]float64(nil), l.weights...)
}

// Eval implements registry.Evaluator.
func (l *Linear) Eval(b *tetris.Board) float64 {
	return Dot(l.weights, Features(b))
}

// Dot returns the dot product of two equal-length vectors and panics when
// the lengths differ.
func Dot(weights, features []float64) float64 {
	if len(weights) != len(features) {
		panic(fmt.Sprintf("eval: %d weights for %d features", len(weights), len(features)))
	}
	sum := 0.0
	for i, w := range weights {
		sum += w * features[i]
	}
	return sum
}

// Baseline is the non-learned reference heuristic.
type Baseline struct{}

// Name implements registry.Evaluator.
func (Baseline) Name() string { return BaselineName }

// Eval implements registry.Evaluator.
func (Baseline) Eval(b *tetris.Board) float64 {
	holes := float64(len(b.Holes()))
	overhangs := float64(len(b.Overhangs()))
	return -(holes*10000 + overhangs*100 + float64(b.MaxHeight()))
}

// DefaultWeights returns the weight vector used when the config lists none.
// The values are a starting point for a weight optimizer driving
// bot.Fitness; they are not tuned, and greedy games with them usually top
// out well before the default line target.
func DefaultWeights() []float64 {
	w := make([]float64, FeatureCount)

	w[FeatOverhangs] = -3
	w[FeatHoles] = -8

	readiness := [5]float64{0, 0.5, 1, 1.5, 3}
	for d, v := range readiness {
		w[FeatReadiness+d] = v
	}
	w[FeatReadyDeep] = 1

	for j := 0; j < tetris.Width; j++ {
		w[FeatWellColumn+j] = -0.5
		w[FeatWellDepth+j] = 0.1
	}
	w[FeatWellColumn+0] = 0.5
	w[FeatWellColumn+tetris.Width-1] = 1

	w[FeatMeanHeight] = -0.5
	w[FeatHeightVariance] = -0.3

	w[FeatGoodPatterns] = 0.5
	w[FeatBadPatterns] = -1
	w[FeatVeryBadPatterns] = -3

	w[FeatScore] = 2
	w[FeatMaxHeight] = -0.2

	return w
}
