package bot

import (
	"fmt"
	"math"
)

// Summary accumulates game scores with Welford's running mean and variance.
// The zero value is ready to use.
type Summary struct {
	n    int
	mean float64
	m2   float64
	best float64
}

// Add records one observation.
func (s *Summary) Add(x float64) {
	if s.n == 0 || x > s.best {
		s.best = x
	}
	s.n++
	delta := x - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (x - s.mean)
}

// N returns the number of observations.
func (s *Summary) N() int { return s.n }

// Mean returns the running mean, 0 when empty.
func (s *Summary) Mean() float64 { return s.mean }

// Best returns the largest observation, 0 when empty.
func (s *Summary) Best() float64 { return s.best }

// Stdev returns the sample standard deviation, NaN with fewer than two
// observations.
func (s *Summary) Stdev() float64 {
	if s.n < 2 {
		return math.NaN()
	}
	return math.Sqrt(s.m2 / float64(s.n-1))
}

// RelError returns the two-sigma standard error of the mean relative to the
// mean, 0 with fewer than two observations or a zero mean.
func (s *Summary) RelError() float64 {
	if s.n < 2 || s.mean == 0 {
		return 0
	}
	return 2 * s.Stdev() / math.Sqrt(float64(s.n)) / math.Abs(s.mean)
}

func (s *Summary) String() string {
	if s.n < 2 {
		return fmt.Sprintf("mean=%.0f, best=%.0f, n=%d", s.mean, s.best, s.n)
	}
	return fmt.Sprintf("mean=%.0f (±%.1f%%), stdev=%.0f, best=%.0f, n=%d",
		s.mean, 100*s.RelError(), s.Stdev(), s.best, s.n)
}
