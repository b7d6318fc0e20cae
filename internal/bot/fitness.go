package bot

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/stackbot/internal/eval"
)

// FitnessConfig selects the games a weight vector is judged on.
type FitnessConfig struct {
	Depth           int
	LinesClearedMax int
	FirstSeed       int64
	Samples         int
	Workers         int

	// Cache, if set, remembers per-seed scores across calls.
	Cache  *FitnessCache
	Logger *log.Logger
}

// Fitness plays the configured seeds with a linear evaluator over weights
// and returns the negated mean score, so that lower is better for a
// minimizer.
func Fitness(ctx context.Context, weights []float64, cfg FitnessConfig) (float64, error) {
	if cfg.Samples <= 0 {
		return 0, fmt.Errorf("bot: fitness needs at least one sample, got %d", cfg.Samples)
	}

	ev, err := eval.NewLinear(weights)
	if err != nil {
		return 0, fmt.Errorf("bot: fitness: %w", err)
	}

	model := hashModel(weights, cfg.Depth, cfg.LinesClearedMax)

	total := 0.0
	var missing []int64
	for s := cfg.FirstSeed; s < cfg.FirstSeed+int64(cfg.Samples); s++ {
		if score, ok := cfg.Cache.get(s, model); ok {
			total += score
			continue
		}
		missing = append(missing, s)
	}

	if len(missing) > 0 {
		results, err := playSeeds(ctx, ev, missing, BenchConfig{
			Depth:           cfg.Depth,
			LinesClearedMax: cfg.LinesClearedMax,
			Workers:         cfg.Workers,
			Logger:          cfg.Logger,
		})
		if err != nil {
			return 0, err
		}
		for _, r := range results {
			score := float64(r.Score)
			cfg.Cache.put(r.Seed, model, score)
			total += score
		}
	}

	return -total / float64(cfg.Samples), nil
}

type fitnessKey struct {
	seed  int64
	model uint64
}

// FitnessCache stores game scores keyed by seed and weight vector.
// It is safe for concurrent use; a nil cache stores nothing.
type FitnessCache struct {
	mu     sync.Mutex
	scores map[fitnessKey]float64
}

// NewFitnessCache returns an empty cache.
func NewFitnessCache() *FitnessCache {
	return &FitnessCache{scores: make(map[fitnessKey]float64)}
}

func (c *FitnessCache) get(seed int64, model uint64) (float64, bool) {
	if c == nil {
		return 0, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.scores[fitnessKey{seed, model}]
	return v, ok
}

func (c *FitnessCache) put(seed int64, model uint64, score float64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scores[fitnessKey{seed, model}] = score
}

// Prune drops every entry for seeds below minSeed, for optimizers that
// slide their seed window forward.
func (c *FitnessCache) Prune(minSeed int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.scores {
		if k.seed < minSeed {
			delete(c.scores, k)
		}
	}
}

// Len returns the number of cached scores.
func (c *FitnessCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.scores)
}

// hashModel identifies a weight vector together with the game settings
// that affect its score.
func hashModel(weights []float64, depth, linesMax int) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, w := range weights {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(w))
		h.Write(buf[:])
	}
	binary.LittleEndian.PutUint64(buf[:], uint64(depth)<<32|uint64(uint32(linesMax)))
	h.Write(buf[:])
	return h.Sum64()
}
