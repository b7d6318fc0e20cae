package bot

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/stackbot/internal/registry"
)

// BenchConfig describes a batch of games played with consecutive seeds.
type BenchConfig struct {
	Games           int
	FirstSeed       int64
	Depth           int
	LinesClearedMax int
	Workers         int // 0 uses GOMAXPROCS

	// Logger receives one line per finished game; nil disables logging.
	Logger *log.Logger
	// OnGame, if set, is called from worker goroutines as games finish.
	OnGame func(Snapshot)
}

// Bench plays cfg.Games games in parallel and returns their final
// snapshots in seed order. The evaluator is shared between workers.
func Bench(ctx context.Context, ev registry.Evaluator, cfg BenchConfig) ([]Snapshot, error) {
	if cfg.Games <= 0 {
		return nil, fmt.Errorf("bot: bench needs at least one game, got %d", cfg.Games)
	}

	seeds := make([]int64, cfg.Games)
	for i := range seeds {
		seeds[i] = cfg.FirstSeed + int64(i)
	}

	return playSeeds(ctx, ev, seeds, cfg)
}

func playSeeds(ctx context.Context, ev registry.Evaluator, seeds []int64, cfg BenchConfig) ([]Snapshot, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Snapshot, len(seeds))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, seed := range seeds {
		g.Go(func() error {
			start := time.Now()
			game := NewGame(ev, Options{
				Seed:            seed,
				Depth:           cfg.Depth,
				LinesClearedMax: cfg.LinesClearedMax,
			})
			if err := game.Run(ctx); err != nil {
				return fmt.Errorf("bot: game seed %d: %w", seed, err)
			}

			snap := game.Snapshot()
			results[i] = snap

			if cfg.Logger != nil {
				cfg.Logger.Info("game finished",
					"seed", seed,
					"score", snap.Score,
					"lines", snap.Lines,
					"tetrises", snap.Tetrises,
					"pieces", snap.Pieces,
					"took", time.Since(start).Round(time.Millisecond),
				)
			}
			if cfg.OnGame != nil {
				cfg.OnGame(snap)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Summarize folds the scores of a bench into a Summary.
func Summarize(results []Snapshot) *Summary {
	s := &Summary{}
	for _, r := range results {
		s.Add(float64(r.Score))
	}
	return s
}
