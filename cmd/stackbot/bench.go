package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/stackbot/internal/bot"
	"github.com/vovakirdan/stackbot/internal/eval"
	"github.com/vovakirdan/stackbot/internal/storage"
)

var (
	flagGames     int
	flagFirstSeed int64
	flagWorkers   int
	flagFitness   bool
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Play a range of seeds in parallel",
	Long: `Play one game per seed, starting at --first-seed, on --workers goroutines
and print the score summary. Every game is recorded in the runs database.

With --fitness the linear evaluator's weights are scored instead: the
result is the negated mean score over the same seeds, the value a weight
optimizer minimizes. Fitness games are not recorded.

Examples:
  stackbot bench
  stackbot bench --games 100 --workers 8
  stackbot bench --preset lookahead --first-seed 1000
  stackbot bench --fitness --games 10`,
	Args: cobra.NoArgs,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().IntVar(&flagGames, "games", 0, "Number of games (default from config)")
	benchCmd.Flags().Int64Var(&flagFirstSeed, "first-seed", 0, "Seed of the first game (default from config)")
	benchCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Parallel games (default from config, 0 = one per CPU)")
	benchCmd.Flags().IntVar(&flagDepth, "depth", 0, "Lookahead depth (default from config)")
	benchCmd.Flags().BoolVar(&flagFitness, "fitness", false, "Report the fitness of the linear weights")
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("games") {
		cfg.Bench.Games = flagGames
	}
	if cmd.Flags().Changed("first-seed") {
		cfg.Bench.FirstSeed = flagFirstSeed
	}
	if cmd.Flags().Changed("workers") {
		cfg.Bench.Workers = flagWorkers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if flagFitness {
		if cfg.Evaluator.Name != eval.LinearName {
			return fmt.Errorf("--fitness needs the %q evaluator, got %q", eval.LinearName, cfg.Evaluator.Name)
		}
		weights := cfg.Evaluator.Weights
		if len(weights) == 0 {
			weights = eval.DefaultWeights()
		}

		fit, err := bot.Fitness(ctx, weights, bot.FitnessConfig{
			Depth:           cfg.Search.Depth,
			LinesClearedMax: cfg.Search.LinesClearedMax,
			FirstSeed:       cfg.Bench.FirstSeed,
			Samples:         cfg.Bench.Games,
			Workers:         cfg.Bench.Workers,
			Logger:          logger,
		})
		if err != nil {
			return err
		}
		fmt.Printf("fitness: %.1f over %d seeds from %d\n", fit, cfg.Bench.Games, cfg.Bench.FirstSeed)
		return nil
	}

	ev, err := newEvaluator(cfg)
	if err != nil {
		return err
	}

	logger.Info("bench started",
		"evaluator", ev.Name(),
		"games", cfg.Bench.Games,
		"first_seed", cfg.Bench.FirstSeed,
		"depth", cfg.Search.Depth,
	)
	start := time.Now()

	results, err := bot.Bench(ctx, ev, bot.BenchConfig{
		Games:           cfg.Bench.Games,
		FirstSeed:       cfg.Bench.FirstSeed,
		Depth:           cfg.Search.Depth,
		LinesClearedMax: cfg.Search.LinesClearedMax,
		Workers:         cfg.Bench.Workers,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	summary := bot.Summarize(results)
	toppedOut := 0
	for _, r := range results {
		if r.ToppedOut {
			toppedOut++
		}
	}

	fmt.Printf("evaluator: %s  depth: %d  seeds: %d..%d\n",
		ev.Name(), cfg.Search.Depth, cfg.Bench.FirstSeed, cfg.Bench.FirstSeed+int64(cfg.Bench.Games)-1)
	fmt.Printf("score:     %s\n", summary)
	fmt.Printf("fitness:   %.1f\n", -summary.Mean())
	fmt.Printf("topped:    %d/%d\n", toppedOut, len(results))
	fmt.Printf("took:      %s\n", time.Since(start).Round(time.Millisecond))

	store := openStore(cfg, logger)
	if store == nil {
		return nil
	}
	defer store.Close()

	runs := make([]storage.Run, len(results))
	for i, r := range results {
		runs[i] = storage.RunFromSnapshot(r)
	}
	return store.SaveRuns(runs)
}
