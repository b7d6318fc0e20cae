// Package config provides YAML-based bot configuration loading, search
// presets and environment overrides.
package config

import (
	"errors"
	"fmt"
)

// BotConfig contains all configuration for the bot and its tooling.
type BotConfig struct {
	Search    SearchConfig    `yaml:"search"`
	Evaluator EvaluatorConfig `yaml:"evaluator"`
	Bench     BenchConfig     `yaml:"bench"`
	Storage   StorageConfig   `yaml:"storage"`
	Watch     WatchConfig     `yaml:"watch"`
}

// SearchConfig defines how each game is played.
type SearchConfig struct {
	Depth           int `yaml:"depth"`             // lookahead pieces, 0 = greedy
	LinesClearedMax int `yaml:"lines_cleared_max"` // line target that ends a game
}

// EvaluatorConfig selects the board evaluator.
type EvaluatorConfig struct {
	Name    string    `yaml:"name"`
	Weights []float64 `yaml:"weights"` // empty = evaluator defaults
}

// BenchConfig defines a batch of games for benchmarking.
type BenchConfig struct {
	Games     int   `yaml:"games"`
	FirstSeed int64 `yaml:"first_seed"`
	Workers   int   `yaml:"workers"` // 0 = one per CPU
}

// StorageConfig locates the run history database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// WatchConfig defines the live view.
type WatchConfig struct {
	TickMillis int `yaml:"tick_ms"` // delay between placements
}

// MaxDepth bounds the lookahead; each level multiplies the work by ~200.
const MaxDepth = 3

// Validate checks the configuration for values the bot cannot run with.
func (c BotConfig) Validate() error {
	var errs []error

	if c.Search.Depth < 0 || c.Search.Depth > MaxDepth {
		errs = append(errs, fmt.Errorf("search.depth %d out of range [0,%d]", c.Search.Depth, MaxDepth))
	}
	if c.Search.LinesClearedMax <= 0 {
		errs = append(errs, fmt.Errorf("search.lines_cleared_max must be positive, got %d", c.Search.LinesClearedMax))
	}
	if c.Evaluator.Name == "" {
		errs = append(errs, errors.New("evaluator.name is empty"))
	}
	if c.Bench.Games <= 0 {
		errs = append(errs, fmt.Errorf("bench.games must be positive, got %d", c.Bench.Games))
	}
	if c.Bench.Workers < 0 {
		errs = append(errs, fmt.Errorf("bench.workers must not be negative, got %d", c.Bench.Workers))
	}
	if c.Watch.TickMillis < 10 {
		errs = append(errs, fmt.Errorf("watch.tick_ms must be at least 10, got %d", c.Watch.TickMillis))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
