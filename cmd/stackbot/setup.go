package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/stackbot/internal/config"
	"github.com/vovakirdan/stackbot/internal/registry"
	"github.com/vovakirdan/stackbot/internal/storage"
)

// loadConfig resolves the bot configuration from, in increasing priority:
// config files, .env and STACKBOT_* variables, --preset, then explicit
// flags.
func loadConfig(cmd *cobra.Command) (config.BotConfig, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return config.BotConfig{}, err
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	if flagPreset != "" {
		if err := config.ApplyPreset(&cfg, config.SearchPreset(flagPreset)); err != nil {
			return cfg, err
		}
	}
	if flagEvaluator != "" {
		cfg.Evaluator.Name = flagEvaluator
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	if cmd.Flags().Changed("depth") {
		cfg.Search.Depth, _ = cmd.Flags().GetInt("depth")
	}

	return cfg, cfg.Validate()
}

// newLogger builds the CLI logger at the level given by --log-level.
func newLogger() (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "stackbot",
		Level:           level,
	}), nil
}

// newEvaluator creates the configured evaluator.
func newEvaluator(cfg config.BotConfig) (registry.Evaluator, error) {
	if !registry.Exists(cfg.Evaluator.Name) {
		return nil, fmt.Errorf("unknown evaluator %q (run 'stackbot list')", cfg.Evaluator.Name)
	}
	return registry.Create(cfg.Evaluator.Name, cfg.Evaluator.Weights)
}

// openStore opens the run database, logging instead of failing so that
// games still run without it.
func openStore(cfg config.BotConfig, logger *log.Logger) *storage.Store {
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		logger.Warn("runs will not be saved", "err", err)
		return nil
	}
	return store
}
