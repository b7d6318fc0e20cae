package config

import (
	_ "embed"
)

//go:embed defaults/bot.yaml
var defaultBotYAML []byte

// DefaultDBPath is where run history is stored unless configured otherwise.
const DefaultDBPath = "~/.stackbot/runs.db"

// DefaultBotConfig returns the default bot configuration.
func DefaultBotConfig() BotConfig {
	return BotConfig{
		Search: SearchConfig{
			Depth:           0,
			LinesClearedMax: 130,
		},
		Evaluator: EvaluatorConfig{
			Name: "linear",
		},
		Bench: BenchConfig{
			Games:     20,
			FirstSeed: 1,
			Workers:   0,
		},
		Storage: StorageConfig{
			Path: DefaultDBPath,
		},
		Watch: WatchConfig{
			TickMillis: 120,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultBotYAML
}
