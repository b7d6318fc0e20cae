package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the loaded configuration.
const (
	EnvDepth     = "STACKBOT_DEPTH"
	EnvLinesMax  = "STACKBOT_LINES_MAX"
	EnvEvaluator = "STACKBOT_EVALUATOR"
	EnvDB        = "STACKBOT_DB"
)

// Load loads the bot configuration.
// Search order: customPath -> ~/.stackbot/configs/bot.yaml -> ./configs/bot.yaml -> embedded default
// Files are decoded over DefaultBotConfig, so they only need the keys they change.
func Load(customPath string) (BotConfig, error) {
	cfg := DefaultBotConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("bot.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = DefaultBotConfig()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "bot.yaml")); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = DefaultBotConfig()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultBotYAML, &cfg); err != nil {
		return DefaultBotConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".stackbot", "configs", filename)
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overwriting variables that are already set. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("config: load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides configuration values from STACKBOT_* variables.
func ApplyEnv(cfg *BotConfig) error {
	if v, ok := os.LookupEnv(EnvDepth); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvDepth, err)
		}
		cfg.Search.Depth = n
	}
	if v, ok := os.LookupEnv(EnvLinesMax); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvLinesMax, err)
		}
		cfg.Search.LinesClearedMax = n
	}
	if v, ok := os.LookupEnv(EnvEvaluator); ok && v != "" {
		cfg.Evaluator.Name = v
	}
	if v, ok := os.LookupEnv(EnvDB); ok && v != "" {
		cfg.Storage.Path = v
	}
	return nil
}
