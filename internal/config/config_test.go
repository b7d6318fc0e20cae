package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// isolate points the home directory and working directory at empty
// temporary directories so no real config file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", filepath.Join(dir, "home"))
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll() failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
}

func TestDefaultsAreValid(t *testing.T) {
	if err := DefaultBotConfig().Validate(); err != nil {
		t.Errorf("DefaultBotConfig().Validate() = %v", err)
	}
}

func TestLoadEmbeddedDefault(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	def := DefaultBotConfig()

	if cfg.Search != def.Search || cfg.Bench != def.Bench || cfg.Storage != def.Storage || cfg.Watch != def.Watch {
		t.Errorf("embedded config %+v differs from defaults %+v", cfg, def)
	}
	if cfg.Evaluator.Name != def.Evaluator.Name || len(cfg.Evaluator.Weights) != 0 {
		t.Errorf("evaluator = %+v", cfg.Evaluator)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("embedded config invalid: %v", err)
	}
}

func TestLoadCustomPathKeepsDefaults(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, "search:\n  depth: 2\nevaluator:\n  name: baseline\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Search.Depth != 2 {
		t.Errorf("depth = %d, want 2", cfg.Search.Depth)
	}
	if cfg.Evaluator.Name != "baseline" {
		t.Errorf("evaluator = %q, want baseline", cfg.Evaluator.Name)
	}
	if cfg.Search.LinesClearedMax != 130 {
		t.Errorf("lines_cleared_max = %d, want default 130", cfg.Search.LinesClearedMax)
	}
	if cfg.Bench.Games != DefaultBotConfig().Bench.Games {
		t.Errorf("bench.games = %d, want default", cfg.Bench.Games)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := isolate(t)

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "search: [unclosed\n")
	if _, err := Load(bad); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoadSearchOrder(t *testing.T) {
	dir := isolate(t)

	writeFile(t, filepath.Join(dir, "configs", "bot.yaml"), "search:\n  depth: 1\n")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Search.Depth != 1 {
		t.Errorf("local config: depth = %d, want 1", cfg.Search.Depth)
	}

	writeFile(t, filepath.Join(dir, "home", ".stackbot", "configs", "bot.yaml"), "search:\n  depth: 3\n")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Search.Depth != 3 {
		t.Errorf("user config should win: depth = %d, want 3", cfg.Search.Depth)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvDepth, "2")
	t.Setenv(EnvLinesMax, "40")
	t.Setenv(EnvEvaluator, "baseline")
	t.Setenv(EnvDB, "/tmp/x.db")

	cfg := DefaultBotConfig()
	if err := ApplyEnv(&cfg); err != nil {
		t.Fatalf("ApplyEnv() failed: %v", err)
	}

	if cfg.Search.Depth != 2 || cfg.Search.LinesClearedMax != 40 {
		t.Errorf("search = %+v", cfg.Search)
	}
	if cfg.Evaluator.Name != "baseline" {
		t.Errorf("evaluator = %q", cfg.Evaluator.Name)
	}
	if cfg.Storage.Path != "/tmp/x.db" {
		t.Errorf("storage.path = %q", cfg.Storage.Path)
	}
}

func TestApplyEnvRejectsBadNumbers(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"depth", EnvDepth},
		{"lines", EnvLinesMax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, "many")
			cfg := DefaultBotConfig()
			err := ApplyEnv(&cfg)
			if err == nil || !strings.Contains(err.Error(), tt.key) {
				t.Errorf("ApplyEnv() = %v, want error naming %s", err, tt.key)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	const key = "STACKBOT_TEST_DOTENV"
	t.Cleanup(func() { os.Unsetenv(key) })

	path := filepath.Join(dir, ".env")
	writeFile(t, path, key+"=from-file\n")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotEnv() failed: %v", err)
	}
	if got := os.Getenv(key); got != "from-file" {
		t.Errorf("%s = %q, want from-file", key, got)
	}
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvEvaluator, "linear")

	path := filepath.Join(dir, ".env")
	writeFile(t, path, EnvEvaluator+"=baseline\n")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() failed: %v", err)
	}
	if got := os.Getenv(EnvEvaluator); got != "linear" {
		t.Errorf("%s = %q, want the existing value", EnvEvaluator, got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BotConfig)
		field  string
	}{
		{"negative depth", func(c *BotConfig) { c.Search.Depth = -1 }, "search.depth"},
		{"too deep", func(c *BotConfig) { c.Search.Depth = MaxDepth + 1 }, "search.depth"},
		{"no line target", func(c *BotConfig) { c.Search.LinesClearedMax = 0 }, "lines_cleared_max"},
		{"no evaluator", func(c *BotConfig) { c.Evaluator.Name = "" }, "evaluator.name"},
		{"no games", func(c *BotConfig) { c.Bench.Games = 0 }, "bench.games"},
		{"negative workers", func(c *BotConfig) { c.Bench.Workers = -2 }, "bench.workers"},
		{"fast tick", func(c *BotConfig) { c.Watch.TickMillis = 1 }, "watch.tick_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultBotConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.field) {
				t.Errorf("Validate() = %v, want error mentioning %s", err, tt.field)
			}
		})
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset SearchPreset
		depth  int
		games  int
	}{
		{PresetGreedy, 0, 20},
		{PresetLookahead, 1, 10},
		{PresetDeep, 2, 3},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			cfg := DefaultBotConfig()
			if err := ApplyPreset(&cfg, tt.preset); err != nil {
				t.Fatalf("ApplyPreset() failed: %v", err)
			}
			if cfg.Search.Depth != tt.depth {
				t.Errorf("depth = %d, want %d", cfg.Search.Depth, tt.depth)
			}
			if cfg.Bench.Games != tt.games {
				t.Errorf("games = %d, want %d", cfg.Bench.Games, tt.games)
			}
		})
	}

	cfg := DefaultBotConfig()
	if err := ApplyPreset(&cfg, "insane"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestPresetsOrderedByDepth(t *testing.T) {
	if len(Presets) != 3 {
		t.Fatalf("len(Presets) = %d, want 3", len(Presets))
	}
	last := -1
	for _, p := range Presets {
		depth, err := DepthForPreset(p)
		if err != nil {
			t.Fatalf("DepthForPreset(%q) failed: %v", p, err)
		}
		if depth <= last {
			t.Errorf("preset %q depth %d not deeper than %d", p, depth, last)
		}
		last = depth
	}
}

func TestDefaultYAMLMatchesDefaults(t *testing.T) {
	var cfg BotConfig
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}
	def := DefaultBotConfig()
	if cfg.Search != def.Search || cfg.Bench != def.Bench || cfg.Storage != def.Storage || cfg.Watch != def.Watch {
		t.Errorf("embedded YAML %+v differs from DefaultBotConfig %+v", cfg, def)
	}
	if cfg.Evaluator.Name != def.Evaluator.Name {
		t.Errorf("evaluator = %q, want %q", cfg.Evaluator.Name, def.Evaluator.Name)
	}
}
