package config

import "fmt"

// SearchPreset represents a named search strength.
type SearchPreset string

const (
	PresetGreedy    SearchPreset = "greedy"
	PresetLookahead SearchPreset = "lookahead"
	PresetDeep      SearchPreset = "deep"
)

// Presets lists the search presets from fastest to strongest.
var Presets = []SearchPreset{PresetGreedy, PresetLookahead, PresetDeep}

// DepthForPreset returns the lookahead depth of a preset.
func DepthForPreset(preset SearchPreset) (int, error) {
	switch preset {
	case PresetGreedy:
		return 0, nil
	case PresetLookahead:
		return 1, nil
	case PresetDeep:
		return 2, nil
	default:
		return 0, fmt.Errorf("config: unknown preset %q", preset)
	}
}

// ApplyPreset modifies the config based on a search preset.
func ApplyPreset(cfg *BotConfig, preset SearchPreset) error {
	depth, err := DepthForPreset(preset)
	if err != nil {
		return err
	}
	cfg.Search.Depth = depth

	// Deeper searches are slower per game, so benches play fewer of them.
	switch preset {
	case PresetLookahead:
		cfg.Bench.Games = min(cfg.Bench.Games, 10)
	case PresetDeep:
		cfg.Bench.Games = min(cfg.Bench.Games, 3)
	}
	return nil
}
