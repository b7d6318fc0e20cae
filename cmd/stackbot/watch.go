package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/stackbot/internal/bot"
	"github.com/vovakirdan/stackbot/internal/platform/tui"
	"github.com/vovakirdan/stackbot/internal/storage"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the bot play",
	Long: `Open a live view that places one piece per tick. Finished games are
recorded in the runs database.

Controls:
  Space/P    - Pause
  S          - Step one piece (paused)
  +/-        - Faster / slower
  N          - Next seed
  ?          - More keys
  Q/Ctrl+C   - Quit

Examples:
  stackbot watch
  stackbot watch --seed 7 --evaluator baseline
  stackbot watch --preset lookahead`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed of the first game (0 = random based on time)")
	watchCmd.Flags().IntVar(&flagDepth, "depth", 0, "Lookahead depth (default from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	ev, err := newEvaluator(cfg)
	if err != nil {
		return err
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	_, err = tui.RunWatch(tui.WatchConfig{
		Evaluator: ev,
		Options: bot.Options{
			Seed:            seed,
			Depth:           cfg.Search.Depth,
			LinesClearedMax: cfg.Search.LinesClearedMax,
		},
		Interval: time.Duration(cfg.Watch.TickMillis) * time.Millisecond,
		OnFinish: func(s bot.Snapshot) error {
			if store == nil {
				return nil
			}
			_, err := store.SaveRun(storage.RunFromSnapshot(s))
			return err
		},
	})
	return err
}
