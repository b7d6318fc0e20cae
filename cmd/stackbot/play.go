package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/stackbot/internal/bot"
	"github.com/vovakirdan/stackbot/internal/storage"
)

var (
	flagSeed      int64
	flagDepth     int
	flagDumpEvery int
	flagNoSave    bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play one game headless",
	Long: `Play a single game to the line target (or until the bot tops out) and
print the final board with its statistics.

With --dump-every N the board is also printed every N pieces; dumps are
laid out side by side when the terminal is wide enough.

Examples:
  stackbot play
  stackbot play --seed 42 --depth 1
  stackbot play --seed 42 --dump-every 25
  stackbot play --evaluator baseline --no-save`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	playCmd.Flags().IntVar(&flagDepth, "depth", 0, "Lookahead depth (default from config)")
	playCmd.Flags().IntVar(&flagDumpEvery, "dump-every", 0, "Print the board every N pieces (0 = only at the end)")
	playCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the run")
}

func runPlay(cmd *cobra.Command, args []string) error {
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	game := bot.NewGame(ev, bot.Options{
		Seed:            seed,
		Depth:           cfg.Search.Depth,
		LinesClearedMax: cfg.Search.LinesClearedMax,
	})
	logger.Debug("game started", "seed", seed, "evaluator", ev.Name(), "depth", cfg.Search.Depth)

	dumps := newDumpWriter(terminalWidth())
	start := time.Now()
	for game.State() == bot.StateRunning {
		if err := ctx.Err(); err != nil {
			dumps.Flush()
			return fmt.Errorf("game interrupted after %d pieces", game.Pieces())
		}
		if _, ok := game.Step(); ok && flagDumpEvery > 0 && game.Pieces()%flagDumpEvery == 0 {
			dumps.Add(game.Dump())
		}
	}
	dumps.Flush()

	fmt.Println(game.Dump())

	snap := game.Snapshot()
	logger.Info("game finished",
		"seed", snap.Seed,
		"score", snap.Score,
		"lines", snap.Lines,
		"pieces", snap.Pieces,
		"topped_out", snap.ToppedOut,
		"took", time.Since(start).Round(time.Millisecond),
	)

	if flagNoSave {
		return nil
	}
	store := openStore(cfg, logger)
	if store == nil {
		return nil
	}
	defer store.Close()

	id, err := store.SaveRun(storage.RunFromSnapshot(snap))
	if err != nil {
		return err
	}
	logger.Debug("run saved", "id", id)
	return nil
}

// terminalWidth returns the width of stdout, or 80 when it is not a
// terminal.
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w
	}
	return 80
}

// terminalHeight returns the height of stdout, or 24 when it is not a
// terminal.
func terminalHeight() int {
	if _, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return h
	}
	return 24
}

// dumpWriter prints board dumps in rows as wide as the terminal allows.
type dumpWriter struct {
	width   int
	pending []string
}

func newDumpWriter(width int) *dumpWriter {
	return &dumpWriter{width: width}
}

// Add queues a dump and prints the row once no further dump would fit.
func (w *dumpWriter) Add(dump string) {
	w.pending = append(w.pending, dump)

	used := 0
	for _, d := range w.pending {
		used += lipgloss.Width(d) + 2
	}
	if used+lipgloss.Width(dump)+2 > w.width {
		w.Flush()
	}
}

// Flush prints the queued dumps side by side.
func (w *dumpWriter) Flush() {
	if len(w.pending) == 0 {
		return
	}
	cols := make([]string, 0, 2*len(w.pending))
	for _, d := range w.pending {
		cols = append(cols, strings.TrimRight(d, "\n"), "  ")
	}
	fmt.Println(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	fmt.Println()
	w.pending = w.pending[:0]
}
