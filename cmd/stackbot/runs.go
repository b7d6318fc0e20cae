package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/stackbot/internal/platform/tui"
	"github.com/vovakirdan/stackbot/internal/registry"
	"github.com/vovakirdan/stackbot/internal/storage"
)

var (
	flagPlain bool
	flagLimit int
	flagClear bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [evaluator]",
	Short: "Show recorded runs",
	Long: `Browse recorded runs, best first. Without an evaluator every run is
listed; tab switches evaluators in the interactive view.

Examples:
  stackbot runs
  stackbot runs linear
  stackbot runs linear --plain --limit 5
  stackbot runs baseline --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print a plain listing instead of the interactive table")
	runsCmd.Flags().IntVar(&flagLimit, "limit", 10, "Runs to print with --plain")
	runsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the evaluator's runs")
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	evaluator := ""
	if len(args) == 1 {
		evaluator = args[0]
		if !registry.Exists(evaluator) {
			return fmt.Errorf("unknown evaluator %q (run 'stackbot list')", evaluator)
		}
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagClear {
		if evaluator == "" {
			return fmt.Errorf("--clear needs an evaluator")
		}
		if err := store.ClearRuns(evaluator); err != nil {
			return err
		}
		fmt.Printf("Cleared runs of %s.\n", evaluator)
		return nil
	}

	if !flagPlain {
		return tui.RunScoreboard(store, evaluator, terminalWidth(), terminalHeight())
	}
	return printRuns(store, evaluator)
}

func printRuns(store *storage.Store, evaluator string) error {
	runs, err := store.TopRuns(evaluator, flagLimit)
	if err != nil {
		return err
	}

	title := evaluator
	if title == "" {
		title = "all evaluators"
	}
	fmt.Printf("Runs - %s\n", title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'stackbot bench' to record some.")
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-5s  %-4s  %-10s  %-5s  %-9s  %s\n",
		"Rank", "Score", "Lines", "Tetr", "Seed", "Depth", "Evaluator", "Date")
	fmt.Printf("  %-4s  %-8s  %-5s  %-4s  %-10s  %-5s  %-9s  %s\n",
		"----", "-----", "-----", "----", "----", "-----", "---------", "----")
	for i, r := range runs {
		lines := fmt.Sprint(r.Lines)
		if r.ToppedOut {
			lines += "x"
		}
		fmt.Printf("  %-4d  %-8d  %-5s  %-4d  %-10d  %-5d  %-9s  %s\n",
			i+1, r.Score, lines, r.Tetrises, r.Seed, r.Depth, r.Evaluator,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if evaluator == "" {
		return nil
	}
	stats, err := store.Stats(evaluator)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Best: %d  Avg: %.0f  Runs: %d  Topped out: %d  Tetris rate: %.0f%%\n",
		stats.BestScore, stats.AvgScore, stats.Runs, stats.ToppedOut, stats.TetrisRate())
	return nil
}
