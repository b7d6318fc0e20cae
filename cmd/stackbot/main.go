// stackbot plays Tetris with a search-based bot and records its runs.
//
// Usage:
//
//	stackbot list                - List registered evaluators
//	stackbot play                - Play one game headless and print it
//	stackbot bench               - Play many seeds in parallel and summarize
//	stackbot watch               - Watch the bot play in the terminal
//	stackbot runs [evaluator]    - Show recorded runs
//	stackbot config              - Print the resolved configuration
//
// Global flags:
//
//	--config <path>     - Bot config YAML
//	--preset <name>     - Search preset: greedy, lookahead, deep
//	--evaluator <name>  - Evaluator to play with
//	--db <path>         - Run database (default: ~/.stackbot/runs.db)
//	--log-level <lvl>   - debug, info, warn, error
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/stackbot/internal/config"

	// Import evaluators to register them
	_ "github.com/vovakirdan/stackbot/internal/eval"
)

var (
	// Global flags
	flagConfig    string
	flagPreset    string
	flagEvaluator string
	flagDBPath    string
	flagLogLevel  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stackbot",
	Short: "stackbot - a Tetris bot that searches placements",
	Long: `stackbot plays Tetris on a 10x20 board. For every piece it tries each
reachable resting placement, optionally looks ahead over the next pieces,
and keeps the board its evaluator likes best.

Available commands:
  list     - Show registered evaluators
  play     - Play one game and print the final board
  bench    - Play a range of seeds in parallel
  watch    - Live view of a game
  runs     - Recorded runs
  config   - Resolved configuration

Examples:
  stackbot play --seed 7 --dump-every 50
  stackbot bench --games 40 --preset lookahead
  stackbot watch --evaluator baseline
  stackbot runs linear --plain`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to bot config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Search preset: "+strings.Join(presetNames(), ", "))
	rootCmd.PersistentFlags().StringVar(&flagEvaluator, "evaluator", "", "Evaluator name (see 'stackbot list')")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to runs database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	_ = rootCmd.RegisterFlagCompletionFunc("preset",
		func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return presetNames(), cobra.ShellCompDirectiveNoFileComp
		})

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(configCmd)
}

func presetNames() []string {
	names := make([]string, len(config.Presets))
	for i, p := range config.Presets {
		names[i] = string(p)
	}
	return names
}
