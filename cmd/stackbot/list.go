package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/stackbot/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered evaluators",
	Long:  `Shows every evaluator the bot can play with.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	evaluators := registry.List()

	if len(evaluators) == 0 {
		fmt.Println("No evaluators registered.")
		return
	}

	fmt.Println("Available evaluators:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, e := range evaluators {
		maxNameLen = max(maxNameLen, len(e.Name))
	}

	fmt.Printf("  %-*s  %-8s  %s\n", maxNameLen, "Name", "Weights", "Description")
	fmt.Printf("  %-*s  %-8s  %s\n", maxNameLen, "----", "-------", "-----------")

	for _, e := range evaluators {
		weighted := "no"
		if e.Weighted {
			weighted = "yes"
		}
		fmt.Printf("  %-*s  %-8s  %s\n", maxNameLen, e.Name, weighted, e.Description)
	}

	fmt.Println()
	fmt.Println("Run 'stackbot play --evaluator <name>' to play with one.")
}
