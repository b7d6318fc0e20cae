// Package registry provides a global registry for board evaluators.
// Evaluators register themselves in init() functions, allowing the bot
// and the CLI to select one by name without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/stackbot/internal/tetris"
)

// Evaluator scores a board position; higher is better.
// Implementations must be safe for concurrent use once constructed,
// since parallel benches share one evaluator between games.
type Evaluator interface {
	// Name returns the identifier the evaluator was registered under.
	Name() string

	// Eval returns the desirability of the board.
	Eval(b *tetris.Board) float64
}

// Info contains metadata about a registered evaluator.
type Info struct {
	Name        string
	Description string
	// Weighted is true when the evaluator consumes a weight vector.
	Weighted bool
}

// Factory creates an evaluator. Weighted evaluators use the given weights
// (nil selects their defaults); others ignore them.
type Factory func(weights []float64) (Evaluator, error)

type entry struct {
	info    Info
	factory Factory
}

var (
	entries = make(map[string]entry)
	mu      sync.RWMutex
)

// Register adds an evaluator factory to the registry.
// Typically called from an init() function.
// Panics if an evaluator with the same name is already registered.
func Register(info Info, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[info.Name]; exists {
		panic(fmt.Sprintf("registry: evaluator %q already registered", info.Name))
	}

	entries[info.Name] = entry{info: info, factory: f}
}

// List returns information about all registered evaluators, sorted by name.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create instantiates an evaluator by name.
// Returns an error if the name is not registered or the factory rejects
// the weights.
func Create(name string, weights []float64) (Evaluator, error) {
	mu.RLock()
	e, ok := entries[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown evaluator %q", name)
	}

	ev, err := e.factory(weights)
	if err != nil {
		return nil, fmt.Errorf("registry: create %q: %w", name, err)
	}
	return ev, nil
}

// Exists checks if an evaluator with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := entries[name]
	return ok
}
