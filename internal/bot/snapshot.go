package bot

// Snapshot contains the observable game state for display and storage.
// Uses primitive types only for stable serialization.
type Snapshot struct {
	Evaluator string
	Seed      int64
	Depth     int
	State     string
	ToppedOut bool

	Pieces          int
	Score           int
	Lines           int
	LinesClearedMax int
	Tetrises        int
	MaxHeight       int
	Holes           int

	// Board is the compact '0'/'1' encoding, top row first.
	Board string
}

// Snapshot returns the current game state as a Snapshot.
func (g *Game) Snapshot() Snapshot {
	b := &g.board
	return Snapshot{
		Evaluator:       g.eval.Name(),
		Seed:            g.seed,
		Depth:           g.depth,
		State:           g.State().String(),
		ToppedOut:       g.toppedOut,
		Pieces:          g.pieces,
		Score:           b.Score(),
		Lines:           b.LinesCleared(),
		LinesClearedMax: b.LinesClearedMax(),
		Tetrises:        b.Tetrises(),
		MaxHeight:       b.MaxHeight(),
		Holes:           len(b.Holes()),
		Board:           b.CompactString(),
	}
}
