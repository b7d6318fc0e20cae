package bot

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/stackbot/internal/tetris"
)

var (
	placedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	wallStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// deepWell matches one-wide wells at least three cells deep.
var deepWell = tetris.MustSurfacePattern(
	"1 1",
	"1 1",
	"1 1",
	" T ",
)

// RenderBoard draws the grid with two characters per cell. Cells occupied
// in cur but not in prev are highlighted.
func RenderBoard(cur, prev *tetris.Board) string {
	var sb strings.Builder

	sb.WriteString(wallStyle.Render("  " + strings.Repeat(".", 2*tetris.Width+2)))
	sb.WriteByte('\n')
	for i := 0; i < tetris.Height; i++ {
		sb.WriteString(wallStyle.Render("  |"))
		for j := 0; j < tetris.Width; j++ {
			switch {
			case !cur.Get(i, j):
				sb.WriteString("  ")
			case prev != nil && !prev.Get(i, j):
				sb.WriteString(placedStyle.Render("[]"))
			default:
				sb.WriteString("[]")
			}
		}
		sb.WriteString(wallStyle.Render("|"))
		sb.WriteByte('\n')
	}
	sb.WriteString(wallStyle.Render("  \\" + strings.Repeat("-", 2*tetris.Width) + "/"))
	sb.WriteByte('\n')

	return sb.String()
}

// Dump renders the board followed by the game's statistics and surface
// diagnostics.
func (g *Game) Dump() string {
	var sb strings.Builder

	sb.WriteString(RenderBoard(&g.board, &g.lastBoard))
	sb.WriteByte('\n')

	b := &g.board
	fmt.Fprintf(&sb, "  lines: %d/%d\n", b.LinesCleared(), b.LinesClearedMax())
	fmt.Fprintf(&sb, "  score: %d\n", b.Score())
	fmt.Fprintf(&sb, "  eff  : %.0f\n", g.Efficiency())
	fmt.Fprintf(&sb, "  trt  : %.1f%%\n", g.TetrisRate())
	fmt.Fprintf(&sb, "  piece: %d\n", g.pieces)
	fmt.Fprintf(&sb, "  str  : %s\n", b.CompactString())
	fmt.Fprintf(&sb, "  holes: %d\n", len(b.Holes()))
	fmt.Fprintf(&sb, "  overh: %d\n", len(b.Overhangs()))

	r, ok := b.TetrisReadiness()
	if ok {
		fmt.Fprintf(&sb, "  ready: %d at column %d\n", r.Depth, r.Column)
	} else {
		sb.WriteString("  ready: none\n")
	}
	fmt.Fprintf(&sb, "  pat  : %d\n", b.CountSurfacePattern(deepWell))
	if ok {
		fmt.Fprintf(&sb, "  wd   : %d\n", b.WellDepth(r.Column))
	}

	return sb.String()
}
