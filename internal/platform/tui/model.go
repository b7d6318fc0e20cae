package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/stackbot/internal/bot"
	"github.com/vovakirdan/stackbot/internal/registry"
)

// DefaultTickInterval is used when WatchConfig.Interval is zero.
const DefaultTickInterval = 120 * time.Millisecond

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// WatchConfig configures a live watch session.
type WatchConfig struct {
	Evaluator registry.Evaluator
	Options   bot.Options
	Interval  time.Duration

	// OnFinish is called once per game with its final snapshot.
	OnFinish func(bot.Snapshot) error
}

// WatchModel is the Bubble Tea model that plays a bot game one piece per
// tick.
type WatchModel struct {
	cfg      WatchConfig
	game     *bot.Game
	interval time.Duration
	keys     WatchKeyMap
	help     help.Model
	paused   bool
	saved    bool
	saveErr  error
	quitting bool
	width    int
}

// NewWatchModel creates a watch model and its first game.
func NewWatchModel(cfg WatchConfig) WatchModel {
	interval := cfg.Interval
	if interval == 0 {
		interval = DefaultTickInterval
	}

	return WatchModel{
		cfg:      cfg,
		game:     bot.NewGame(cfg.Evaluator, cfg.Options),
		interval: clampInterval(interval),
		keys:     DefaultWatchKeyMap(),
		help:     help.New(),
	}
}

// Init starts the tick loop.
func (m WatchModel) Init() tea.Cmd {
	return tickCmd(m.interval)
}

// Update handles messages and updates the model state.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if !m.paused {
			m.step()
		}
		return m, tickCmd(m.interval)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused

	case key.Matches(msg, m.keys.Step):
		if m.paused {
			m.step()
		}

	case key.Matches(msg, m.keys.Faster):
		m.interval = clampInterval(m.interval / 2)

	case key.Matches(msg, m.keys.Slower):
		m.interval = clampInterval(m.interval * 2)

	case key.Matches(msg, m.keys.NewGame):
		m.finish()
		m.cfg.Options.Seed = m.game.Seed() + 1
		m.game = bot.NewGame(m.cfg.Evaluator, m.cfg.Options)
		m.saved = false
		m.saveErr = nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// step advances the game by one piece and reports it once it ends.
func (m *WatchModel) step() {
	if m.game.State() == bot.StateFinished {
		return
	}
	m.game.Step()
	if m.game.State() == bot.StateFinished {
		m.finish()
	}
}

// finish reports the current game to OnFinish if it has ended and was not
// reported yet. Abandoned games are not reported.
func (m *WatchModel) finish() {
	if m.saved || m.game.State() != bot.StateFinished {
		return
	}
	m.saved = true
	if m.cfg.OnFinish != nil {
		m.saveErr = m.cfg.OnFinish(m.game.Snapshot())
	}
}

// Game returns the game currently on screen.
func (m WatchModel) Game() *bot.Game { return m.game }

// Paused reports whether the tick loop is paused.
func (m WatchModel) Paused() bool { return m.paused }

// Interval returns the current tick interval.
func (m WatchModel) Interval() time.Duration { return m.interval }

// View renders the board beside the statistics panel.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	cur := m.game.Board()
	prev := m.game.LastBoard()
	board := bot.RenderBoard(&cur, &prev)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		strings.TrimRight(board, "\n"), "  ", panelStyle.Render(m.statsView()))

	var b strings.Builder
	b.WriteString(titleStyle.Render("STACKBOT"))
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	if m.saveErr != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("save failed: %v", m.saveErr)))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m WatchModel) statsView() string {
	s := m.game.Snapshot()

	status := "running"
	switch {
	case s.ToppedOut:
		status = "topped out"
	case s.State == bot.StateFinished.String():
		status = "line target reached"
	case m.paused:
		status = "paused"
	}

	rows := [][2]string{
		{"evaluator", s.Evaluator},
		{"seed", fmt.Sprint(s.Seed)},
		{"depth", fmt.Sprint(s.Depth)},
		{"pieces", fmt.Sprint(s.Pieces)},
		{"score", fmt.Sprint(s.Score)},
		{"lines", fmt.Sprintf("%d/%d", s.Lines, s.LinesClearedMax)},
		{"tetrises", fmt.Sprint(s.Tetrises)},
		{"eff", fmt.Sprintf("%.1f", m.game.Efficiency())},
		{"trt", fmt.Sprintf("%.0f%%", m.game.TetrisRate())},
		{"height", fmt.Sprint(s.MaxHeight)},
		{"holes", fmt.Sprint(s.Holes)},
		{"tick", m.interval.String()},
	}

	var b strings.Builder
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n\n")
	for _, r := range rows {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-10s", r[0])))
		b.WriteString(r[1])
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RunWatch starts the watch view and returns the snapshot of the game on
// screen when the user quits.
func RunWatch(cfg WatchConfig) (bot.Snapshot, error) {
	p := tea.NewProgram(NewWatchModel(cfg), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return bot.Snapshot{}, err
	}
	m, ok := final.(WatchModel)
	if !ok {
		return bot.Snapshot{}, nil
	}
	return m.game.Snapshot(), nil
}
