package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Mshel/serpentine/internal/game"
	"github.com/Mshel/serpentine/internal/grid"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type GameState int

const (
	StatePlaying GameState = iota
	StatePaused
	StateGameOver
)

var (
	voidColor    = "233"
	mapViewStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 0)

	statusPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("8")).
				Padding(1, 2)

	wallStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("172")).Render("▒")
	voidStyle = lipgloss.NewStyle().Background(lipgloss.Color(voidColor)).Render(" ")

	sectionStyle = lipgloss.NewStyle().Bold(true)
	pausedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)

	headRunes = map[grid.Direction]string{
		grid.North: "▲",
		grid.South: "▼",
		grid.West:  "◀",
		grid.East:  "▶",
		grid.None:  "●",
	}

	claimedEstateRune = "▒"
	targetRune        = "◎"
)

const (
	// minTick keeps a zero tick from spinning the renderer.
	minTick          = 16 * time.Millisecond
	statusPanelWidth = 36
)

// tickMsg and frameMsg carry the match they belong to so that messages in
// flight across a restart are dropped.
type tickMsg struct {
	match *game.Match
	seq   int
}

type frameMsg struct {
	match *game.Match
	frame game.Frame
	err   error
}

type keyMap struct {
	Pause       key.Binding
	Step        key.Binding
	Restart     key.Binding
	Leaderboard key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Step, k.Leaderboard, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Step, k.Restart},
		{k.Leaderboard, k.Help, k.Quit},
	}
}

var defaultKeys = keyMap{
	Pause: key.NewBinding(
		key.WithKeys(" ", "p"),
		key.WithHelp("space/p", "pause"),
	),
	Step: key.NewBinding(
		key.WithKeys("n", "."),
		key.WithHelp("n", "step (paused)"),
	),
	Restart: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "restart"),
	),
	Leaderboard: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "leaderboard"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc"),
		key.WithHelp("q/esc", "menu"),
	),
}

// GameModel renders one running match and drives it turn by turn.
type GameModel struct {
	ScreenWidth  int
	ScreenHeight int

	ctx      context.Context
	match    *game.Match
	frame    game.Frame
	state    GameState
	stepping bool
	// seq invalidates ticks scheduled before a pause.
	seq  int
	err  error
	keys keyMap
	help help.Model

	gameOverState GameOverState
}

func NewGameModel(ctx context.Context, match *game.Match, screenWidth, screenHeight int) GameModel {
	h := help.New()
	h.Width = screenWidth
	return GameModel{
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
		ctx:          ctx,
		match:        match,
		frame:        match.Frame(),
		state:        StatePlaying,
		keys:         defaultKeys,
		help:         h,
	}
}

func (m GameModel) Init() tea.Cmd {
	return m.scheduleTick()
}

func (m GameModel) scheduleTick() tea.Cmd {
	match, seq := m.match, m.seq
	return tea.Tick(max(match.Config().TickDuration, minTick), func(time.Time) tea.Msg {
		return tickMsg{match: match, seq: seq}
	})
}

// step plays one turn off the update loop.
func (m GameModel) step() tea.Cmd {
	match, ctx := m.match, m.ctx
	return func() tea.Msg {
		f, err := match.Step(ctx)
		return frameMsg{match: match, frame: f, err: err}
	}
}

func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth, m.ScreenHeight = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.gameOverState.ScreenWidth, m.gameOverState.ScreenHeight = msg.Width, msg.Height
		return m, nil

	case tickMsg:
		if msg.match != m.match || msg.seq != m.seq || m.state != StatePlaying || m.stepping {
			return m, nil
		}
		m.stepping = true
		return m, m.step()

	case frameMsg:
		if msg.match != m.match {
			return m, nil
		}
		m.stepping = false
		m.frame = msg.frame
		switch {
		case errors.Is(msg.err, game.ErrMatchOver) || (msg.err == nil && m.match.Done()):
			m.state = StateGameOver
			m.gameOverState = newGameOverState(m.frame, m.ScreenWidth, m.ScreenHeight)
			return m, nil
		case msg.err != nil:
			m.err = msg.err
			m.state = StatePaused
			m.seq++
			return m, nil
		}
		if m.state == StatePlaying {
			return m, m.scheduleTick()
		}
		return m, nil

	case tea.KeyMsg:
		if m.state == StateGameOver {
			return m.updateGameOver(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, func() tea.Msg { return BackToMenuMsg{} }
		case key.Matches(msg, m.keys.Pause):
			m.seq++
			if m.state == StatePaused {
				m.state = StatePlaying
				m.err = nil
				return m, m.scheduleTick()
			}
			m.state = StatePaused
			return m, nil
		case key.Matches(msg, m.keys.Step):
			if m.state != StatePaused || m.stepping {
				return m, nil
			}
			m.stepping = true
			return m, m.step()
		case key.Matches(msg, m.keys.Restart):
			return m, func() tea.Msg { return RestartMatchMsg{} }
		case key.Matches(msg, m.keys.Leaderboard):
			return m, func() tea.Msg { return ShowLeaderboardMsg{} }
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}
	return m, nil
}

func (m GameModel) updateGameOver(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.gameOverState.SelectedButton = max(0, m.gameOverState.SelectedButton-1)
	case "right", "l":
		m.gameOverState.SelectedButton = min(1, m.gameOverState.SelectedButton+1)
	case "r":
		return m, func() tea.Msg { return RestartMatchMsg{} }
	case "q", "esc":
		return m, func() tea.Msg { return BackToMenuMsg{} }
	case "enter":
		if m.gameOverState.SelectedButton == 0 {
			return m, func() tea.Msg { return BackToMenuMsg{} }
		}
		return m, func() tea.Msg { return ShowLeaderboardMsg{} }
	}
	return m, nil
}

func (m GameModel) View() string {
	if m.state == StateGameOver {
		return m.gameOverState.RenderGameOverScreen()
	}

	mapContent := renderMap(m.frame)
	statusContent := m.renderStatusPanel()

	board := lipgloss.JoinHorizontal(lipgloss.Top,
		mapViewStyle.Render(mapContent),
		statusPanelStyle.Width(statusPanelWidth).Render(statusContent),
	)
	return lipgloss.JoinVertical(lipgloss.Left, board, m.help.View(m.keys))
}

// renderMap draws the whole arena: walls, territory, trails, heads and the
// cells bots are heading for.
func renderMap(f game.Frame) string {
	colors := map[int]lipgloss.Style{}
	targets := map[grid.Cell]int{}
	for _, ps := range f.Players {
		colors[ps.ID] = lipgloss.NewStyle().Background(lipgloss.Color(voidColor)).Foreground(lipgloss.Color(strconv.Itoa(ps.Color)))
		if ps.HasTarget && ps.Unit.Enabled() {
			targets[ps.Target] = ps.ID
		}
	}

	var sb strings.Builder
	for y := range f.Map.Height() {
		for x := range f.Map.Width() {
			c := grid.Cell{X: x, Y: y}
			if f.Map.IsWall(c) {
				sb.WriteString(wallStyle)
				continue
			}
			if ps, ok := f.HeadAt(c); ok {
				sb.WriteString(colors[ps.ID].Bold(true).Render(headRunes[ps.Heading]))
				continue
			}
			tile := f.Map.At(c)
			switch {
			case tile.Trail != game.NoOwner:
				sb.WriteString(colors[tile.Trail].Render(tailRune(f, c, tile.Trail)))
			case targets[c] != game.NoOwner:
				sb.WriteString(colors[targets[c]].Render(targetRune))
			case tile.Owner != game.NoOwner:
				sb.WriteString(colors[tile.Owner].Render(claimedEstateRune))
			default:
				sb.WriteString(voidStyle)
			}
		}
		if y < f.Map.Height()-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// tailRune picks a box-drawing piece that joins the trail cell at c to its
// neighbours of the same trail, the head included.
func tailRune(f game.Frame, c grid.Cell, id int) string {
	joined := func(d grid.Direction) bool {
		n := c.Step(d)
		if f.Map.IsWall(n) {
			return false
		}
		if f.Map.At(n).Trail == id {
			return true
		}
		ps, ok := f.HeadAt(n)
		return ok && ps.ID == id
	}
	hasUp, hasDown := joined(grid.North), joined(grid.South)
	hasLeft, hasRight := joined(grid.West), joined(grid.East)

	switch {
	case (hasUp && hasDown) || (hasUp && !hasLeft && !hasRight && !hasDown) || (hasDown && !hasLeft && !hasRight && !hasUp):
		return "│"
	case (hasLeft && hasRight) || (hasLeft && !hasUp && !hasDown && !hasRight) || (hasRight && !hasUp && !hasDown && !hasLeft):
		return "─"
	case hasUp && hasRight:
		return "└"
	case hasUp && hasLeft:
		return "┘"
	case hasDown && hasRight:
		return "┌"
	case hasDown && hasLeft:
		return "┐"
	}
	return "•"
}

// renderStatusPanel lists the turn counter and every bot's current state.
func (m GameModel) renderStatusPanel() string {
	var status strings.Builder

	status.WriteString(sectionStyle.Render("--- Match ---") + "\n")
	status.WriteString(fmt.Sprintf("Turn: %d/%d\n", m.frame.Turn, m.match.Config().MaxTurns))
	if m.state == StatePaused {
		status.WriteString(pausedStyle.Render("PAUSED") + "\n")
	}
	if m.err != nil {
		status.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	}

	status.WriteString("\n" + sectionStyle.Render("--- Bots ---") + "\n")
	for i, ps := range m.frame.Standings() {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(strconv.Itoa(ps.Color))).Render("● ")
		status.WriteString(fmt.Sprintf("%d. %s%s (%s)\n", i+1, dot, ps.Name, ps.Navigation))
		if !ps.Unit.Enabled() {
			status.WriteString(faintStyle.Render(fmt.Sprintf("   respawn in %d", ps.RespawnIn)) + "\n")
		} else {
			line := "   " + ps.Mode
			if ps.HasTarget {
				line += " → " + ps.Target.String()
			}
			status.WriteString(line + "\n")
		}
		status.WriteString(fmt.Sprintf("   %.2f%%  K %d  D %d\n", m.frame.ClaimedPct(ps), ps.Kills, ps.Deaths))
	}
	return status.String()
}
