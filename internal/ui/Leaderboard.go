package ui

import (
	"fmt"
	"strconv"

	"github.com/Mshel/serpentine/internal/game"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const leaderboardPageSize = 10

type leaderboardBackMsg struct{}

type leaderboardPageMsg struct {
	offset  int
	total   int
	results []game.Result
	err     error
}

// LeaderboardModel pages through stored match results, best claim first.
type LeaderboardModel struct {
	source ResultSource
	table  table.Model
	offset int
	total  int
	err    error
	width  int
	height int
}

func NewLeaderboardModel(source ResultSource, w, h int) LeaderboardModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Bot", Width: 14},
			{Title: "Nav", Width: 6},
			{Title: "Claimed", Width: 8},
			{Title: "Kills", Width: 6},
			{Title: "Deaths", Width: 6},
			{Title: "Turns", Width: 6},
			{Title: "Played", Width: 16},
		}),
		table.WithFocused(true),
		table.WithHeight(leaderboardPageSize),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("8")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("10"))
	t.SetStyles(styles)

	return LeaderboardModel{source: source, table: t, width: w, height: h}
}

func (m LeaderboardModel) Init() tea.Cmd {
	return m.load(0)
}

func (m LeaderboardModel) load(offset int) tea.Cmd {
	source := m.source
	if source == nil {
		return nil
	}
	return func() tea.Msg {
		total, err := source.Count()
		if err != nil {
			return leaderboardPageMsg{err: err}
		}
		results, err := source.TopResults(leaderboardPageSize, offset)
		return leaderboardPageMsg{offset: offset, total: total, results: results, err: err}
	}
}

func (m LeaderboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case leaderboardPageMsg:
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.offset, m.total = msg.offset, msg.total
		m.table.SetRows(resultRows(msg.results, msg.offset))
		m.table.GotoTop()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "enter", "q":
			return m, func() tea.Msg { return leaderboardBackMsg{} }
		case "right", "l", "pgdown":
			if m.offset+leaderboardPageSize < m.total {
				return m, m.load(m.offset + leaderboardPageSize)
			}
			return m, nil
		case "left", "h", "pgup":
			if m.offset > 0 {
				return m, m.load(max(0, m.offset-leaderboardPageSize))
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func resultRows(results []game.Result, offset int) []table.Row {
	rows := make([]table.Row, 0, len(results))
	for i, r := range results {
		rows = append(rows, table.Row{
			strconv.Itoa(offset + i + 1),
			r.BotName,
			r.Navigation,
			fmt.Sprintf("%.2f%%", r.ClaimedPct),
			strconv.Itoa(r.Kills),
			strconv.Itoa(r.Deaths),
			strconv.Itoa(r.Turns),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return rows
}

func (m LeaderboardModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Padding(1, 0).Render("LEADERBOARD")

	var body string
	switch {
	case m.source == nil:
		body = faintStyle.Render("No results database configured.")
	case m.err != nil:
		body = errorStyle.Render(m.err.Error())
	case m.total == 0:
		body = faintStyle.Render("No finished matches yet.")
	default:
		pages := (m.total + leaderboardPageSize - 1) / leaderboardPageSize
		page := m.offset/leaderboardPageSize + 1
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.table.View(),
			faintStyle.Render(fmt.Sprintf("page %d/%d, %d results", page, pages, m.total)),
		)
	}
	instruction := faintStyle.Margin(1, 0).Render("←/→ to page, ↑/↓ to scroll, esc or enter to return")

	content := lipgloss.JoinVertical(lipgloss.Center, title, body, instruction)
	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Padding(0, 1).Render(content),
	)
}
