package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	introWatch IntroSubmitMsg = iota
	introLeaderboard
)

// IntroModel holds the state for the main menu.
type IntroModel struct {
	selected IntroSubmitMsg
	width    int
	height   int
}

func NewIntroModel(w, h int) IntroModel {
	return IntroModel{selected: introWatch, width: w, height: h}
}

func (m IntroModel) Init() tea.Cmd { return nil }

func (m IntroModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h", "right", "l", "tab":
			if m.selected == introWatch {
				m.selected = introLeaderboard
			} else {
				m.selected = introWatch
			}
		case "enter":
			selected := m.selected
			return m, func() tea.Msg { return selected }
		case "q", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

var serpentineTitle = `
█▀▀ █▀▀ █▀█ █▀█ █▀▀ █▄ █ ▀█▀ █ █▄ █ █▀▀
▀▀█ █▀▀ █▀▄ █▀▀ █▀▀ █ ▀█  █  █ █ ▀█ █▀▀
▀▀▀ ▀▀▀ ▀ ▀ ▀   ▀▀▀ ▀  ▀  ▀  ▀ ▀  ▀ ▀▀▀
`

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	taglineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	introButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Padding(0, 3).
				Margin(1, 2).
				Border(lipgloss.RoundedBorder())

	introSelectedButtonStyle = introButtonStyle.
					Background(lipgloss.Color("10")).
					Foreground(lipgloss.Color("0"))
)

func (m IntroModel) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(serpentineTitle))
	sb.WriteString("\n")
	sb.WriteString(taglineStyle.Render("four bots, one arena, no humans"))
	sb.WriteString("\n")

	watch := introButtonStyle.Render("Watch a Match")
	leaderboard := introButtonStyle.Render("View Leaderboard")
	if m.selected == introWatch {
		watch = introSelectedButtonStyle.Render("Watch a Match")
	} else {
		leaderboard = introSelectedButtonStyle.Render("View Leaderboard")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, watch, leaderboard)
	content := lipgloss.JoinVertical(lipgloss.Center, sb.String(), buttons)

	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
}
