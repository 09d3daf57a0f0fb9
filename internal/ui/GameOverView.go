package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Mshel/serpentine/internal/game"
	"github.com/charmbracelet/lipgloss"
)

// GameOverState holds the final standings of a finished match.
type GameOverState struct {
	Turns          int
	Standings      []game.PlayerState
	ClaimedPct     []float64
	SelectedButton int
	ScreenWidth    int
	ScreenHeight   int
}

var (
	gameOverButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Padding(0, 3).
				Margin(1, 1).
				Bold(true)

	selectedButtonStyle = gameOverButtonStyle.
				Background(lipgloss.Color("4")).
				Foreground(lipgloss.Color("15"))

	leaderboardHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("236")).
				Padding(0, 1).
				Align(lipgloss.Center)

	leaderboardRowStyle = lipgloss.NewStyle().
				Padding(0, 1)

	leaderboardBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(lipgloss.Color("8"))
)

func newGameOverState(f game.Frame, width, height int) GameOverState {
	g := GameOverState{
		Turns:        f.Turn,
		Standings:    f.Standings(),
		ScreenWidth:  width,
		ScreenHeight: height,
	}
	for _, ps := range g.Standings {
		g.ClaimedPct = append(g.ClaimedPct, f.ClaimedPct(ps))
	}
	return g
}

// RenderGameOverScreen draws the final standings and the menu buttons.
func (g *GameOverState) RenderGameOverScreen() string {
	messageStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("10")).
		Padding(1, 5).
		Align(lipgloss.Center)

	title := messageStyle.Render("M A T C H   O V E R")

	var summary string
	if len(g.Standings) > 0 {
		summary = fmt.Sprintf("%s wins with %.2f%% after %d turns\n", g.Standings[0].Name, g.ClaimedPct[0], g.Turns)
	}

	menuButton := gameOverButtonStyle.Render("MENU")
	leaderboardButton := gameOverButtonStyle.Render("LEADERBOARD")
	if g.SelectedButton == 0 {
		menuButton = selectedButtonStyle.Render("MENU")
	} else {
		leaderboardButton = selectedButtonStyle.Render("LEADERBOARD")
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Center, menuButton, leaderboardButton)
	hint := faintStyle.Render("r to play again")

	content := lipgloss.JoinVertical(lipgloss.Center, title, summary, g.renderStandings(), buttons, hint)

	return lipgloss.Place(g.ScreenWidth, g.ScreenHeight,
		lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Render(content),
	)
}

func (g *GameOverState) renderStandings() string {
	const (
		nameWidth    = 14
		claimedWidth = 10
		numWidth     = 7
	)
	var table strings.Builder

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		leaderboardHeaderStyle.Width(4).Render("#"),
		leaderboardHeaderStyle.Width(nameWidth).Render("Bot"),
		leaderboardHeaderStyle.Width(claimedWidth).Render("Claimed"),
		leaderboardHeaderStyle.Width(numWidth).Render("Kills"),
		leaderboardHeaderStyle.Width(numWidth).Render("Deaths"),
	)
	table.WriteString(header + "\n")

	for i, ps := range g.Standings {
		colorStyle := leaderboardRowStyle.Foreground(lipgloss.Color(strconv.Itoa(ps.Color)))
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			leaderboardRowStyle.Width(4).Render(strconv.Itoa(i+1)),
			colorStyle.Width(nameWidth).Render(ps.Name),
			leaderboardRowStyle.Width(claimedWidth).Render(fmt.Sprintf("%.2f%%", g.ClaimedPct[i])),
			leaderboardRowStyle.Width(numWidth).Render(strconv.Itoa(ps.Kills)),
			leaderboardRowStyle.Width(numWidth).Render(strconv.Itoa(ps.Deaths)),
		)
		table.WriteString(leaderboardBorderStyle.Render(row) + "\n")
	}
	return table.String()
}
