package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Mshel/serpentine/internal/game"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	focusedColor = lipgloss.Color("10")
	blurredColor = lipgloss.Color("240")
	focusedStyle = lipgloss.NewStyle().Foreground(focusedColor)
	blurredStyle = lipgloss.NewStyle().Foreground(blurredColor)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	formHelp     = blurredStyle

	buttonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder())

	submitButtonStyle = buttonStyle.
				BorderForeground(focusedColor).
				Padding(0, 1)

	blurredButtonStyle = buttonStyle.
				BorderForeground(blurredColor).
				Padding(0, 1)
)

const (
	fieldTurns = iota
	fieldTick
	fieldSize
	fieldSubmit
)

type setupErrMsg struct {
	err error
}

// SetupModel lets the spectator adjust the match before it starts.
type SetupModel struct {
	base       game.Config
	inputs     []textinput.Model
	labels     []string
	focusIndex int
	err        error
	width      int
	height     int
}

func NewSetupModel(base game.Config, w, h int) SetupModel {
	m := SetupModel{
		base:   base,
		labels: []string{"Turns", "Tick (ms)", "Arena size"},
		width:  w,
		height: h,
	}
	values := []string{
		strconv.Itoa(base.MaxTurns),
		strconv.FormatInt(base.TickDuration.Milliseconds(), 10),
		strconv.Itoa(base.Width),
	}
	for i, v := range values {
		ti := textinput.New()
		ti.SetValue(v)
		ti.CharLimit = 5
		ti.Width = 8
		ti.Validate = digitsOnly
		ti.PromptStyle = blurredStyle
		ti.TextStyle = blurredStyle
		if i == fieldTurns {
			ti.Focus()
			ti.PromptStyle = focusedStyle
			ti.TextStyle = focusedStyle
		}
		m.inputs = append(m.inputs, ti)
	}
	return m
}

func digitsOnly(s string) error {
	for _, r := range s {
		if r < '0' || r > '9' {
			return fmt.Errorf("%q is not a number", s)
		}
	}
	return nil
}

func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case setupErrMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch s := msg.String(); s {
		case "esc":
			return m, func() tea.Msg { return BackToMenuMsg{} }
		case "enter":
			if m.focusIndex == fieldSubmit {
				cfg, err := m.config()
				if err != nil {
					m.err = err
					return m, nil
				}
				m.err = nil
				return m, func() tea.Msg { return SetupSubmitMsg{Config: cfg} }
			}
			return m, m.focus(m.focusIndex + 1)
		case "tab", "down":
			return m, m.focus((m.focusIndex + 1) % (fieldSubmit + 1))
		case "shift+tab", "up":
			return m, m.focus((m.focusIndex + fieldSubmit) % (fieldSubmit + 1))
		}

		if m.focusIndex < fieldSubmit {
			var cmd tea.Cmd
			m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// focus moves the cursor to field i.
func (m *SetupModel) focus(i int) tea.Cmd {
	m.focusIndex = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
			m.inputs[j].PromptStyle = focusedStyle
			m.inputs[j].TextStyle = focusedStyle
			continue
		}
		m.inputs[j].Blur()
		m.inputs[j].PromptStyle = blurredStyle
		m.inputs[j].TextStyle = blurredStyle
	}
	return cmd
}

// config applies the form to the base config.
func (m SetupModel) config() (game.Config, error) {
	nums := make([]int, fieldSubmit)
	for i := range nums {
		n, err := strconv.Atoi(strings.TrimSpace(m.inputs[i].Value()))
		if err != nil {
			return game.Config{}, fmt.Errorf("%s: %q is not a number", m.labels[i], m.inputs[i].Value())
		}
		nums[i] = n
	}
	cfg := m.base
	cfg.MaxTurns = nums[fieldTurns]
	cfg.TickDuration = time.Duration(nums[fieldTick]) * time.Millisecond
	cfg.Width, cfg.Height = nums[fieldSize], nums[fieldSize]
	if err := cfg.Validate(); err != nil {
		return game.Config{}, err
	}
	return cfg, nil
}

func (m SetupModel) View() string {
	center := func(s string) string {
		return lipgloss.NewStyle().Width(m.width).Align(lipgloss.Center).Render(s)
	}

	var b strings.Builder
	b.WriteString(center(lipgloss.NewStyle().Bold(true).Render("Match setup")))
	b.WriteString("\n\n")

	for i, input := range m.inputs {
		label := blurredStyle.Render(fmt.Sprintf("%-11s", m.labels[i]))
		if i == m.focusIndex {
			label = focusedStyle.Render(fmt.Sprintf("%-11s", m.labels[i]))
		}
		b.WriteString(center(label + input.View()))
		b.WriteString("\n")
	}

	roster := make([]string, 0, len(m.base.Bots))
	for _, spec := range m.base.Bots {
		roster = append(roster, lipgloss.NewStyle().Foreground(lipgloss.Color(strconv.Itoa(spec.Color))).Render("● ")+spec.Name)
	}
	b.WriteString("\n")
	b.WriteString(center(strings.Join(roster, "  ")))
	b.WriteString("\n\n")

	submit := blurredButtonStyle.Render("Start")
	if m.focusIndex == fieldSubmit {
		submit = submitButtonStyle.Render("Start")
	}
	b.WriteString(center(submit))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(center(errorStyle.Render(m.err.Error())))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(center(formHelp.Render("(tab/shift+tab to navigate, enter to confirm, esc for the menu)")))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}
