package ui

import (
	"context"

	"github.com/Mshel/serpentine/internal/game"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

type Screen int

const (
	IntroScreen Screen = iota
	SetupScreen
	GameScreen
	LeaderboardScreen
)

// Messages for screen transitions
type IntroSubmitMsg int // introWatch or introLeaderboard
type SetupSubmitMsg struct {
	Config game.Config
}
type ShowLeaderboardMsg struct{}
type RestartMatchMsg struct{}

// BackToMenuMsg returns to the intro screen from any other screen.
type BackToMenuMsg struct{}

// ResultSource is the read side of the result store.
type ResultSource interface {
	TopResults(limit, offset int) ([]game.Result, error)
	Count() (int, error)
}

// ControllerModel switches between the screens of one spectator session.
// Every session gets its own match.
type ControllerModel struct {
	CurrentScreen Screen

	IntroModel       tea.Model
	SetupModel       tea.Model
	GameModel        tea.Model
	LeaderboardModel tea.Model

	ScreenWidth  int
	ScreenHeight int

	ctx        context.Context
	baseConfig game.Config
	recorder   game.ResultRecorder
	results    ResultSource
	logger     *log.Logger
	match      *game.Match
	matchCfg   game.Config
	stopClose  func() bool
	// previous is where the leaderboard returns to.
	previous Screen
}

// NewControllerModel builds the root model. store may be nil when no results
// database is configured.
func NewControllerModel(ctx context.Context, cfg game.Config, store *game.ResultStore, logger *log.Logger, screenWidth, screenHeight int) *ControllerModel {
	if logger == nil {
		logger = log.Default()
	}
	m := &ControllerModel{
		CurrentScreen: IntroScreen,
		IntroModel:    NewIntroModel(screenWidth, screenHeight),
		SetupModel:    NewSetupModel(cfg, screenWidth, screenHeight),
		ScreenWidth:   screenWidth,
		ScreenHeight:  screenHeight,
		ctx:           ctx,
		baseConfig:    cfg,
		logger:        logger,
	}
	// keep the interfaces nil rather than holding a typed nil pointer
	if store != nil {
		m.recorder = store
		m.results = store
	}
	return m
}

func (m *ControllerModel) Init() tea.Cmd {
	return m.IntroModel.Init()
}

func (m *ControllerModel) View() string {
	switch m.CurrentScreen {
	case IntroScreen:
		return m.IntroModel.View()
	case SetupScreen:
		return m.SetupModel.View()
	case GameScreen:
		if m.GameModel != nil {
			return m.GameModel.View()
		}
		return "Match loading..."
	case LeaderboardScreen:
		if m.LeaderboardModel != nil {
			return m.LeaderboardModel.View()
		}
	}
	return "Unknown Screen"
}

func (m *ControllerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "ctrl+c" {
		m.closeMatch()
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth, m.ScreenHeight = msg.Width, msg.Height
		return m, m.broadcast(msg)

	case IntroSubmitMsg:
		switch msg {
		case introWatch:
			m.CurrentScreen = SetupScreen
			return m, m.SetupModel.Init()
		case introLeaderboard:
			return m, m.showLeaderboard()
		}

	case SetupSubmitMsg:
		return m, m.startMatch(msg.Config)

	case RestartMatchMsg:
		return m, m.startMatch(m.matchCfg)

	case ShowLeaderboardMsg:
		return m, m.showLeaderboard()

	case leaderboardBackMsg:
		m.CurrentScreen = m.previous
		return m, nil

	case BackToMenuMsg:
		m.closeMatch()
		m.GameModel = nil
		m.CurrentScreen = IntroScreen
		return m, m.IntroModel.Init()
	}

	var cmd tea.Cmd
	switch m.CurrentScreen {
	case IntroScreen:
		m.IntroModel, cmd = m.IntroModel.Update(msg)
	case SetupScreen:
		m.SetupModel, cmd = m.SetupModel.Update(msg)
	case GameScreen:
		if m.GameModel != nil {
			m.GameModel, cmd = m.GameModel.Update(msg)
		}
	case LeaderboardScreen:
		if m.LeaderboardModel != nil {
			m.LeaderboardModel, cmd = m.LeaderboardModel.Update(msg)
		}
	}
	// frames keep flowing while the leaderboard is open over a match
	if m.CurrentScreen == LeaderboardScreen && m.GameModel != nil {
		if _, ok := msg.(tea.KeyMsg); !ok {
			var gameCmd tea.Cmd
			m.GameModel, gameCmd = m.GameModel.Update(msg)
			cmd = tea.Batch(cmd, gameCmd)
		}
	}
	return m, cmd
}

// broadcast forwards msg to every live screen.
func (m *ControllerModel) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.IntroModel, cmd = m.IntroModel.Update(msg)
	cmds = append(cmds, cmd)
	m.SetupModel, cmd = m.SetupModel.Update(msg)
	cmds = append(cmds, cmd)
	if m.GameModel != nil {
		m.GameModel, cmd = m.GameModel.Update(msg)
		cmds = append(cmds, cmd)
	}
	if m.LeaderboardModel != nil {
		m.LeaderboardModel, cmd = m.LeaderboardModel.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m *ControllerModel) startMatch(cfg game.Config) tea.Cmd {
	m.closeMatch()
	match, err := game.NewMatch(cfg, m.recorder, m.logger)
	if err != nil {
		m.logger.Error("Could not start match", "error", err)
		m.CurrentScreen = SetupScreen
		return func() tea.Msg { return setupErrMsg{err: err} }
	}
	m.logger.Info("Match created", "width", cfg.Width, "height", cfg.Height, "turns", cfg.MaxTurns)
	m.match = match
	m.matchCfg = cfg
	// the session may end without a final key press
	m.stopClose = context.AfterFunc(m.ctx, match.Close)
	m.GameModel = NewGameModel(m.ctx, match, m.ScreenWidth, m.ScreenHeight)
	m.CurrentScreen = GameScreen
	return m.GameModel.Init()
}

func (m *ControllerModel) showLeaderboard() tea.Cmd {
	if m.CurrentScreen != LeaderboardScreen {
		m.previous = m.CurrentScreen
	}
	lb := NewLeaderboardModel(m.results, m.ScreenWidth, m.ScreenHeight)
	m.LeaderboardModel = lb
	m.CurrentScreen = LeaderboardScreen
	return lb.Init()
}

func (m *ControllerModel) closeMatch() {
	if m.match == nil {
		return
	}
	m.stopClose()
	m.match.Close()
	m.match = nil
}
