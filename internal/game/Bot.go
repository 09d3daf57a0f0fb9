package game

import (
	"fmt"
	"time"

	"github.com/Mshel/serpentine/internal/bot"
	"github.com/Mshel/serpentine/internal/grid"
	"github.com/charmbracelet/log"
)

// Bot binds a strategy to the player it drives.
type Bot struct {
	PlayerID int
	Name     string
	Strategy Strategy
	logger   *log.Logger
}

func newBot(id int, spec BotSpec, width, height int, timeout time.Duration, logger *log.Logger) (*Bot, error) {
	botLogger := logger.With("bot", spec.Name)

	var strategy Strategy
	switch spec.Kind {
	case KindController:
		cfg, err := spec.ControllerConfig(width, height)
		if err != nil {
			return nil, fmt.Errorf("bot %s: %w", spec.Name, err)
		}
		controller, err := bot.NewController(cfg, botLogger)
		if err != nil {
			return nil, fmt.Errorf("bot %s: %w", spec.Name, err)
		}
		strategy = controller
	case KindLua:
		script, err := LoadLuaStrategy(spec.Name, spec.Script, timeout)
		if err != nil {
			return nil, err
		}
		strategy = script
	default:
		return nil, fmt.Errorf("bot %s: unknown kind %q", spec.Name, spec.Kind)
	}

	return &Bot{
		PlayerID: id,
		Name:     spec.Name,
		Strategy: strategy,
		logger:   botLogger,
	}, nil
}

// describe reports the strategy's mode and target, if it exposes them.
func (b *Bot) describe() (mode string, target grid.Cell, hasTarget bool) {
	if r, ok := b.Strategy.(stateReporter); ok {
		target, hasTarget = r.Target()
		return r.Mode().String(), target, hasTarget
	}
	return "scripted", grid.Cell{}, false
}

func (b *Bot) Close() {
	if c, ok := b.Strategy.(interface{ Close() }); ok {
		c.Close()
	}
}
