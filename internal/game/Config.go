package game

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Mshel/serpentine/internal/bot"
	"github.com/Mshel/serpentine/internal/grid"
	"gopkg.in/yaml.v3"
)

const (
	defaultArenaSize       = 30
	defaultMaxTurns        = 600
	defaultTickDuration    = 100 * time.Millisecond
	defaultDecisionTimeout = 50 * time.Millisecond
	defaultRespawnTurns    = 10
	defaultFillWorkers     = 8
	defaultDatabasePath    = "results.db"

	maxPlayers = 4

	PrivateKeyPathEnv = "SERPENTINE_PRIVATE_KEY_PATH"
)

const (
	KindController = "controller"
	KindLua        = "lua"

	NavigationPath  = "path"
	NavigationField = "field"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Width           int           `yaml:"width"`
	Height          int           `yaml:"height"`
	MaxTurns        int           `yaml:"max_turns"`
	TickDuration    time.Duration `yaml:"tick_duration"`
	DecisionTimeout time.Duration `yaml:"decision_timeout"`
	RespawnTurns    int           `yaml:"respawn_turns"`
	FillWorkers     int           `yaml:"fill_workers"`
	DatabasePath    string        `yaml:"database_path"`

	Server ServerConfig `yaml:"server"`
	Bots   []BotSpec    `yaml:"bots"`
}

type ServerConfig struct {
	Host                string `yaml:"host"`
	Port                string `yaml:"port"`
	PrivateKeyPath      string `yaml:"private_key_path"`
	MaxConnectionsPerIP int    `yaml:"max_connections_per_ip"`
}

// BotSpec describes one roster entry.
type BotSpec struct {
	Name       string  `yaml:"name"`
	Kind       string  `yaml:"kind"`       // controller | lua
	Navigation string  `yaml:"navigation"` // path | field
	Color      int     `yaml:"color"`
	Script     string  `yaml:"script"` // lua source file; empty uses the wanderer
	Tuning     *Tuning `yaml:"tuning"`
}

// Tuning overrides individual controller knobs. Unset fields keep defaults.
type Tuning struct {
	ExpansionDepth     *int     `yaml:"expansion_depth"`
	AttackRange        *int     `yaml:"attack_range"`
	DeathBuffer        *int     `yaml:"death_buffer"`
	EarlyGameTurnLimit *int     `yaml:"early_game_turn_limit"`
	EdgeRank           *int     `yaml:"edge_rank"`
	Opening            *bool    `yaml:"opening"`
	Preference         []string `yaml:"preference"`
}

func DefaultConfig() Config {
	return Config{
		Width:           defaultArenaSize,
		Height:          defaultArenaSize,
		MaxTurns:        defaultMaxTurns,
		TickDuration:    defaultTickDuration,
		DecisionTimeout: defaultDecisionTimeout,
		RespawnTurns:    defaultRespawnTurns,
		FillWorkers:     defaultFillWorkers,
		DatabasePath:    defaultDatabasePath,
		Server: ServerConfig{
			Host:                "0.0.0.0",
			Port:                "6996",
			MaxConnectionsPerIP: 2,
		},
		Bots: []BotSpec{
			{Name: "Pathfinder", Kind: KindController, Navigation: NavigationPath, Color: 9},
			{Name: "Gradient", Kind: KindController, Navigation: NavigationField, Color: 12},
			{Name: "Wanderer", Kind: KindLua, Color: 10},
			{Name: "Cautious", Kind: KindController, Navigation: NavigationPath, Color: 11, Tuning: &Tuning{DeathBuffer: ptr(6), AttackRange: ptr(1)}},
		},
	}
}

// LoadConfig reads path over the defaults. An empty path yields the defaults.
// The SSH key path can always be overridden from the environment.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if keyPath := os.Getenv(PrivateKeyPathEnv); keyPath != "" {
		cfg.Server.PrivateKeyPath = keyPath
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Width < 10 || c.Height < 10 {
		return fmt.Errorf("%w: arena %dx%d is smaller than 10x10", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.MaxTurns <= 0 {
		return fmt.Errorf("%w: max_turns must be positive", ErrInvalidConfig)
	}
	if c.TickDuration < 0 || c.DecisionTimeout < 0 || c.RespawnTurns < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidConfig)
	}
	if len(c.Bots) == 0 || len(c.Bots) > maxPlayers {
		return fmt.Errorf("%w: need 1 to %d bots, got %d", ErrInvalidConfig, maxPlayers, len(c.Bots))
	}
	for _, spec := range c.Bots {
		if spec.Name == "" {
			return fmt.Errorf("%w: bot without a name", ErrInvalidConfig)
		}
		switch spec.Kind {
		case KindController:
			if spec.Navigation != NavigationPath && spec.Navigation != NavigationField {
				return fmt.Errorf("%w: bot %s: unknown navigation %q", ErrInvalidConfig, spec.Name, spec.Navigation)
			}
			if _, err := spec.ControllerConfig(c.Width, c.Height); err != nil {
				return fmt.Errorf("%w: bot %s: %v", ErrInvalidConfig, spec.Name, err)
			}
		case KindLua:
		default:
			return fmt.Errorf("%w: bot %s: unknown kind %q", ErrInvalidConfig, spec.Name, spec.Kind)
		}
	}
	return nil
}

// ControllerConfig maps the roster entry onto a bot.Config for an arena of
// the given size.
func (s BotSpec) ControllerConfig(width, height int) (bot.Config, error) {
	cfg := bot.DefaultConfig()
	cfg.Width, cfg.Height = width, height
	cfg.FieldAscent = s.Navigation == NavigationField

	if t := s.Tuning; t != nil {
		setIfPresent(&cfg.ExpansionDepth, t.ExpansionDepth)
		setIfPresent(&cfg.AttackRange, t.AttackRange)
		setIfPresent(&cfg.DeathBuffer, t.DeathBuffer)
		setIfPresent(&cfg.EarlyGameTurnLimit, t.EarlyGameTurnLimit)
		setIfPresent(&cfg.EdgeRank, t.EdgeRank)
		setIfPresent(&cfg.Opening, t.Opening)

		if len(t.Preference) > 0 {
			if len(t.Preference) != 4 {
				return bot.Config{}, fmt.Errorf("preference needs 4 directions, got %d", len(t.Preference))
			}
			var pref grid.Preference
			for i, name := range t.Preference {
				d, err := grid.ParseDirection(name)
				if err != nil {
					return bot.Config{}, err
				}
				pref[i] = d
			}
			cfg.Preference = &pref
		}
	}
	return cfg, cfg.Validate()
}

func (s BotSpec) navigationLabel() string {
	if s.Kind == KindLua {
		return KindLua
	}
	return s.Navigation
}

func setIfPresent[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func ptr[T any](v T) *T {
	return &v
}
