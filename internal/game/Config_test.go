package game

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Mshel/serpentine/internal/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "serpentine.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv(PrivateKeyPathEnv, "")
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Len(t, cfg.Bots, 4)
	assert.Equal(t, "6996", cfg.Server.Port)
}

func TestLoadConfig_File(t *testing.T) {
	t.Setenv(PrivateKeyPathEnv, "")
	path := writeConfig(t, `
width: 20
height: 16
max_turns: 250
tick_duration: 250ms
server:
  port: "2222"
bots:
  - name: Left
    kind: controller
    navigation: field
    tuning:
      attack_range: 4
      opening: false
      preference: [west, south, north, east]
  - name: Script
    kind: lua
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Width)
	assert.Equal(t, 16, cfg.Height)
	assert.Equal(t, 250, cfg.MaxTurns)
	assert.Equal(t, 250*time.Millisecond, cfg.TickDuration)
	// untouched keys keep their defaults
	assert.Equal(t, defaultDecisionTimeout, cfg.DecisionTimeout)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "2222", cfg.Server.Port)
	require.Len(t, cfg.Bots, 2)

	bc, err := cfg.Bots[0].ControllerConfig(cfg.Width, cfg.Height)
	require.NoError(t, err)
	assert.True(t, bc.FieldAscent)
	assert.False(t, bc.Opening)
	assert.Equal(t, 4, bc.AttackRange)
	assert.Equal(t, 20, bc.Width)
	require.NotNil(t, bc.Preference)
	assert.Equal(t, grid.Preference{grid.West, grid.South, grid.North, grid.East}, *bc.Preference)
}

func TestLoadConfig_KeyPathFromEnv(t *testing.T) {
	t.Setenv(PrivateKeyPathEnv, "/keys/host_ed25519")
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "/keys/host_ed25519", cfg.Server.PrivateKeyPath)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "width: [1, 2"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "width: 5"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"tiny arena", func(c *Config) { c.Width = 9 }},
		{"no turns", func(c *Config) { c.MaxTurns = 0 }},
		{"negative tick", func(c *Config) { c.TickDuration = -time.Second }},
		{"no bots", func(c *Config) { c.Bots = nil }},
		{"too many bots", func(c *Config) { c.Bots = append(c.Bots, BotSpec{Name: "Fifth", Kind: KindLua}) }},
		{"unnamed bot", func(c *Config) { c.Bots[0].Name = "" }},
		{"unknown kind", func(c *Config) { c.Bots[0].Kind = "neural" }},
		{"unknown navigation", func(c *Config) { c.Bots[0].Navigation = "compass" }},
		{"negative tuning", func(c *Config) { c.Bots[0].Tuning = &Tuning{DeathBuffer: ptr(-1)} }},
		{"short preference", func(c *Config) { c.Bots[0].Tuning = &Tuning{Preference: []string{"north"}} }},
		{"bad direction", func(c *Config) {
			c.Bots[0].Tuning = &Tuning{Preference: []string{"north", "south", "east", "up"}}
		}},
		{"repeated direction", func(c *Config) {
			c.Bots[0].Tuning = &Tuning{Preference: []string{"north", "south", "east", "east"}}
		}},
	}

	require.NoError(t, DefaultConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestBotSpec_Defaults(t *testing.T) {
	cfg := DefaultConfig()

	cautious := cfg.Bots[3]
	bc, err := cautious.ControllerConfig(cfg.Width, cfg.Height)
	require.NoError(t, err)
	assert.Equal(t, 6, bc.DeathBuffer)
	assert.Equal(t, 1, bc.AttackRange)
	assert.False(t, bc.FieldAscent)
	assert.Nil(t, bc.Preference)

	assert.Equal(t, NavigationField, cfg.Bots[1].navigationLabel())
	assert.Equal(t, KindLua, cfg.Bots[2].navigationLabel())
	assert.Equal(t, 11, playerColor(cautious, 4))
	assert.Equal(t, 12, playerColor(BotSpec{}, 2))
}
