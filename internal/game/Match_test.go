package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRecorder struct {
	mu      sync.Mutex
	results []Result
	err     error
}

func (r *memoryRecorder) SaveResults(_ context.Context, results []Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.results = append(r.results, results...)
	return nil
}

func newTestMatch(t *testing.T, cfg Config, store ResultRecorder) *Match {
	t.Helper()
	m, err := NewMatch(cfg, store, quietLogger())
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

func TestMatch_RunToCompletion(t *testing.T) {
	cfg := testConfig(20, 20, 4)
	cfg.MaxTurns = 40
	rec := &memoryRecorder{}
	m := newTestMatch(t, cfg, rec)

	require.NoError(t, m.Run(context.Background()))
	assert.True(t, m.Done())
	assert.Equal(t, 40, m.Frame().Turn)

	require.Len(t, rec.results, 4)
	for i, r := range rec.results {
		assert.Equal(t, 40, r.Turns)
		assert.NotEmpty(t, r.Navigation)
		if i > 0 {
			assert.LessOrEqual(t, r.ClaimedPct, rec.results[i-1].ClaimedPct)
		}
	}

	_, err := m.Step(context.Background())
	assert.ErrorIs(t, err, ErrMatchOver)
}

func TestMatch_FramesStayConsistent(t *testing.T) {
	cfg := testConfig(20, 20, 4)
	cfg.MaxTurns = 60
	m := newTestMatch(t, cfg, nil)
	ctx := context.Background()

	interior := (cfg.Width - 2) * (cfg.Height - 2)
	for turn := 1; !m.Done(); turn++ {
		f, err := m.Step(ctx)
		require.NoError(t, err)
		require.Equal(t, turn, f.Turn)

		claimed := 0
		enabled := map[int]bool{}
		for _, ps := range f.Players {
			claimed += ps.Claimed
			enabled[ps.ID] = ps.Unit.Enabled()
			if ps.Unit.Enabled() {
				assert.False(t, f.Map.IsWall(ps.Unit.Position), "turn %d: %s on a wall", turn, ps.Name)
			}
			for _, c := range ps.Unit.Body {
				assert.Equal(t, ps.ID, f.Map.At(c).Trail, "turn %d: %s body %v", turn, ps.Name, c)
			}
		}
		assert.LessOrEqual(t, claimed, interior)

		for y := range cfg.Height {
			for x := range cfg.Width {
				tile := f.Map.tiles[y*cfg.Width+x]
				if tile.Trail != NoOwner {
					assert.True(t, enabled[tile.Trail], "turn %d: trail of disabled player %d at (%d,%d)", turn, tile.Trail, x, y)
				}
			}
		}
	}
}

func TestMatch_Annotates(t *testing.T) {
	m := newTestMatch(t, testConfig(20, 20, 4), nil)
	f := m.Frame()

	require.Len(t, f.Players, 4)
	assert.Zero(t, f.Turn)
	assert.NotEqual(t, "scripted", f.Players[0].Mode)
	assert.NotEmpty(t, f.Players[0].Mode)
	assert.Equal(t, "scripted", f.Players[2].Mode)
	assert.False(t, f.Players[2].HasTarget)
}

func TestMatch_Cancelled(t *testing.T) {
	for _, tick := range []time.Duration{0, time.Hour} {
		cfg := testConfig(20, 20, 2)
		cfg.TickDuration = tick
		m := newTestMatch(t, cfg, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, m.Run(ctx), context.Canceled)
		assert.False(t, m.Done())
	}
}

func TestMatch_SaveFailure(t *testing.T) {
	cfg := testConfig(20, 20, 2)
	cfg.MaxTurns = 1
	boom := errors.New("disk full")
	m := newTestMatch(t, cfg, &memoryRecorder{err: boom})

	_, err := m.Step(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.True(t, m.Done())
}

func TestNewMatch_InvalidConfig(t *testing.T) {
	cfg := testConfig(20, 20, 2)
	cfg.MaxTurns = 0
	_, err := NewMatch(cfg, nil, quietLogger())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestMatch_Close(t *testing.T) {
	m := newTestMatch(t, testConfig(20, 20, 2), nil)
	m.Close()
	m.Close()

	assert.True(t, m.Done())
	_, err := m.Step(context.Background())
	assert.ErrorIs(t, err, ErrMatchOver)
}
