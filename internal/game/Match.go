package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var ErrMatchOver = errors.New("match is over")

// Match runs one arena for a fixed number of turns and records the outcome.
type Match struct {
	mu     sync.Mutex
	cfg    Config
	arena  *Arena
	bots   *BotMaster
	store  ResultRecorder
	logger *log.Logger

	frame  Frame
	done   bool
	closed bool
}

// NewMatch prepares an arena and its bots. store may be nil, in which case
// results are only logged.
func NewMatch(cfg Config, store ResultRecorder, logger *log.Logger) (*Match, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	arena, err := NewArena(cfg, logger)
	if err != nil {
		return nil, err
	}
	bots, err := NewBotMaster(cfg, logger)
	if err != nil {
		return nil, err
	}

	m := &Match{
		cfg:    cfg,
		arena:  arena,
		bots:   bots,
		store:  store,
		logger: logger,
		frame:  arena.Frame(),
	}
	bots.Annotate(&m.frame)
	return m, nil
}

func (m *Match) Config() Config {
	return m.cfg
}

// Frame returns the state after the most recent turn.
func (m *Match) Frame() Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frame
}

func (m *Match) Done() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done
}

// Step plays one turn: every bot decides against the last frame, then the
// arena applies all moves at once.
func (m *Match) Step(ctx context.Context) (Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.done {
		return m.frame, ErrMatchOver
	}
	moves, err := m.bots.Decide(ctx, &m.frame)
	if err != nil {
		return m.frame, err
	}
	if err := m.arena.Step(ctx, moves); err != nil {
		return m.frame, err
	}
	m.frame = m.arena.Frame()
	m.bots.Annotate(&m.frame)

	if m.frame.Turn >= m.cfg.MaxTurns {
		m.done = true
		if err := m.finish(ctx); err != nil {
			return m.frame, err
		}
	}
	return m.frame, nil
}

// Run steps the match every TickDuration until it is over or ctx ends. A zero
// tick runs as fast as the bots decide.
func (m *Match) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if m.cfg.TickDuration > 0 {
		ticker := time.NewTicker(m.cfg.TickDuration)
		defer ticker.Stop()
		tick = ticker.C
	}

	m.logger.Info("Match started", "bots", len(m.cfg.Bots), "turns", m.cfg.MaxTurns)
	for !m.Done() {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := m.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Results converts the current standings into storable rows.
func (m *Match) Results() []Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return resultsFromFrame(&m.frame)
}

func resultsFromFrame(f *Frame) []Result {
	standings := f.Standings()
	results := make([]Result, 0, len(standings))
	for _, ps := range standings {
		results = append(results, Result{
			BotName:    ps.Name,
			Navigation: ps.Navigation,
			ClaimedPct: f.ClaimedPct(ps),
			Kills:      ps.Kills,
			Deaths:     ps.Deaths,
			Turns:      f.Turn,
		})
	}
	return results
}

func (m *Match) finish(ctx context.Context) error {
	results := resultsFromFrame(&m.frame)
	for i, r := range results {
		m.logger.Info("Final standing", "rank", i+1, "bot", r.BotName, "navigation", r.Navigation,
			"claimed", fmt.Sprintf("%.2f%%", r.ClaimedPct), "kills", r.Kills, "deaths", r.Deaths)
	}
	if m.store == nil {
		return nil
	}
	if err := m.store.SaveResults(ctx, results); err != nil {
		return fmt.Errorf("save match results: %w", err)
	}
	return nil
}

// Close ends the match and releases the bots. It waits for a running Step.
func (m *Match) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	m.done = true
	m.bots.Close()
}
