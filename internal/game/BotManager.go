package game

import (
	"context"
	"errors"

	"github.com/Mshel/serpentine/internal/bot"
	"github.com/Mshel/serpentine/internal/grid"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// BotMaster drives every player in the arena.
type BotMaster struct {
	bots   []*Bot
	logger *log.Logger
}

// NewBotMaster builds one bot per roster entry; the i-th entry drives player
// i+1, matching NewArena.
func NewBotMaster(cfg Config, logger *log.Logger) (*BotMaster, error) {
	if logger == nil {
		logger = log.Default()
	}
	bm := &BotMaster{logger: logger}
	for i, spec := range cfg.Bots {
		b, err := newBot(i+1, spec, cfg.Width, cfg.Height, cfg.DecisionTimeout, logger)
		if err != nil {
			bm.Close()
			return nil, err
		}
		bm.bots = append(bm.bots, b)
	}
	return bm, nil
}

func (bm *BotMaster) Bots() []*Bot {
	return bm.bots
}

// Decide asks every bot for its move against the same frame. Bots run in
// parallel; each only touches its own strategy. A strategy error is logged
// and the bot holds.
func (bm *BotMaster) Decide(ctx context.Context, f *Frame) (map[int]grid.Direction, error) {
	moves := make([]grid.Direction, len(bm.bots))

	g, ctx := errgroup.WithContext(ctx)
	for i, b := range bm.bots {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			snap, err := NewSnapshot(f, b.PlayerID)
			if err != nil {
				return err
			}
			d, err := b.Strategy.Turn(snap, snap.Me(), snap.Enemies())
			switch {
			case errors.Is(err, bot.ErrNoLegalMove):
				b.logger.Debug("No legal move, holding", "turn", f.Turn)
			case err != nil:
				b.logger.Warn("Strategy failed, holding", "turn", f.Turn, "error", err)
				d = grid.None
			}
			moves[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[int]grid.Direction, len(moves))
	for i, b := range bm.bots {
		out[b.PlayerID] = moves[i]
	}
	return out, nil
}

// Annotate copies each strategy's mode and target into the frame.
func (bm *BotMaster) Annotate(f *Frame) {
	for _, b := range bm.bots {
		for i := range f.Players {
			if f.Players[i].ID != b.PlayerID {
				continue
			}
			mode, target, ok := b.describe()
			f.Players[i].Mode = mode
			f.Players[i].Target = target
			f.Players[i].HasTarget = ok
		}
	}
}

func (bm *BotMaster) Close() {
	for _, b := range bm.bots {
		b.Close()
	}
}
