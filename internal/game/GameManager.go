package game

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Mshel/serpentine/internal/grid"
	"github.com/charmbracelet/log"
)

var ErrTooManyPlayers = errors.New("arena has no free spawn point")

// Arena owns the board and every player on it. All mutation goes through
// Step; readers take a Frame.
type Arena struct {
	mu sync.RWMutex

	gameMap      *GameMap
	players      []*Player
	turn         int
	respawnTurns int
	fillWorkers  int
	logger       *log.Logger
}

// spawnPoints are the four quadrant starts, one per player slot.
func spawnPoints(width, height int) []grid.Cell {
	return []grid.Cell{
		{X: 3, Y: 3},
		{X: width - 4, Y: 3},
		{X: 3, Y: height - 4},
		{X: width - 4, Y: height - 4},
	}
}

func NewArena(cfg Config, logger *log.Logger) (*Arena, error) {
	if logger == nil {
		logger = log.Default()
	}
	spawns := spawnPoints(cfg.Width, cfg.Height)
	if len(cfg.Bots) > len(spawns) {
		return nil, fmt.Errorf("%w: %d bots for %d slots", ErrTooManyPlayers, len(cfg.Bots), len(spawns))
	}

	a := &Arena{
		gameMap:      newGameMap(cfg.Width, cfg.Height),
		respawnTurns: cfg.RespawnTurns,
		fillWorkers:  max(cfg.FillWorkers, 1),
		logger:       logger,
	}
	for i, spec := range cfg.Bots {
		p := newPlayer(i+1, spec, spawns[i])
		a.players = append(a.players, p)
		a.grantHome(p)
	}
	return a, nil
}

// grantHome claims the 3x3 block around the player's spawn.
func (a *Arena) grantHome(p *Player) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			c := grid.Cell{X: p.Spawn.X + dx, Y: p.Spawn.Y + dy}
			if !a.gameMap.IsWall(c) {
				a.gameMap.At(c).Owner = p.ID
			}
		}
	}
}

func (a *Arena) Turn() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.turn
}

func (a *Arena) Size() (width, height int) {
	return a.gameMap.Width(), a.gameMap.Height()
}

// Step advances the arena by one turn. Moves for disabled or unknown players
// are ignored; a missing or None move holds position. Players whose respawn
// delay runs out come back at the end of the turn.
func (a *Arena) Step(ctx context.Context, moves map[int]grid.Direction) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.turn++

	next := make(map[int]grid.Cell, len(a.players))
	var active []*Player
	for _, p := range a.players {
		if !p.Enabled() {
			continue
		}
		active = append(active, p)
		d := moves[p.ID]
		if d == grid.None {
			next[p.ID] = p.Position
			continue
		}
		p.Heading = d
		next[p.ID] = p.Position.Step(d)
	}

	crashed := map[int]string{}
	for _, p := range active {
		c := next[p.ID]
		if c == p.Position {
			continue
		}
		switch {
		case a.gameMap.IsWall(c):
			crashed[p.ID] = "wall"
		case a.gameMap.At(c).Trail == p.ID:
			crashed[p.ID] = "own trail"
		}
	}

	for i, p := range active {
		for _, q := range active[i+1:] {
			meet := next[p.ID] == next[q.ID]
			swap := next[p.ID] == q.Position && next[q.ID] == p.Position
			if meet || swap {
				crashed[p.ID] = "head-on with " + q.Name
				crashed[q.ID] = "head-on with " + p.Name
			}
		}
	}

	for _, p := range active {
		c := next[p.ID]
		if c == p.Position || a.gameMap.IsWall(c) {
			continue
		}
		victim := a.gameMap.At(c).Trail
		if victim == NoOwner || victim == p.ID {
			continue
		}
		if _, dead := crashed[victim]; !dead {
			crashed[victim] = "trail cut by " + p.Name
			p.Kills++
		}
	}

	for _, p := range active {
		if reason, dead := crashed[p.ID]; dead {
			a.sunset(p, reason)
		}
	}
	for _, p := range active {
		if _, dead := crashed[p.ID]; dead {
			continue
		}
		if err := a.advance(ctx, p, next[p.ID]); err != nil {
			return err
		}
	}
	a.rebirth()
	return nil
}

// advance moves a surviving player onto c, extending its trail outside its
// territory or closing the loop on the way back in.
func (a *Arena) advance(ctx context.Context, p *Player, c grid.Cell) error {
	if c == p.Position {
		return nil
	}
	p.Position = c
	tile := a.gameMap.At(c)
	if tile.Owner == p.ID {
		if len(p.trail) > 0 {
			return a.capture(ctx, p)
		}
		return nil
	}
	tile.Trail = p.ID
	p.trail = append(p.trail, c)
	return nil
}

// Frame copies the arena state for readers that must not hold the lock.
func (a *Arena) Frame() Frame {
	a.mu.RLock()
	defer a.mu.RUnlock()

	f := Frame{
		Turn:    a.turn,
		Map:     a.gameMap.clone(),
		Players: make([]PlayerState, 0, len(a.players)),
	}
	for _, p := range a.players {
		f.Players = append(f.Players, PlayerState{
			ID:         p.ID,
			Name:       p.Name,
			Color:      p.Color,
			Kind:       p.Kind,
			Navigation: p.Navigation,
			Heading:    p.Heading,
			Kills:      p.Kills,
			Deaths:     p.Deaths,
			Claimed:    a.gameMap.claimed(p.ID),
			RespawnIn:  p.respawnIn,
			Unit:       p.Unit(),
		})
	}
	return f
}
