package game

import "github.com/Mshel/serpentine/internal/grid"

// sunset takes a player out of play: its trail is wiped and it waits out the
// respawn delay. Territory stays on the board.
func (a *Arena) sunset(p *Player, reason string) {
	for _, c := range p.trail {
		if tile := a.gameMap.At(c); tile.Trail == p.ID {
			tile.Trail = NoOwner
		}
	}
	p.resetTail()
	p.Status = grid.Disabled
	p.Heading = grid.None
	p.Deaths++
	p.respawnIn = a.respawnTurns
	a.logger.Info("Player down", "player", p.Name, "turn", a.turn, "reason", reason, "deaths", p.Deaths)
}

// rebirth counts down disabled players and puts them back on their spawn
// with a fresh home block.
func (a *Arena) rebirth() {
	for _, p := range a.players {
		if p.Enabled() {
			continue
		}
		if p.respawnIn > 0 {
			p.respawnIn--
			continue
		}
		p.Position = p.Spawn
		p.Status = grid.Enabled
		a.grantHome(p)
		a.logger.Info("Player respawned", "player", p.Name, "turn", a.turn, "spawn", p.Spawn)
	}
}
