package game

import (
	"github.com/Mshel/serpentine/internal/bot"
	"github.com/Mshel/serpentine/internal/grid"
)

// Strategy picks one move per turn for a single player.
type Strategy interface {
	Turn(world bot.World, me grid.Unit, enemies []grid.Unit) (grid.Direction, error)
}

// stateReporter is implemented by strategies that can tell a spectator what
// they are doing.
type stateReporter interface {
	Mode() bot.Mode
	Target() (grid.Cell, bool)
}

var (
	_ bot.World     = (*Snapshot)(nil)
	_ Strategy      = (*bot.Controller)(nil)
	_ Strategy      = (*LuaStrategy)(nil)
	_ stateReporter = (*bot.Controller)(nil)
)
