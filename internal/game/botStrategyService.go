package game

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Mshel/serpentine/internal/bot"
	"github.com/Mshel/serpentine/internal/grid"
	lua "github.com/yuin/gopher-lua"
)

const luaEntryPoint = "getNextDirection"

var ErrScriptResult = errors.New("script returned an invalid direction")

//go:embed scripts/wanderer.lua
var wandererScript string

// LuaStrategy runs a script that defines getNextDirection(state) and returns
// a {Dx=, Dy=} table. Each strategy owns its interpreter, so script globals
// persist between turns.
type LuaStrategy struct {
	name    string
	state   *lua.LState
	timeout time.Duration
	turn    int
}

// NewLuaStrategy compiles source, or the built-in wanderer when source is
// empty.
func NewLuaStrategy(name, source string, timeout time.Duration) (*LuaStrategy, error) {
	if source == "" {
		source = wandererScript
	}
	luaState := lua.NewState()
	if err := luaState.DoString(source); err != nil {
		luaState.Close()
		return nil, fmt.Errorf("could not parse lua strategy %s: %w", name, err)
	}
	if luaState.GetGlobal(luaEntryPoint).Type() != lua.LTFunction {
		luaState.Close()
		return nil, fmt.Errorf("lua strategy %s does not define %s", name, luaEntryPoint)
	}
	return &LuaStrategy{name: name, state: luaState, timeout: timeout}, nil
}

func LoadLuaStrategy(name, path string, timeout time.Duration) (*LuaStrategy, error) {
	if path == "" {
		return NewLuaStrategy(name, "", timeout)
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lua strategy %s: %w", name, err)
	}
	return NewLuaStrategy(name, string(source), timeout)
}

func (l *LuaStrategy) Close() {
	l.state.Close()
}

func (l *LuaStrategy) Turn(world bot.World, me grid.Unit, enemies []grid.Unit) (grid.Direction, error) {
	defer func() { l.turn++ }()
	if !me.Enabled() {
		return grid.None, nil
	}

	if l.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		defer cancel()
		l.state.SetContext(ctx)
		defer l.state.RemoveContext()
	}

	l.state.Push(l.state.GetGlobal(luaEntryPoint))
	l.state.Push(l.stateTable(world, me))
	if err := l.state.PCall(1, 1, nil); err != nil {
		return grid.None, fmt.Errorf("could not execute lua strategy %s: %w", l.name, err)
	}

	luaReturn := l.state.Get(-1)
	l.state.Pop(1)
	luaTable, ok := luaReturn.(*lua.LTable)
	if !ok {
		return grid.None, fmt.Errorf("%w: %s returned %s, expected table", ErrScriptResult, l.name, luaReturn.Type())
	}
	return convertLuaDirectionTable(luaTable)
}

// stateTable exposes the head, trail size and per-direction safety.
func (l *LuaStrategy) stateTable(world bot.World, me grid.Unit) *lua.LTable {
	t := l.state.NewTable()
	t.RawSetString("Turn", lua.LNumber(l.turn))
	t.RawSetString("Width", lua.LNumber(world.Width()))
	t.RawSetString("Height", lua.LNumber(world.Height()))
	t.RawSetString("Head", l.cellTable(me.Position))
	t.RawSetString("Size", lua.LNumber(len(me.Body)))
	t.RawSetString("Territory", lua.LString(world.Territory(me.Position).String()))

	safe := l.state.NewTable()
	for _, d := range grid.Directions {
		next := world.Neighbour(me.Position, d)
		safe.RawSetString(d.String(), lua.LBool(!world.IsWall(next) && !me.InBody(next)))
	}
	t.RawSetString("Safe", safe)

	if home, ok := world.NearestFriendlyTerritory(me.Position); ok {
		t.RawSetString("Home", l.cellTable(home))
	}
	if enemy, ok := world.NearestEnemyHead(me.Position); ok {
		t.RawSetString("Enemy", l.cellTable(enemy.Position))
	}
	return t
}

func (l *LuaStrategy) cellTable(c grid.Cell) *lua.LTable {
	t := l.state.NewTable()
	t.RawSetString("X", lua.LNumber(c.X))
	t.RawSetString("Y", lua.LNumber(c.Y))
	return t
}

// convertLuaDirectionTable maps {Dx=, Dy=} onto a direction. {0,0} holds.
func convertLuaDirectionTable(luaTbl *lua.LTable) (grid.Direction, error) {
	var dx, dy int
	luaTbl.ForEach(func(key, value lua.LValue) {
		if key.Type() != lua.LTString {
			return
		}
		switch lua.LVAsString(key) {
		case "Dx":
			dx = int(lua.LVAsNumber(value))
		case "Dy":
			dy = int(lua.LVAsNumber(value))
		}
	})
	if dx == 0 && dy == 0 {
		return grid.None, nil
	}
	for _, d := range grid.Directions {
		if ddx, ddy := d.Delta(); ddx == dx && ddy == dy {
			return d, nil
		}
	}
	return grid.None, fmt.Errorf("%w: Dx=%d Dy=%d", ErrScriptResult, dx, dy)
}
