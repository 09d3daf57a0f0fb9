package bot

import (
	"sort"

	"github.com/Mshel/serpentine/internal/grid"
	"github.com/charmbracelet/log"
)

// Controller decides one move per turn for a single unit. It is not safe for
// concurrent use; each unit owns its own Controller.
type Controller struct {
	cfg    Config
	logger *log.Logger
	field  *Field
	finder *PathFinder

	turn       int
	mode       Mode
	resumeMode Mode
	opening    bool
	outbound   bool
	target     grid.Cell
	hasTarget  bool
	// victim is the unit being chased; meaningful only in ModeEngaging.
	victim int

	// fixed on the first turn
	preference grid.Preference
	increments [2]grid.Cell
	anchor     grid.Cell
	mapEdges   grid.CellSet
}

func NewController(cfg Config, logger *log.Logger) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	c := &Controller{
		cfg:      cfg,
		logger:   logger,
		field:    NewField(cfg.Width, cfg.Height, cfg.Field),
		opening:  cfg.Opening,
		outbound: cfg.Opening,
		mode:     ModeIdle,
	}
	if cfg.Opening {
		c.mode = ModeEarlyGame
	}
	return c, nil
}

func (c *Controller) Mode() Mode { return c.mode }
func (c *Controller) Outbound() bool { return c.outbound }
func (c *Controller) InEarlyGame() bool { return c.opening }
func (c *Controller) TurnCount() int { return c.turn }
func (c *Controller) Preference() grid.Preference { return c.preference }
func (c *Controller) Increments() [2]grid.Cell { return c.increments }

func (c *Controller) Target() (grid.Cell, bool) {
	return c.target, c.hasTarget
}

// Turn returns the move for this turn. The direction is always usable by the
// caller: None means hold, which happens while disabled or when boxed in
// (then the error is ErrNoLegalMove).
func (c *Controller) Turn(world World, me grid.Unit, enemies []grid.Unit) (grid.Direction, error) {
	defer func() { c.turn++ }()

	if c.turn == 0 {
		c.initialize(world, me)
	}
	if !me.Enabled() {
		c.disable()
		return grid.None, nil
	}
	if c.mode == ModeDisabled {
		c.setMode(c.resumeMode)
	}

	c.refresh(world, me)

	if c.mode != ModeEngaging {
		c.engageAdjacentHead(world, me)
	}
	if c.mode != ModeEngaging {
		if c.opening {
			c.earlyGame(world, me, enemies)
		} else {
			c.huntBody(world, me)
			if c.mode != ModeEngaging {
				c.defend(world, me, enemies)
				c.expand(world, me)
			}
		}
	}

	c.checkStale(world, me)
	return c.move(world, me, enemies)
}

func (c *Controller) initialize(world World, me grid.Unit) {
	c.anchor = me.Position
	c.preference, c.increments = quadrant(me.Position, c.cfg.Width, c.cfg.Height)
	if c.cfg.Preference != nil {
		c.preference = *c.cfg.Preference
	}
	c.finder = NewPathFinder(c.preference)
	c.field.WithOrder(c.preference)

	c.mapEdges = grid.CellSet{}
	for y := 1; y < c.cfg.Height-1; y++ {
		for x := 1; x < c.cfg.Width-1; x++ {
			cell := grid.Cell{X: x, Y: y}
			if world.IsWall(cell) {
				continue
			}
			for _, d := range grid.Directions {
				if world.IsWall(world.Neighbour(cell, d)) {
					c.mapEdges.Add(cell)
					break
				}
			}
		}
	}
	c.logger.Debug("Initialized", "anchor", c.anchor, "preference", c.preference, "increments", c.increments)
}

// quadrant derives the search preference and the bootstrap increments from
// the spawn quadrant.
func quadrant(pos grid.Cell, width, height int) (grid.Preference, [2]grid.Cell) {
	left := pos.X < width/2
	top := pos.Y < height/2
	switch {
	case left && top:
		return grid.Preference{grid.West, grid.South, grid.North, grid.East}, [2]grid.Cell{{X: 0, Y: 1}, {X: 1, Y: 0}}
	case left:
		return grid.Preference{grid.West, grid.North, grid.South, grid.East}, [2]grid.Cell{{X: 0, Y: -1}, {X: 1, Y: 0}}
	case top:
		return grid.Preference{grid.East, grid.South, grid.North, grid.West}, [2]grid.Cell{{X: 0, Y: 1}, {X: -1, Y: 0}}
	default:
		return grid.Preference{grid.East, grid.North, grid.South, grid.West}, [2]grid.Cell{{X: 0, Y: -1}, {X: -1, Y: 0}}
	}
}

func (c *Controller) setMode(m Mode) {
	if m != c.mode {
		c.logger.Debug("Mode change", "turn", c.turn, "from", c.mode, "to", m)
	}
	c.mode = m
}

func (c *Controller) setTarget(t grid.Cell) {
	c.target, c.hasTarget = t, true
}

func (c *Controller) clearTarget() {
	c.target, c.hasTarget = grid.Cell{}, false
}

// baseMode is where a released engagement or finished escape falls back to.
func (c *Controller) baseMode() Mode {
	if c.opening {
		return ModeEarlyGame
	}
	return ModeExpanding
}

func (c *Controller) disable() {
	if c.mode != ModeDisabled {
		c.resumeMode = c.mode
		if c.mode == ModeEngaging {
			c.resumeMode = ModeIdle
		}
		c.logger.Debug("Disabled - skipping move", "turn", c.turn)
	}
	c.mode = ModeDisabled
	c.outbound = false
	c.clearTarget()
}

func (c *Controller) refresh(world World, me grid.Unit) {
	if c.mode == ModeEngaging {
		occupant, occupied := world.OccupantAt(c.target)
		switch {
		case me.Position == c.target:
			c.logger.Debug("Engagement finished", "turn", c.turn, "victim", c.victim)
			c.release(world, me)
		case !occupied || occupant == me.ID:
			c.logger.Debug("Releasing lock", "turn", c.turn, "reason", ErrTargetLost)
			c.release(world, me)
		}
	}

	if !c.outbound && c.mode != ModeEngaging && world.Territory(me.Position) == grid.Friendly {
		if c.opening {
			c.opening = false
			c.logger.Debug("Early game over", "turn", c.turn)
		}
		c.setMode(ModeIdle)
	}
}

func (c *Controller) lock(target grid.Cell, victim int, reason string) {
	c.logger.Debug(reason, "turn", c.turn, "victim", victim, "target", target)
	c.victim = victim
	c.setTarget(target)
	c.setMode(ModeEngaging)
}

func (c *Controller) release(world World, me grid.Unit) {
	c.victim = 0
	c.outbound = false
	c.setMode(c.baseMode())
	if home, ok := world.NearestFriendlyTerritory(me.Position); ok {
		c.setTarget(home)
	} else {
		c.clearTarget()
	}
}

// engageAdjacentHead forces a fight with an enemy head next to us.
func (c *Controller) engageAdjacentHead(world World, me grid.Unit) {
	head, ok := world.NearestEnemyHead(me.Position)
	if ok && grid.TaxiCab(head.Position, me.Position) == 1 {
		c.lock(head.Position, head.ID, "Spotted enemy head")
	}
}

// huntBody locks onto an enemy trail we can cut before its owner gets home.
func (c *Controller) huntBody(world World, me grid.Unit) {
	enemy, cell, ok := world.NearestEnemyBody(me.Position)
	if !ok {
		return
	}
	dist := grid.TaxiCab(cell, me.Position)
	escape := c.cfg.NoThreatDistance
	if safety, ok := world.NearestTerritoryOf(enemy.Position, enemy.ID); ok {
		escape = grid.TaxiCab(enemy.Position, safety)
	}
	if (dist <= c.cfg.AttackRange && escape > c.cfg.AttackRange) || dist < 2 {
		c.lock(cell, enemy.ID, "Hunting enemy body")
	}
}

// turnsUntilKilled is how close the nearest enemy head is to our trail.
func (c *Controller) turnsUntilKilled(me grid.Unit, enemies []grid.Unit) int {
	least := c.cfg.NoThreatDistance
	if len(me.Body) == 0 {
		return least
	}
	for _, e := range enemies {
		if !e.Enabled() {
			continue
		}
		for _, b := range me.Body {
			least = min(least, grid.TaxiCab(b, e.Position))
		}
	}
	return least
}

func (c *Controller) threatened(me grid.Unit, enemies []grid.Unit, home grid.Cell) bool {
	return c.turnsUntilKilled(me, enemies) < c.cfg.DeathBuffer+grid.TaxiCab(home, me.Position)
}

func (c *Controller) escape(home grid.Cell) {
	if c.mode != ModeEscaping {
		c.logger.Debug("Escaping enemy", "turn", c.turn, "home", home)
	}
	c.outbound = false
	c.setTarget(home)
	c.setMode(ModeEscaping)
}

func (c *Controller) earlyGame(world World, me grid.Unit, enemies []grid.Unit) {
	home, haveHome := world.NearestFriendlyTerritory(me.Position)
	switch {
	case haveHome && c.threatened(me, enemies, home):
		c.escape(home)

	case c.turn > c.cfg.EarlyGameTurnLimit:
		if c.outbound || c.mode == ModeEscaping {
			c.logger.Debug("Inbounding", "turn", c.turn)
			if edge, ok := farthest(world.TerritoryEdges(), me.Position); ok {
				c.setTarget(edge)
			} else if haveHome {
				c.setTarget(home)
			}
		}
		c.outbound = false
		c.setMode(ModeEarlyGame)

	default:
		inc := c.increments[1]
		if (c.turn/2)%2 == 1 {
			inc = c.increments[0]
		}
		c.outbound = true
		c.setTarget(me.Position.Add(inc))
		c.setMode(ModeEarlyGame)
	}
}

func (c *Controller) defend(world World, me grid.Unit, enemies []grid.Unit) {
	home, ok := world.NearestFriendlyTerritory(me.Position)
	if !ok {
		return
	}
	if c.threatened(me, enemies, home) {
		c.escape(home)
	} else if c.mode == ModeEscaping {
		c.setMode(ModeExpanding)
	}
}

func (c *Controller) expand(world World, me grid.Unit) {
	if c.mode == ModeEscaping || c.mode == ModeEngaging {
		return
	}
	switch {
	case c.outbound && c.hasTarget && me.Position == c.target:
		// done expanding, head back through an edge that is not the closest
		c.outbound = false
		ranking := c.edgeRanking(world, me)
		if len(ranking) > 0 {
			c.setTarget(ranking[min(c.cfg.EdgeRank, len(ranking)-1)])
		} else if home, ok := world.NearestFriendlyTerritory(me.Position); ok {
			c.setTarget(home)
		}
		c.setMode(ModeExpanding)

	case !c.outbound && c.mode == ModeIdle:
		avoid := c.frontier(world).Union(c.mapEdges)
		target, ok := world.NearestCapturable(me.Position, avoid)
		if !ok {
			target, ok = world.NearestCapturable(me.Position, me.BodySet())
		}
		if ok {
			c.outbound = true
			c.setTarget(target)
			c.setMode(ModeExpanding)
		}

	case !c.hasTarget:
		c.retarget(world, me)
	}
}

// frontier grows outward from every friendly edge over non-friendly cells,
// ExpansionDepth steps deep. Targets inside it would be absorbed anyway.
func (c *Controller) frontier(world World) grid.CellSet {
	current := world.TerritoryEdges()
	avoid := grid.NewCellSet(current...)
	for range c.cfg.ExpansionDepth {
		var next []grid.Cell
		for _, p := range current {
			for _, d := range grid.Directions {
				n := world.Neighbour(p, d)
				if world.IsWall(n) || avoid.Has(n) || world.Territory(n) == grid.Friendly {
					continue
				}
				avoid.Add(n)
				next = append(next, n)
			}
		}
		current = next
	}
	return avoid
}

// edgeRanking orders friendly edges from closest to farthest.
func (c *Controller) edgeRanking(world World, me grid.Unit) []grid.Cell {
	edges := append([]grid.Cell(nil), world.TerritoryEdges()...)
	sort.SliceStable(edges, func(i, j int) bool {
		return grid.TaxiCab(edges[i], me.Position) < grid.TaxiCab(edges[j], me.Position)
	})
	return edges
}

func farthest(cells []grid.Cell, from grid.Cell) (grid.Cell, bool) {
	var best grid.Cell
	bestDist := -1
	for _, cell := range cells {
		if d := grid.TaxiCab(cell, from); d > bestDist {
			best, bestDist = cell, d
		}
	}
	return best, bestDist >= 0
}

func (c *Controller) retarget(world World, me grid.Unit) {
	var (
		target grid.Cell
		ok     bool
	)
	if c.outbound {
		target, ok = world.NearestCapturable(me.Position, me.BodySet())
	} else {
		target, ok = world.NearestFriendlyTerritory(me.Position)
	}
	if ok {
		c.setTarget(target)
	} else {
		c.clearTarget()
	}
}

func (c *Controller) checkStale(world World, me grid.Unit) {
	if c.mode == ModeEngaging || !c.hasTarget || !me.InBody(c.target) {
		return
	}
	c.logger.Debug("Recalculating target", "turn", c.turn, "reason", ErrStaleTarget, "target", c.target)
	c.retarget(world, me)
}

func (c *Controller) move(world World, me grid.Unit, enemies []grid.Unit) (grid.Direction, error) {
	avoid := me.BodySet()

	if c.cfg.FieldAscent && !c.opening && c.mode == ModeExpanding && c.outbound {
		c.field.Recompute(world, me, enemies)
		if d, err := c.field.BestDirection(world, me); err == nil {
			return d, nil
		}
	}

	if c.hasTarget {
		if d, ok := c.firstStep(world, me.Position, c.target, avoid); ok {
			return d, nil
		}
		c.logger.Debug("Path finding failed, resorting to default move", "turn", c.turn, "target", c.target)
	}

	fallback, ok := c.anchor, c.opening
	if !c.opening {
		fallback, ok = world.NearestFriendlyTerritory(me.Position)
	}
	if ok {
		if d, ok := c.firstStep(world, me.Position, fallback, avoid); ok {
			return d, nil
		}
	}

	for _, d := range c.preference {
		next := world.Neighbour(me.Position, d)
		if !world.IsWall(next) && !me.InBody(next) {
			return d, nil
		}
	}
	c.logger.Warn("Boxed in", "turn", c.turn, "position", me.Position)
	return grid.None, ErrNoLegalMove
}

func (c *Controller) firstStep(world World, from, to grid.Cell, avoid grid.CellSet) (grid.Direction, bool) {
	path, err := c.finder.Route(world, from, to, avoid)
	if err != nil || len(path) == 0 {
		return grid.None, false
	}
	d := grid.DirectionTo(from, path[0])
	return d, d != grid.None
}
