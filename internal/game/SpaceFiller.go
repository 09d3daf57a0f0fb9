package game

import (
	"context"
	"sync"

	"github.com/Mshel/serpentine/internal/grid"
	"golang.org/x/sync/errgroup"
)

// capture turns p's trail into territory and claims every region the trail
// closes off from the wall ring.
func (a *Arena) capture(ctx context.Context, p *Player) error {
	regions, err := a.enclosedRegions(ctx, p)
	if err != nil {
		return err
	}

	claimed := len(p.trail)
	for _, c := range p.trail {
		tile := a.gameMap.At(c)
		tile.Owner = p.ID
		if tile.Trail == p.ID {
			tile.Trail = NoOwner
		}
	}
	for c := range regions {
		a.gameMap.At(c).Owner = p.ID
		claimed++
	}
	a.logger.Debug("Loop closed", "player", p.Name, "turn", a.turn, "trail", len(p.trail), "claimed", claimed)
	p.resetTail()
	return nil
}

// enclosedRegions flood-fills from every non-owned cell beside the trail.
// Fills run concurrently; a fill that reaches a wall is open and discarded.
func (a *Arena) enclosedRegions(ctx context.Context, p *Player) (grid.CellSet, error) {
	trail := grid.NewCellSet(p.trail...)
	isBoundary := func(c grid.Cell) bool {
		return trail.Has(c) || a.gameMap.At(c).Owner == p.ID
	}

	seeds := grid.CellSet{}
	for _, c := range p.trail {
		for _, d := range grid.Directions {
			n := c.Step(d)
			if !a.gameMap.IsWall(n) && !isBoundary(n) {
				seeds.Add(n)
			}
		}
	}

	var (
		mu      sync.Mutex
		visited = grid.CellSet{}
		found   = grid.CellSet{}
	)
	claim := func(seed grid.Cell) bool {
		mu.Lock()
		defer mu.Unlock()
		if visited.Has(seed) {
			return false
		}
		visited.Add(seed)
		return true
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.fillWorkers)
	for seed := range seeds {
		g.Go(func() error {
			if !claim(seed) {
				return nil
			}
			region, closed, err := a.fill(ctx, seed, isBoundary)
			if err != nil || !closed {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for c := range region {
				visited.Add(c)
				found.Add(c)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return found, nil
}

// fill explores the region around seed bounded by isBoundary. closed is false
// as soon as the region touches a wall.
func (a *Arena) fill(ctx context.Context, seed grid.Cell, isBoundary func(grid.Cell) bool) (grid.CellSet, bool, error) {
	region := grid.NewCellSet(seed)
	queue := []grid.Cell{seed}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		cur := queue[0]
		queue = queue[1:]
		for _, d := range grid.Directions {
			n := cur.Step(d)
			if a.gameMap.IsWall(n) {
				return nil, false, nil
			}
			if region.Has(n) || isBoundary(n) {
				continue
			}
			region.Add(n)
			queue = append(queue, n)
		}
	}
	return region, true, nil
}
