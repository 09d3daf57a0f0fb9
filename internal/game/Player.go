package game

import "github.com/Mshel/serpentine/internal/grid"

type Player struct {
	ID         int
	Name       string
	Color      int
	Kind       string
	Navigation string

	Spawn    grid.Cell
	Position grid.Cell
	Heading  grid.Direction
	Status   grid.Status

	Kills  int
	Deaths int

	// trail holds the cells laid outside own territory, oldest first. The
	// head is the last entry while the player is out.
	trail     []grid.Cell
	respawnIn int
}

func newPlayer(id int, spec BotSpec, spawn grid.Cell) *Player {
	return &Player{
		ID:         id,
		Name:       spec.Name,
		Color:      playerColor(spec, id),
		Kind:       spec.Kind,
		Navigation: spec.navigationLabel(),
		Spawn:      spawn,
		Position:   spawn,
		Status:     grid.Enabled,
	}
}

func (p *Player) Enabled() bool {
	return p.Status == grid.Enabled
}

func (p *Player) TrailLen() int {
	return len(p.trail)
}

// Unit converts the player into the read-only form strategies see. Body is
// ordered head to tail and never contains the head cell.
func (p *Player) Unit() grid.Unit {
	var body []grid.Cell
	for i := len(p.trail) - 1; i >= 0; i-- {
		if p.trail[i] != p.Position {
			body = append(body, p.trail[i])
		}
	}
	return grid.Unit{
		ID:       p.ID,
		Name:     p.Name,
		Position: p.Position,
		Body:     body,
		Status:   p.Status,
	}
}

func (p *Player) resetTail() {
	p.trail = nil
}
