package grid

type Status int

const (
	Enabled Status = iota
	Disabled
)

func (s Status) String() string {
	if s == Disabled {
		return "DISABLED"
	}
	return "ENABLED"
}

// Territory classifies a cell from one unit's point of view.
type Territory int

const (
	Neutral Territory = iota
	Friendly
	Enemy
)

func (t Territory) String() string {
	switch t {
	case Friendly:
		return "FRIENDLY"
	case Enemy:
		return "ENEMY"
	}
	return "NEUTRAL"
}

// Unit is a read-only snapshot of one snake. Body is the trail left outside
// its own territory, head to tail, without the head cell itself.
type Unit struct {
	ID       int
	Name     string
	Position Cell
	Body     []Cell
	Status   Status
}

func (u Unit) Enabled() bool {
	return u.Status == Enabled
}

// InBody reports whether c is one of the unit's trail cells.
func (u Unit) InBody(c Cell) bool {
	for _, b := range u.Body {
		if b == c {
			return true
		}
	}
	return false
}

func (u Unit) BodySet() CellSet {
	return NewCellSet(u.Body...)
}
