package bot

type Mode int

const (
	ModeEarlyGame Mode = iota
	ModeExpanding
	ModeEscaping
	ModeEngaging
	ModeIdle
	ModeDisabled
)

func (m Mode) String() string {
	switch m {
	case ModeEarlyGame:
		return "early-game"
	case ModeExpanding:
		return "expanding"
	case ModeEscaping:
		return "escaping"
	case ModeEngaging:
		return "engaging"
	case ModeIdle:
		return "idle"
	case ModeDisabled:
		return "disabled"
	}
	return "unknown"
}
