package game

// fallbackColors are ANSI 256 colours for roster entries without one.
var fallbackColors = []int{9, 12, 10, 11}

func playerColor(spec BotSpec, id int) int {
	if spec.Color > 0 {
		return spec.Color
	}
	return fallbackColors[(id-1)%len(fallbackColors)]
}
