package bot

import (
	"fmt"

	"github.com/Mshel/serpentine/internal/grid"
)

// Config is the immutable tuning record of a Controller.
type Config struct {
	Width  int
	Height int

	ExpansionDepth     int
	AttackRange        int
	DeathBuffer        int
	EarlyGameTurnLimit int
	// EdgeRank picks which nearest friendly edge to return to; 3 is the
	// 4th closest.
	EdgeRank int
	// NoThreatDistance stands in for "no enemy can reach the body".
	NoThreatDistance int

	// Opening enables the zig-zag bootstrap phase.
	Opening bool
	// FieldAscent moves by potential field while expanding outbound.
	FieldAscent bool
	// Preference overrides the quadrant-derived order when set.
	Preference *grid.Preference

	Field FieldWeights
}

// FieldWeights tunes Field.Recompute.
type FieldWeights struct {
	Neutral  float64
	Friendly float64
	Enemy    float64

	FriendBody     float64
	EnemyHead      float64
	EnemyHeadDecay float64
	EnemyBody      float64
	EnemyBodyDecay float64
	FriendEdge     float64
	AttractorPower float64
}

func DefaultFieldWeights() FieldWeights {
	return FieldWeights{
		Neutral:        20,
		Friendly:       10,
		Enemy:          30,
		FriendBody:     200,
		EnemyHead:      -100,
		EnemyHeadDecay: 0.9,
		EnemyBody:      20,
		EnemyBodyDecay: 0.65,
		FriendEdge:     10,
		AttractorPower: 4,
	}
}

func DefaultConfig() Config {
	return Config{
		Width:              30,
		Height:             30,
		ExpansionDepth:     5,
		AttackRange:        2,
		DeathBuffer:        3,
		EarlyGameTurnLimit: 17,
		EdgeRank:           3,
		NoThreatDistance:   100,
		Opening:            true,
		Field:              DefaultFieldWeights(),
	}
}

func (c Config) Validate() error {
	if c.Width < 3 || c.Height < 3 {
		return fmt.Errorf("board %dx%d is too small", c.Width, c.Height)
	}
	if c.ExpansionDepth < 0 || c.AttackRange < 0 || c.DeathBuffer < 0 || c.EdgeRank < 0 {
		return fmt.Errorf("negative tuning value in %+v", c)
	}
	for _, decay := range []float64{c.Field.EnemyHeadDecay, c.Field.EnemyBodyDecay} {
		if decay <= 0 || decay >= 1 {
			return fmt.Errorf("field decay %v outside (0,1)", decay)
		}
	}
	if c.Preference != nil {
		seen := map[grid.Direction]bool{}
		for _, d := range c.Preference {
			if d == grid.None || seen[d] {
				return fmt.Errorf("preference %v is not a permutation", *c.Preference)
			}
			seen[d] = true
		}
	}
	return nil
}
