package bot

import (
	"testing"

	"github.com/Mshel/serpentine/internal/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField_RecomputeIsIdempotent(t *testing.T) {
	w := newTestWorld(20, 20).
		claim(meID, 2, 2, 4, 4).
		claim(enemyID, 12, 12, 16, 16).
		at(grid.Cell{X: 7, Y: 3}, grid.Cell{X: 6, Y: 3}, grid.Cell{X: 5, Y: 3}).
		withEnemy(grid.Unit{ID: enemyID, Position: grid.Cell{X: 11, Y: 9}, Body: []grid.Cell{{X: 11, Y: 10}, {X: 11, Y: 11}}})

	f := NewField(20, 20, DefaultFieldWeights())
	f.Recompute(w, w.me, w.enemies)
	first := append([]float64(nil), f.cells...)

	f.Recompute(w, w.me, w.enemies)
	assert.Equal(t, first, f.cells)
}

func TestField_BodyRepulsionGrowsWithProximity(t *testing.T) {
	w := newTestWorld(30, 30).at(grid.Cell{X: 9, Y: 10}, grid.Cell{X: 10, Y: 10})

	f := NewField(30, 30, DefaultFieldWeights())
	f.Recompute(w, w.me, nil)

	prev := f.At(grid.Cell{X: 11, Y: 10})
	for k := 2; k <= 8; k++ {
		v := f.At(grid.Cell{X: 10 + k, Y: 10})
		assert.Greater(t, v, prev, "value at distance %d should beat distance %d", k, k-1)
		prev = v
	}
}

func TestField_EnemyHeadPenaltyFades(t *testing.T) {
	w := newTestWorld(30, 30).
		at(grid.Cell{X: 3, Y: 3}).
		withEnemy(grid.Unit{ID: enemyID, Position: grid.Cell{X: 10, Y: 10}})

	f := NewField(30, 30, DefaultFieldWeights())
	f.Recompute(w, w.me, w.enemies)

	prev := f.At(grid.Cell{X: 10, Y: 10})
	for k := 1; k <= 6; k++ {
		v := f.At(grid.Cell{X: 10 + k, Y: 10})
		assert.Greater(t, v, prev)
		prev = v
	}
}

func TestField_IgnoresDisabledEnemies(t *testing.T) {
	w := newTestWorld(30, 30).at(grid.Cell{X: 3, Y: 3})
	f := NewField(30, 30, DefaultFieldWeights())
	f.Recompute(w, w.me, nil)
	empty := append([]float64(nil), f.cells...)

	dead := grid.Unit{ID: enemyID, Position: grid.Cell{X: 10, Y: 10}, Status: grid.Disabled}
	f.Recompute(w, w.me, []grid.Unit{dead})
	assert.Equal(t, empty, f.cells)

	dead.Status = grid.Enabled
	f.Recompute(w, w.me, []grid.Unit{dead})
	assert.Less(t, f.At(dead.Position), empty[10*30+10])
}

func TestField_TerritoryBaseValues(t *testing.T) {
	w := newTestWorld(10, 10).claim(meID, 1, 1, 1, 1).claim(enemyID, 8, 8, 8, 8)
	weights := DefaultFieldWeights()
	weights.FriendEdge = 0

	f := NewField(10, 10, weights)
	f.Recompute(w, w.me, nil)

	assert.Equal(t, weights.Friendly, f.At(grid.Cell{X: 1, Y: 1}))
	assert.Equal(t, weights.Enemy, f.At(grid.Cell{X: 8, Y: 8}))
	assert.Equal(t, weights.Neutral, f.At(grid.Cell{X: 5, Y: 5}))
	assert.Zero(t, f.At(grid.Cell{X: -1, Y: 5}))
}

// BestDirection sums whole half-planes, so the side holding more enemy
// ground wins even though every neighbouring cell is neutral.
func TestField_BestDirectionFollowsRicherHalf(t *testing.T) {
	w := newTestWorld(30, 30).
		claim(enemyID, 15, 1, 28, 28).
		at(grid.Cell{X: 10, Y: 10})

	f := NewField(30, 30, DefaultFieldWeights())
	f.Recompute(w, w.me, nil)

	d, err := f.BestDirection(w, w.me)
	require.NoError(t, err)
	assert.Equal(t, grid.East, d)
}

func TestField_BestDirectionSkipsBody(t *testing.T) {
	w := newTestWorld(30, 30).
		claim(enemyID, 15, 1, 28, 28).
		at(grid.Cell{X: 10, Y: 10}, grid.Cell{X: 11, Y: 10})

	f := NewField(30, 30, DefaultFieldWeights())
	f.Recompute(w, w.me, nil)

	d, err := f.BestDirection(w, w.me)
	require.NoError(t, err)
	assert.NotEqual(t, grid.East, d)
}

func TestField_BestDirectionBoxedIn(t *testing.T) {
	w := fromLayout(
		"###",
		"#.#",
		"###",
	).at(grid.Cell{X: 1, Y: 1})

	f := NewField(3, 3, DefaultFieldWeights())
	f.Recompute(w, w.me, nil)

	d, err := f.BestDirection(w, w.me)
	assert.ErrorIs(t, err, ErrNoLegalMove)
	assert.Equal(t, grid.None, d)
}
