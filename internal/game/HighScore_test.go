package game

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *ResultStore {
	t.Helper()
	store, err := OpenResultStore(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestResultStore_SaveAndRank(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	count, err := store.Count()
	require.NoError(t, err)
	assert.Zero(t, count)

	stamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveResults(ctx, []Result{
		{BotName: "Pathfinder", Navigation: NavigationPath, ClaimedPct: 10, Kills: 3, Turns: 600},
		{BotName: "Gradient", Navigation: NavigationField, ClaimedPct: 30, Kills: 1, Deaths: 2, Turns: 600},
	}))
	require.NoError(t, store.SaveResults(ctx, []Result{
		{BotName: "Wanderer", Navigation: KindLua, ClaimedPct: 30, Kills: 2, Turns: 300, CreatedAt: stamp},
	}))

	count, err = store.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	top, err := store.TopResults(10, 0)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "Wanderer", top[0].BotName)
	assert.Equal(t, "Gradient", top[1].BotName)
	assert.Equal(t, "Pathfinder", top[2].BotName)

	assert.True(t, top[0].CreatedAt.Equal(stamp))
	assert.False(t, top[1].CreatedAt.IsZero())
	assert.Equal(t, 2, top[1].Deaths)
	assert.Equal(t, NavigationField, top[1].Navigation)
	assert.InDelta(t, 30.0, top[1].ClaimedPct, 1e-9)

	page, err := store.TopResults(1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Gradient", page[0].BotName)

	page, err = store.TopResults(5, 3)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestResultStore_CancelledSave(t *testing.T) {
	store := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.SaveResults(ctx, []Result{{BotName: "Late", Navigation: NavigationPath}})
	assert.Error(t, err)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}
