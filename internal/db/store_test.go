package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/sentinel/internal/config"
	"github.com/udisondev/sentinel/internal/mission"
	"github.com/udisondev/sentinel/internal/model"
	"github.com/udisondev/sentinel/internal/testutil"
)

// storeSuite runs the same checks against every Store implementation.
func storeSuite(t *testing.T, store Store) {
	t.Helper()
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	t.Run("run lifecycle", func(t *testing.T) {
		runID := uuid.New()
		require.NoError(t, store.StartRun(ctx, runID, 42))

		run, err := store.GetRun(ctx, runID)
		require.NoError(t, err)
		require.NotNil(t, run)
		assert.Equal(t, runID, run.RunID)
		assert.Equal(t, int64(42), run.Seed)
		assert.Nil(t, run.FinishedAt)

		require.NoError(t, store.FinishRun(ctx, runID, 3))
		run, err = store.GetRun(ctx, runID)
		require.NoError(t, err)
		require.NotNil(t, run.FinishedAt)
		assert.Equal(t, 3, run.Defeats)
	})

	t.Run("unknown run", func(t *testing.T) {
		run, err := store.GetRun(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, run)

		assert.Error(t, store.FinishRun(ctx, uuid.New(), 1))
	})

	t.Run("defeat ledger", func(t *testing.T) {
		runID := uuid.New()
		other := uuid.New()
		require.NoError(t, store.StartRun(ctx, runID, 1))

		events := []mission.DefeatEvent{
			{AgentID: 0x20000002, Kind: "archer", KillerID: 0x10000001, Location: model.NewLocation(5, -3, 0), At: 4 * time.Second},
			{AgentID: 0x20000001, Kind: "guard", KillerID: 0x10000001, Location: model.NewLocation(1.5, 2, 0), At: 1500 * time.Millisecond, Loot: "bandage"},
		}
		for _, ev := range events {
			require.NoError(t, store.SaveDefeat(ctx, runID, ev))
		}
		require.NoError(t, store.SaveDefeat(ctx, other, mission.DefeatEvent{AgentID: 9, Kind: "guard"}))

		n, err := store.CountDefeats(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		records, err := store.ListDefeats(ctx, runID)
		require.NoError(t, err)
		require.Len(t, records, 2)

		first := records[0]
		assert.Equal(t, runID, first.RunID)
		assert.Equal(t, int64(0x20000001), first.AgentID)
		assert.Equal(t, "guard", first.Kind)
		assert.Equal(t, int64(0x10000001), first.KillerID)
		assert.InDelta(t, 1.5, first.X, 1e-9)
		assert.InDelta(t, 2.0, first.Y, 1e-9)
		assert.Equal(t, 1500*time.Millisecond, first.At())
		assert.Equal(t, "bandage", first.Loot)
		assert.False(t, first.CreatedAt.IsZero())

		assert.Equal(t, "archer", records[1].Kind)
		assert.Empty(t, records[1].Loot)
	})

	t.Run("ledger writes through", func(t *testing.T) {
		runID := uuid.New()
		l := mission.NewLedger(store, runID, 8)
		l.AgentDefeated(mission.DefeatEvent{AgentID: 1, Kind: "spearman"})
		l.AgentDefeated(mission.DefeatEvent{AgentID: 2, Kind: "spearman"})

		runCtx, cancel := context.WithCancel(ctx)
		cancel()
		require.NoError(t, l.Run(runCtx))

		n, err := store.CountDefeats(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
}

func TestSQLite(t *testing.T) {
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)
	store, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "sentinel.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	storeSuite(t, store)
}

func TestSQLite_ReopenKeepsData(t *testing.T) {
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)
	path := filepath.Join(t.TempDir(), "sentinel.db")
	runID := uuid.New()

	store, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.SaveDefeat(ctx, runID, mission.DefeatEvent{AgentID: 1, Kind: "guard"}))
	require.NoError(t, store.Close())

	store, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	n, err := store.CountDefeats(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPostgres(t *testing.T) {
	dsn := testutil.SetupPostgres(t)
	ctx := testutil.ContextWithTimeout(t, time.Minute)

	require.NoError(t, RunMigrations(ctx, dsn))
	store, err := New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	storeSuite(t, store)
}

func TestOpen_Drivers(t *testing.T) {
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	_, err := Open(ctx, config.DatabaseConfig{Driver: "none"})
	assert.True(t, errors.Is(err, ErrDisabled))

	_, err = Open(ctx, config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)

	store, err := Open(ctx, config.DatabaseConfig{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, store)
	assert.NoError(t, store.Close())
}
