package history

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/mauv0809/shuttle-ladder/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*sql.DB, Store) {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)
	return db, New(db)
}

func record(id, winner, loser string, playedAt time.Time) *Record {
	return &Record{
		ID:                 id,
		WinnerID:           winner,
		WinnerName:         "name-" + winner,
		LoserID:            loser,
		LoserName:          "name-" + loser,
		WinnerPoints:       11,
		LoserPoints:        5,
		InitialTarget:      11,
		Target:             11,
		WinnerBeforeRating: 1500,
		WinnerAfterRating:  1503,
		LoserBeforeRating:  1500,
		LoserAfterRating:   1497,
		MatchType:          "OFFICIAL",
		PlayedAt:           playedAt,
	}
}

func TestInsertAndGet(t *testing.T) {
	db, store := setupTestDB(t)
	ctx := context.Background()
	playedAt := time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC)

	require.NoError(t, Insert(ctx, db, record("m1", "a", "b", playedAt)))

	got, err := store.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "a", got.WinnerID)
	assert.Equal(t, "name-b", got.LoserName)
	assert.Equal(t, 3, got.WinnerDelta())
	assert.Equal(t, -3, got.LoserDelta())
	assert.True(t, playedAt.Equal(got.PlayedAt))
}

func TestInsert_AssignsID(t *testing.T) {
	db, store := setupTestDB(t)
	ctx := context.Background()

	rec := record("", "a", "b", time.Now())
	require.NoError(t, Insert(ctx, db, rec))
	require.NotEmpty(t, rec.ID)

	_, err := store.Get(ctx, rec.ID)
	assert.NoError(t, err)
}

func TestGet_NotFound(t *testing.T) {
	_, store := setupTestDB(t)
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_NewestFirstWithLimit(t *testing.T) {
	db, store := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, Insert(ctx, db, record("m1", "a", "b", base)))
	require.NoError(t, Insert(ctx, db, record("m2", "b", "c", base.Add(time.Hour))))
	require.NoError(t, Insert(ctx, db, record("m3", "c", "a", base.Add(2*time.Hour))))

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "m3", all[0].ID)
	assert.Equal(t, "m1", all[2].ID)

	limited, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestListForPlayer(t *testing.T) {
	db, store := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, Insert(ctx, db, record("m1", "a", "b", base)))
	require.NoError(t, Insert(ctx, db, record("m2", "b", "c", base.Add(time.Hour))))
	require.NoError(t, Insert(ctx, db, record("m3", "c", "a", base.Add(2*time.Hour))))

	records, err := store.ListForPlayer(ctx, "a", 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "m3", records[0].ID)
	assert.Equal(t, "m1", records[1].ID)

	none, err := store.ListForPlayer(ctx, "nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}
