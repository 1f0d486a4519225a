package snapshots

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/activityradar/pkg/models"
)

func openTestBadger(t *testing.T) *BadgerStore {
	t.Helper()

	store, err := OpenBadgerStore(BadgerConfig{InMemory: true})
	require.NoError(t, err)

	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestBadgerStorePublishGetList(t *testing.T) {
	ctx := context.Background()
	store := openTestBadger(t)

	require.NoError(t, store.Publish(ctx, []models.Snapshot{
		snapshot("svc-2", 4, "2024-02-01"),
		snapshot("svc-1", 35, "2024-02-01"),
	}))

	got, err := store.Get(ctx, "svc-1")
	require.NoError(t, err)
	assert.Equal(t, snapshot("svc-1", 35, "2024-02-01"), *got)

	// A later run replaces the stored verdict.
	require.NoError(t, store.Publish(ctx, []models.Snapshot{snapshot("svc-1", 0, "2024-02-02")}))

	got, err = store.Get(ctx, "svc-1")
	require.NoError(t, err)
	assert.Equal(t, models.Date("2024-02-02"), got.SnapshotDate)
	assert.False(t, got.ReceivesTraffic)

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "svc-1", all[0].ServiceID)
	assert.Equal(t, "svc-2", all[1].ServiceID)
}

func TestBadgerStoreNotFound(t *testing.T) {
	_, err := openTestBadger(t).Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestBadgerStoreRejectsMissingServiceID(t *testing.T) {
	err := openTestBadger(t).Publish(context.Background(), []models.Snapshot{{}})
	require.ErrorIs(t, err, models.ErrMissingServiceID)
}

func TestBadgerStoreClosed(t *testing.T) {
	store := openTestBadger(t)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	_, err := store.Get(context.Background(), "svc-1")
	require.ErrorIs(t, err, errStoreClosed)

	err = store.Publish(context.Background(), nil)
	require.ErrorIs(t, err, errStoreClosed)
}
