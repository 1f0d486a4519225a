package snapshots

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/activityradar/pkg/consolidation"
	"github.com/carverauto/activityradar/pkg/logger"
	"github.com/carverauto/activityradar/pkg/models"
	"github.com/carverauto/activityradar/pkg/natsutil/natstest"
)

var errSinkDown = errors.New("sink down")

func TestStreamPublisherRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping embedded NATS test in short mode")
	}

	ctx := context.Background()
	_, js := natstest.Connect(t)

	cfg := StreamConfig{Name: "SNAPSHOT_TEST", SubjectPrefix: "test.activity.snapshot"}

	stream, err := EnsureSnapshotStream(ctx, js, cfg)
	require.NoError(t, err)

	info := stream.CachedInfo().Config
	assert.Equal(t, int64(1), info.MaxMsgsPerSubject)
	assert.Equal(t, []string{"test.activity.snapshot.*"}, info.Subjects)

	publisher := NewStreamPublisher(js, cfg, logger.NewTestLogger())

	first := []models.Snapshot{
		snapshot("svc-1", 35, "2024-02-01"),
		snapshot("team.svc", 2, "2024-02-01"),
	}

	require.NoError(t, publisher.Publish(ctx, first))

	// Replaying the same run is deduplicated.
	require.NoError(t, publisher.Publish(ctx, first))

	state, err := stream.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), state.State.Msgs)

	// A newer verdict replaces the older one for the same service.
	require.NoError(t, publisher.Publish(ctx, []models.Snapshot{snapshot("svc-1", 0, "2024-02-02")}))

	state, err = stream.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), state.State.Msgs)

	got, err := publisher.Get(ctx, "svc-1")
	require.NoError(t, err)
	assert.Equal(t, models.Date("2024-02-02"), got.SnapshotDate)
	assert.Equal(t, int64(0), got.TrafficVolume)

	got, err = publisher.Get(ctx, "team.svc")
	require.NoError(t, err)
	assert.Equal(t, first[1], *got)

	_, err = publisher.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestMultiPublisherFansOut(t *testing.T) {
	ctrl := gomock.NewController(t)

	a := consolidation.NewMockPublisher(ctrl)
	b := consolidation.NewMockPublisher(ctrl)
	c := consolidation.NewMockPublisher(ctrl)

	snaps := []models.Snapshot{snapshot("svc-1", 1, "2024-02-01")}
	ctx := context.Background()

	a.EXPECT().Publish(ctx, snaps).Return(nil)
	b.EXPECT().Publish(ctx, snaps).Return(errSinkDown)
	c.EXPECT().Publish(ctx, snaps).Return(nil)

	err := MultiPublisher{a, b, c}.Publish(ctx, snaps)
	require.ErrorIs(t, err, errSinkDown)

	require.NoError(t, MultiPublisher(nil).Publish(ctx, snaps))
}

func TestMultiPublisherWithBadger(t *testing.T) {
	ctx := context.Background()

	first := openTestBadger(t)
	second := openTestBadger(t)

	require.NoError(t, MultiPublisher{first, second}.Publish(ctx,
		[]models.Snapshot{snapshot("svc-1", 3, "2024-02-01")}))

	for _, store := range []*BadgerStore{first, second} {
		got, err := store.Get(ctx, "svc-1")
		require.NoError(t, err)
		assert.Equal(t, int64(3), got.TrafficVolume)
	}
}
