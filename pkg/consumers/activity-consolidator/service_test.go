package activityconsolidator

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/activityradar/pkg/activitystream"
	"github.com/carverauto/activityradar/pkg/logger"
	"github.com/carverauto/activityradar/pkg/models"
	"github.com/carverauto/activityradar/pkg/natsutil/natstest"
	"github.com/carverauto/activityradar/pkg/snapshots"
)

func TestNewServiceRejectsInvalidConfig(t *testing.T) {
	_, err := NewService(&ConsolidatorConfig{}, "test", logger.NewTestLogger())
	require.ErrorIs(t, err, ErrMissingNATSURL)
}

func TestKnownServicesMergesListAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "services.txt")
	require.NoError(t, os.WriteFile(path, []byte("# owned\nledger\n\nbilling\n"), 0o600))

	cfg := &ConsolidatorConfig{
		NATSURL:           "nats://127.0.0.1:4222",
		KnownServices:     []string{"billing", "search"},
		KnownServicesFile: path,
	}
	cfg.ApplyDefaults()

	svc, err := NewService(cfg, "test", logger.NewTestLogger())
	require.NoError(t, err)

	known, err := svc.knownServices()
	require.NoError(t, err)

	ids, err := known.ServiceIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"billing", "ledger", "search"}, ids)

	svc.cfg.KnownServices = nil
	svc.cfg.KnownServicesFile = ""

	known, err = svc.knownServices()
	require.NoError(t, err)
	assert.Nil(t, known)
}

func TestServiceRunOnStart(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping embedded NATS test in short mode")
	}

	ctx := context.Background()
	srv := natstest.RunJetStreamServer(t)

	cfg := &ConsolidatorConfig{
		NATSURL: srv.ClientURL(),
		RawStream: activitystream.StreamConfig{
			Name:          "ACTIVITY_RAW_SVC",
			SubjectPrefix: "svc.activity.raw",
			Partitions:    3,
		},
		SnapshotStream: snapshots.StreamConfig{
			Name:          "ACTIVITY_SNAPSHOT_SVC",
			SubjectPrefix: "svc.activity.snapshot",
		},
		Events: EventsConfig{
			Enabled: true,
			Stream:  "ACTIVITY_EVENTS_SVC",
			Subject: "svc.activity.events.run",
		},
		BadgerDir:     t.TempDir(),
		KnownServices: []string{"billing", "dormant"},
		RunOnStart:    true,
		ListenAddr:    "127.0.0.1:0",
	}
	cfg.ApplyDefaults()
	cfg.PollTimeout = models.Duration(200 * time.Millisecond)

	nc, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)
	t.Cleanup(nc.Close)

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	_, err = activitystream.EnsureRawStream(ctx, js, cfg.RawStream)
	require.NoError(t, err)

	seen := time.Now().UTC().Add(-2 * time.Hour).Truncate(time.Minute)
	producer := activitystream.NewProducer(js, cfg.RawStream)

	n, err := producer.PublishBatch(ctx, []models.ActivityRecord{
		{
			ServiceID:       "billing",
			ActivityCount:   40,
			Callers:         []string{"checkout"},
			Window:          models.TimeWindow{Start: seen, End: seen.Add(time.Minute)},
			ConfidenceLevel: models.ConfidenceHigh,
		},
		{
			ServiceID:       "billing",
			ActivityCount:   2,
			Callers:         []string{"reports"},
			Window:          models.TimeWindow{Start: seen.Add(-time.Hour), End: seen.Add(-time.Hour + time.Minute)},
			ConfidenceLevel: models.ConfidenceLow,
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	svc, err := NewService(cfg, "test", logger.NewTestLogger())
	require.NoError(t, err)
	require.NoError(t, svc.Start(ctx))

	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		_ = svc.Stop(stopCtx)
	})

	require.Eventually(t, func() bool {
		return svc.coordinator.LastRun() != nil
	}, 15*time.Second, 50*time.Millisecond)

	result := svc.coordinator.LastRun()
	require.True(t, result.Succeeded(), result.Error)
	assert.Equal(t, 3, result.Partitions)
	assert.Equal(t, 2, result.SnapshotCount)
	assert.Equal(t, 1, result.SilentServices)

	billing, err := svc.badger.Get(ctx, "billing")
	require.NoError(t, err)
	assert.True(t, billing.ReceivesTraffic)
	assert.Equal(t, int64(42), billing.TrafficVolume)
	assert.Equal(t, []string{"checkout", "reports"}, billing.ActiveCallers)
	assert.Equal(t, models.ClassificationActive, billing.Classification)

	stream := snapshots.NewStreamPublisher(js, cfg.SnapshotStream, logger.NewTestLogger())

	dormant, err := stream.Get(ctx, "dormant")
	require.NoError(t, err)
	assert.False(t, dormant.ReceivesTraffic)
	assert.Equal(t, models.ClassificationNoTraffic, dormant.Classification)

	require.Eventually(t, func() bool {
		events, err := js.Stream(ctx, cfg.Events.Stream)
		if err != nil {
			return false
		}

		info, err := events.Info(ctx)

		return err == nil && info.State.Msgs == 1
	}, 5*time.Second, 50*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	require.NoError(t, svc.Stop(stopCtx))
}
