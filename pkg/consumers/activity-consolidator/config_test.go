package activityconsolidator

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/activityradar/pkg/config"
	"github.com/carverauto/activityradar/pkg/consolidation"
	"github.com/carverauto/activityradar/pkg/logger"
	"github.com/carverauto/activityradar/pkg/models"
	"github.com/carverauto/activityradar/pkg/scheduler"
)

func TestConsolidatorConfigApplyDefaults(t *testing.T) {
	cfg := ConsolidatorConfig{NATSURL: "nats://127.0.0.1:4222"}
	cfg.ApplyDefaults()

	assert.Equal(t, 30, cfg.WindowDays)
	assert.Equal(t, consolidation.FailurePolicyAbort, cfg.FailurePolicy)
	assert.Equal(t, "ACTIVITY_RAW", cfg.RawStream.Name)
	assert.Equal(t, 30, cfg.RawStream.Partitions)
	assert.Equal(t, "ACTIVITY_SNAPSHOT", cfg.SnapshotStream.Name)
	assert.Equal(t, defaultEventsStream, cfg.Events.Stream)
	assert.Equal(t, defaultEventsSubj, cfg.Events.Subject)
	assert.Equal(t, models.Duration(7*24*time.Hour), cfg.Events.Retention)
	assert.Equal(t, "0 2 * * *", cfg.Schedule)
	assert.Equal(t, ":8090", cfg.ListenAddr)

	require.NoError(t, cfg.Validate())
}

func TestConsolidatorConfigValidate(t *testing.T) {
	valid := func() ConsolidatorConfig {
		cfg := ConsolidatorConfig{NATSURL: "nats://127.0.0.1:4222"}
		cfg.ApplyDefaults()

		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*ConsolidatorConfig)
		wantErr error
	}{
		{
			name:    "missing nats url",
			mutate:  func(c *ConsolidatorConfig) { c.NATSURL = "" },
			wantErr: ErrMissingNATSURL,
		},
		{
			name:    "missing listen addr",
			mutate:  func(c *ConsolidatorConfig) { c.ListenAddr = "" },
			wantErr: ErrMissingListenAddr,
		},
		{
			name:    "unknown security mode",
			mutate:  func(c *ConsolidatorConfig) { c.Security = &models.SecurityConfig{Mode: "spiffe"} },
			wantErr: ErrInvalidSecurity,
		},
		{
			name: "events without subject",
			mutate: func(c *ConsolidatorConfig) {
				c.Events.Enabled = true
				c.Events.Subject = ""
			},
			wantErr: ErrInvalidEventStream,
		},
		{
			name:    "bad schedule",
			mutate:  func(c *ConsolidatorConfig) { c.Schedule = "every tuesday" },
			wantErr: scheduler.ErrInvalidSchedule,
		},
		{
			name:    "inverted worker bounds",
			mutate:  func(c *ConsolidatorConfig) { c.Workers = consolidation.WorkerBounds{Min: 5, Max: 2} },
			wantErr: consolidation.ErrInvalidWorkerBounds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			require.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}

	t.Run("empty security mode is allowed", func(t *testing.T) {
		cfg := valid()
		cfg.Security = &models.SecurityConfig{}

		require.NoError(t, cfg.Validate())
	})
}

func TestLoadConsolidatorConfigYAML(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "")

	path := filepath.Join(t.TempDir(), "consolidator.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
nats_url: nats://nats:4222
window_days: 14
failure_policy: isolate
poll_timeout: 2s
workers:
  min: 2
  max: 8
raw_stream:
  partitions: 12
known_services:
  - billing
  - ledger
schedule: "*/15 * * * *"
events:
  enabled: true
`), 0o600))

	var cfg ConsolidatorConfig

	loader := config.NewConfig(logger.NewTestLogger())
	require.NoError(t, loader.LoadAndValidate(context.Background(), path, &cfg))

	assert.Equal(t, "nats://nats:4222", cfg.NATSURL)
	assert.Equal(t, 14, cfg.WindowDays)
	assert.Equal(t, consolidation.FailurePolicyIsolate, cfg.FailurePolicy)
	assert.Equal(t, models.Duration(2*time.Second), cfg.PollTimeout)
	assert.Equal(t, consolidation.WorkerBounds{Min: 2, Max: 8}, cfg.Workers)
	assert.Equal(t, 12, cfg.RawStream.Partitions)
	assert.Equal(t, "governance.activity.raw", cfg.RawStream.SubjectPrefix)
	assert.Equal(t, []string{"billing", "ledger"}, cfg.KnownServices)
	assert.Equal(t, "*/15 * * * *", cfg.Schedule)
	assert.True(t, cfg.Events.Enabled)
	assert.Equal(t, defaultEventsStream, cfg.Events.Stream)
}

func TestLoadConsolidatorConfigJSONRejectsInvalid(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "")

	path := filepath.Join(t.TempDir(), "consolidator.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"window_days": 7}`), 0o600))

	var cfg ConsolidatorConfig

	err := config.NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), path, &cfg)
	require.ErrorIs(t, err, ErrMissingNATSURL)
	assert.Equal(t, 7, cfg.WindowDays)
}
