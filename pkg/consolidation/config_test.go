package consolidation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{WindowDays: 14}
	cfg.ApplyDefaults()

	def := DefaultConfig()
	assert.Equal(t, 14, cfg.WindowDays)
	assert.Equal(t, def.Workers, cfg.Workers)
	assert.Equal(t, def.PollTimeout, cfg.PollTimeout)
	assert.Equal(t, FailurePolicyAbort, cfg.FailurePolicy)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{WindowDays: -1, Workers: WorkerBounds{Min: 0, Max: 10}}

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidWindowDays)
	require.ErrorIs(t, err, ErrInvalidWorkerBounds)
	require.ErrorIs(t, err, ErrInvalidAggregation)
	require.ErrorIs(t, err, ErrInvalidFailurePolicy)
	require.ErrorIs(t, err, ErrInvalidPollTimeout)
	require.ErrorIs(t, err, ErrInvalidFetchBatch)
}

func TestStaticServiceList(t *testing.T) {
	ids, err := StaticServiceList{"svc-b", " svc-a ", "", "svc-b"}.ServiceIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"svc-a", "svc-b"}, ids)
}

func TestLoadServiceListFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "services.txt")
	require.NoError(t, os.WriteFile(path, []byte("# fleet\nsvc-a\n\n  svc-b  \n"), 0o600))

	list, err := LoadServiceListFile(path)
	require.NoError(t, err)
	assert.Equal(t, StaticServiceList{"svc-a", "svc-b"}, list)

	_, err = LoadServiceListFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}
