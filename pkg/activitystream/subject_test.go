package activitystream

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/activityradar/pkg/models"
)

func TestPartitionSubjectRoundTrip(t *testing.T) {
	for _, p := range []models.PartitionID{0, 7, 29} {
		got, err := PartitionFromSubject(DefaultRawSubjectPrefix, PartitionSubject(DefaultRawSubjectPrefix, p))
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestPartitionFromSubjectRejects(t *testing.T) {
	tests := []string{
		"governance.activity.raw",
		"governance.activity.raw.",
		"governance.activity.raw.x",
		"governance.activity.raw.-1",
		"governance.activity.raw.1.2",
		"governance.activity.snapshot.1",
	}

	for _, subject := range tests {
		t.Run(subject, func(t *testing.T) {
			_, err := PartitionFromSubject(DefaultRawSubjectPrefix, subject)
			require.ErrorIs(t, err, ErrInvalidSubject)
		})
	}
}

func TestPartitionForIsStable(t *testing.T) {
	const n = 30

	for _, id := range []string{"svc-1", "payments", "", "a.b.c"} {
		p := PartitionFor(id, n)

		assert.GreaterOrEqual(t, int(p), 0)
		assert.Less(t, int(p), n)
		assert.Equal(t, p, PartitionFor(id, n), "same id must map to the same partition")
	}

	assert.Equal(t, models.PartitionID(0), PartitionFor("svc-1", 0))
	assert.Equal(t, models.PartitionID(0), PartitionFor("svc-1", 1))
}

func TestPartitionForSpreadsKeys(t *testing.T) {
	const n = 8

	seen := make(map[models.PartitionID]bool)

	for i := 0; i < 200; i++ {
		seen[PartitionFor(fmt.Sprintf("svc-%d", i), n)] = true
	}

	assert.Len(t, seen, n)
}

func TestStreamConfigDefaultsAndValidate(t *testing.T) {
	var cfg StreamConfig

	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultRawStreamName, cfg.Name)
	assert.Equal(t, DefaultRawSubjectPrefix, cfg.SubjectPrefix)
	assert.Equal(t, DefaultPartitions, cfg.Partitions)
	assert.Equal(t, models.Duration(35*24*time.Hour), cfg.Retention)
	assert.Equal(t, 1, cfg.Replicas)

	bad := StreamConfig{SubjectPrefix: "governance.*", Partitions: -1, Retention: -1}
	err := bad.Validate()

	require.ErrorIs(t, err, ErrStreamNameRequired)
	require.ErrorIs(t, err, ErrInvalidSubjectPrefix)
	require.ErrorIs(t, err, ErrInvalidPartitionCount)
	require.ErrorIs(t, err, ErrInvalidRetention)
}

func TestValidateSubjectPrefix(t *testing.T) {
	require.NoError(t, ValidateSubjectPrefix("a.b_c.d-e"))
	require.ErrorIs(t, ValidateSubjectPrefix(""), ErrSubjectPrefixRequired)

	for _, prefix := range []string{"a..b", "a.>", ".a", "a b"} {
		require.ErrorIs(t, ValidateSubjectPrefix(prefix), ErrInvalidSubjectPrefix, prefix)
	}
}
