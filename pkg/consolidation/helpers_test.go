package consolidation

import (
	"testing"
	"time"

	"github.com/carverauto/activityradar/pkg/models"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 2, 1, 2, 0, 0, 0, time.UTC)

func activity(id string, count int64, start time.Time, callers ...string) models.ActivityRecord {
	if callers == nil {
		callers = []string{}
	}

	return models.ActivityRecord{
		ServiceID:       id,
		ActivityCount:   count,
		Callers:         callers,
		Window:          models.TimeWindow{Start: start, End: start.Add(time.Minute)},
		ConfidenceLevel: models.ConfidenceMedium,
	}
}

func encodeActivity(t *testing.T, rec models.ActivityRecord) []byte {
	t.Helper()

	data, err := models.EncodeActivityRecord(&rec)
	require.NoError(t, err)

	return data
}
