package snapshots

import (
	"time"

	"github.com/carverauto/activityradar/pkg/models"
)

func snapshot(id string, volume int64, date models.Date) models.Snapshot {
	return models.Snapshot{
		ServiceID:       id,
		ReceivesTraffic: volume > 0,
		TrafficVolume:   volume,
		LastSeen:        time.Date(2024, 1, 31, 2, 1, 0, 0, time.UTC),
		ActiveCallers:   []string{"x", "y"},
		ConfidenceLevel: models.ConfidenceMedium,
		Classification:  models.ClassificationActive,
		SnapshotDate:    date,
	}
}
