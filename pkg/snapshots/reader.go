package snapshots

import (
	"context"

	"github.com/carverauto/activityradar/pkg/models"
)

// Reader looks up the latest stored snapshot of a service.
type Reader interface {
	Get(ctx context.Context, serviceID string) (*models.Snapshot, error)
}
