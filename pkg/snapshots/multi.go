package snapshots

import (
	"context"
	"errors"

	"github.com/carverauto/activityradar/pkg/consolidation"
	"github.com/carverauto/activityradar/pkg/models"
)

// MultiPublisher hands every batch to each of its publishers in order.
// A failing publisher does not stop the others; all failures are returned joined.
type MultiPublisher []consolidation.Publisher

var _ consolidation.Publisher = MultiPublisher(nil)

func (m MultiPublisher) Publish(ctx context.Context, snapshots []models.Snapshot) error {
	var errs []error

	for _, p := range m {
		if err := p.Publish(ctx, snapshots); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
