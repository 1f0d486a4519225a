/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

//go:generate mockgen -destination=mock_consolidation.go -package=consolidation github.com/carverauto/activityradar/pkg/consolidation Clock,PartitionSource,PartitionReader,PartitionProcessor,Publisher,KnownServiceSource

package consolidation

import (
	"context"
	"time"

	"github.com/carverauto/activityradar/pkg/models"
)

// Clock abstracts time-related operations.
type Clock interface {
	Now() time.Time
}

// PartitionSource discovers and opens partitions of the raw activity stream.
type PartitionSource interface {
	Partitions(ctx context.Context) ([]models.PartitionID, error)
	OpenPartition(ctx context.Context, partition models.PartitionID, opts models.PartitionReadOptions) (PartitionReader, error)
}

// PartitionReader is an exclusive read handle on one partition.
type PartitionReader interface {
	// Next returns the next batch of records. An empty batch with a nil error
	// means nothing further arrived within the poll timeout.
	Next(ctx context.Context) ([]models.StreamRecord, error)
	Close() error
}

// PartitionProcessor turns one partition into snapshots for a run.
type PartitionProcessor interface {
	ProcessPartition(ctx context.Context, run RunContext, partition models.PartitionID) ([]models.Snapshot, error)
}

// Publisher hands snapshots to the downstream snapshot store.
type Publisher interface {
	Publish(ctx context.Context, snapshots []models.Snapshot) error
}

// KnownServiceSource lists every service id that should have a snapshot,
// whether or not it produced activity.
type KnownServiceSource interface {
	ServiceIDs(ctx context.Context) ([]string, error)
}
