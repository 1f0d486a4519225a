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

package consolidation

import (
	"slices"

	"github.com/carverauto/activityradar/pkg/models"
)

// SnapshotGenerator produces one snapshot per service present in a batch.
type SnapshotGenerator struct {
	engine *DecisionEngine
}

func NewSnapshotGenerator(engine *DecisionEngine) *SnapshotGenerator {
	return &SnapshotGenerator{engine: engine}
}

// GenerateSnapshots groups records by service id and decides each group.
// Services absent from records are absent from the result, which is ordered
// by service id.
func (g *SnapshotGenerator) GenerateSnapshots(records []models.ActivityRecord) []models.Snapshot {
	grouped := make(map[string][]models.ActivityRecord)

	for i := range records {
		grouped[records[i].ServiceID] = append(grouped[records[i].ServiceID], records[i])
	}

	ids := make([]string, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	snapshots := make([]models.Snapshot, 0, len(ids))
	for _, id := range ids {
		snapshots = append(snapshots, g.engine.GenerateSnapshot(id, grouped[id]))
	}

	return snapshots
}
