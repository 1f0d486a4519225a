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
	"time"

	"github.com/carverauto/activityradar/pkg/models"
)

// DecisionEngine turns the aggregated records of one service into its snapshot.
type DecisionEngine struct {
	classifier   Classifier
	snapshotDate models.Date
}

func NewDecisionEngine(now time.Time) *DecisionEngine {
	return &DecisionEngine{
		classifier:   NewClassifier(now),
		snapshotDate: models.DateOf(now),
	}
}

// GenerateSnapshot is deterministic in its inputs and the engine's instant.
// With no records it returns the never-seen snapshot used for known services
// that produced no activity.
func (e *DecisionEngine) GenerateSnapshot(serviceID string, records []models.ActivityRecord) models.Snapshot {
	if len(records) == 0 {
		return models.Snapshot{
			ServiceID:       serviceID,
			ReceivesTraffic: false,
			TrafficVolume:   0,
			LastSeen:        models.NeverSeen,
			ActiveCallers:   []string{},
			ConfidenceLevel: models.ConfidenceLow,
			Classification:  e.classifier.Classify(nil),
			SnapshotDate:    e.snapshotDate,
		}
	}

	var (
		volume     int64
		lastSeen   = records[0].Window.End
		confidence = records[0].ConfidenceLevel
		callerSets = make([][]string, 0, len(records))
	)

	for i := range records {
		rec := &records[i]

		volume += rec.ActivityCount

		if rec.Window.End.After(lastSeen) {
			lastSeen = rec.Window.End
		}

		confidence = models.MaxConfidence(confidence, rec.ConfidenceLevel)
		callerSets = append(callerSets, rec.Callers)
	}

	lastSeen = lastSeen.UTC()

	return models.Snapshot{
		ServiceID:       serviceID,
		ReceivesTraffic: volume > 0,
		TrafficVolume:   volume,
		LastSeen:        lastSeen,
		ActiveCallers:   unionCallers(callerSets...),
		ConfidenceLevel: confidence,
		Classification:  e.classifier.Classify(&lastSeen),
		SnapshotDate:    e.snapshotDate,
	}
}
