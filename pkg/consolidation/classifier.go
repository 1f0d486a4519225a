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

const (
	activeMaxDays   = 7
	lowUsageMaxDays = 30
	day             = 24 * time.Hour
)

// Classifier maps the last time a service was seen to its operational status,
// evaluated against a single instant fixed at construction.
type Classifier struct {
	now time.Time
}

func NewClassifier(now time.Time) Classifier {
	return Classifier{now: now.UTC()}
}

// Classify compares whole elapsed days, so 7 days and 23 hours is still ACTIVE.
// A nil lastSeen is NO_TRAFFIC. A lastSeen after now counts as ACTIVE.
func (c Classifier) Classify(lastSeen *time.Time) models.Classification {
	if lastSeen == nil {
		return models.ClassificationNoTraffic
	}

	daysSince := int64(c.now.Sub(*lastSeen) / day)

	switch {
	case daysSince <= activeMaxDays:
		return models.ClassificationActive
	case daysSince <= lowUsageMaxDays:
		return models.ClassificationLowUsage
	default:
		return models.ClassificationNoTraffic
	}
}
