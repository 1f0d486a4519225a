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
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/carverauto/activityradar/pkg/models"
)

const defaultAggregationWindowMinutes = 5

// Aggregator merges activity records for the same service whose window start
// falls into the same fixed-size time bucket. It holds no state between calls.
type Aggregator struct {
	windowMinutes int64
}

// NewAggregator returns an Aggregator with buckets of windowMinutes minutes.
// Non-positive sizes fall back to five minutes.
func NewAggregator(windowMinutes int) *Aggregator {
	if windowMinutes <= 0 {
		windowMinutes = defaultAggregationWindowMinutes
	}

	return &Aggregator{windowMinutes: int64(windowMinutes)}
}

// Bucket rounds t down to the start of its aggregation bucket, measured in
// whole minutes since the Unix epoch.
func (a *Aggregator) Bucket(t time.Time) time.Time {
	minutes := floorDiv(t.Unix(), 60)
	bucket := floorDiv(minutes, a.windowMinutes) * a.windowMinutes

	return time.Unix(bucket*60, 0).UTC()
}

type bucketKey struct {
	serviceID string
	bucket    int64
}

// Aggregate groups records by (service id, bucket) and merges each group.
// Output is ordered by service id, then bucket. Empty input yields empty output.
func (a *Aggregator) Aggregate(records []models.ActivityRecord) []models.ActivityRecord {
	if len(records) == 0 {
		return []models.ActivityRecord{}
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(x, y models.ActivityRecord) int {
		return x.Window.Start.Compare(y.Window.Start)
	})

	groups := make(map[bucketKey]models.ActivityRecord)
	keys := make([]bucketKey, 0)

	for i := range sorted {
		rec := sorted[i]
		key := bucketKey{serviceID: rec.ServiceID, bucket: a.Bucket(rec.Window.Start).Unix()}

		current, ok := groups[key]
		if !ok {
			groups[key] = normalize(rec)
			keys = append(keys, key)

			continue
		}

		groups[key] = Merge(current, rec)
	}

	slices.SortFunc(keys, func(x, y bucketKey) int {
		if c := strings.Compare(x.serviceID, y.serviceID); c != 0 {
			return c
		}

		return cmp.Compare(x.bucket, y.bucket)
	})

	out := make([]models.ActivityRecord, 0, len(keys))
	for _, key := range keys {
		out = append(out, groups[key])
	}

	return out
}

// Merge combines two records of the same service. Counts add, callers union,
// the window widens to cover both and the higher confidence wins. The result
// carries no metadata or discovery source. Merge is commutative and associative.
func Merge(a, b models.ActivityRecord) models.ActivityRecord {
	start := a.Window.Start
	if b.Window.Start.Before(start) {
		start = b.Window.Start
	}

	end := a.Window.End
	if b.Window.End.After(end) {
		end = b.Window.End
	}

	return models.ActivityRecord{
		ServiceID:       a.ServiceID,
		ActivityCount:   a.ActivityCount + b.ActivityCount,
		Callers:         unionCallers(a.Callers, b.Callers),
		Window:          models.TimeWindow{Start: start.UTC(), End: end.UTC()},
		ConfidenceLevel: models.MaxConfidence(a.ConfidenceLevel, b.ConfidenceLevel),
	}
}

func normalize(rec models.ActivityRecord) models.ActivityRecord {
	return models.ActivityRecord{
		ServiceID:       rec.ServiceID,
		ActivityCount:   rec.ActivityCount,
		Callers:         unionCallers(rec.Callers),
		Window:          models.TimeWindow{Start: rec.Window.Start.UTC(), End: rec.Window.End.UTC()},
		ConfidenceLevel: rec.ConfidenceLevel,
	}
}

// unionCallers returns the sorted, de-duplicated union of the caller sets.
// The result is never nil.
func unionCallers(sets ...[]string) []string {
	n := 0
	for _, s := range sets {
		n += len(s)
	}

	out := make([]string, 0, n)
	for _, s := range sets {
		out = append(out, s...)
	}

	slices.Sort(out)

	return slices.Compact(out)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}

	return q
}
