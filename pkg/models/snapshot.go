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

package models

import (
	"encoding/json"
	"errors"
	"time"
)

// Classification is the operational status derived from days since last activity.
type Classification string

const (
	ClassificationActive    Classification = "ACTIVE"
	ClassificationLowUsage  Classification = "LOW_USAGE"
	ClassificationNoTraffic Classification = "NO_TRAFFIC"
)

const dateLayout = "2006-01-02"

// NeverSeen is the LastSeen value of a snapshot built from no records.
var NeverSeen = time.Unix(0, 0).UTC()

// Date is a calendar date in YYYY-MM-DD form.
type Date string

// DateOf returns the UTC calendar date of t.
func DateOf(t time.Time) Date {
	return Date(t.UTC().Format(dateLayout))
}

// Time returns midnight UTC of the date.
func (d Date) Time() (time.Time, error) {
	return time.Parse(dateLayout, string(d))
}

// Snapshot is the per-service, per-run verdict published downstream. It is a
// pure function of the records considered and the run instant, so replays
// produce identical encodings.
type Snapshot struct {
	ServiceID       string          `json:"service.id"`
	ReceivesTraffic bool            `json:"receivesTraffic"`
	TrafficVolume   int64           `json:"trafficVolume"`
	LastSeen        time.Time       `json:"lastSeen"`
	ActiveCallers   []string        `json:"activeCallers"`
	ConfidenceLevel ConfidenceLevel `json:"confidenceLevel"`
	Classification  Classification  `json:"classification"`
	SnapshotDate    Date            `json:"snapshotDate"`
}

// EncodeSnapshot marshals a snapshot for publication.
func EncodeSnapshot(s *Snapshot) ([]byte, error) {
	if s.ServiceID == "" {
		return nil, ErrMissingServiceID
	}

	return json.Marshal(s)
}

// DecodeSnapshot unmarshals a published snapshot.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot

	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Join(ErrInvalidSnapshotJSON, err)
	}

	s.LastSeen = s.LastSeen.UTC()

	return &s, nil
}
