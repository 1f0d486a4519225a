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
	"fmt"
	"strings"
	"time"
)

// ConfidenceLevel describes how much an activity observation can be trusted.
// Levels are ordered HIGH > MEDIUM > LOW.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "HIGH"
	ConfidenceMedium ConfidenceLevel = "MEDIUM"
	ConfidenceLow    ConfidenceLevel = "LOW"
)

// Rank returns the ordinal of the level; higher is more confident.
// Unknown levels rank below LOW.
func (c ConfidenceLevel) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether c is one of the known levels.
func (c ConfidenceLevel) Valid() bool {
	return c.Rank() > 0
}

// MaxConfidence returns the more confident of a and b.
func MaxConfidence(a, b ConfidenceLevel) ConfidenceLevel {
	if b.Rank() > a.Rank() {
		return b
	}

	return a
}

// DiscoverySource names the extraction adapter that observed the activity.
type DiscoverySource string

const (
	DiscoverySourceGitHub    DiscoverySource = "GITHUB"
	DiscoverySourceDynatrace DiscoverySource = "DYNATRACE"
	DiscoverySourceBoth      DiscoverySource = "BOTH"
)

// TimeWindow is the interval an activity observation covers.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ActivityMetadata carries producer-side provenance. It is not part of the merge.
type ActivityMetadata struct {
	Environment string `json:"environment,omitempty"`
	Source      string `json:"source,omitempty"`
}

// ActivityRecord is a normalized observation of traffic for one service over a
// time window, as published on the raw activity stream. Aggregated records use
// the same shape.
type ActivityRecord struct {
	ServiceID       string            `json:"service.id"`
	ActivityCount   int64             `json:"activity.count"`
	Callers         []string          `json:"dependencies.callers"`
	Window          TimeWindow        `json:"timestamps.window"`
	ConfidenceLevel ConfidenceLevel   `json:"confidence.level"`
	Metadata        *ActivityMetadata `json:"metadata,omitempty"`
	DiscoverySource DiscoverySource   `json:"discoverySource,omitempty"`
}

// Validate checks the record against the input contract of the consolidation
// pipeline. All violations are reported together.
func (r *ActivityRecord) Validate() error {
	var errs []error

	if strings.TrimSpace(r.ServiceID) == "" {
		errs = append(errs, ErrMissingServiceID)
	}

	if r.Window.Start.IsZero() || r.Window.End.IsZero() {
		errs = append(errs, ErrMissingWindow)
	} else if r.Window.Start.After(r.Window.End) {
		errs = append(errs, ErrInvertedWindow)
	}

	if r.ActivityCount < 0 {
		errs = append(errs, ErrNegativeActivityCount)
	}

	if !r.ConfidenceLevel.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownConfidence, r.ConfidenceLevel))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// DecodeActivityRecord unmarshals and validates a raw stream payload.
// Window instants are normalized to UTC.
func DecodeActivityRecord(data []byte) (ActivityRecord, error) {
	var rec ActivityRecord

	if err := json.Unmarshal(data, &rec); err != nil {
		return ActivityRecord{}, errors.Join(ErrInvalidActivityJSON, err)
	}

	if err := rec.Validate(); err != nil {
		return ActivityRecord{}, err
	}

	rec.Window.Start = rec.Window.Start.UTC()
	rec.Window.End = rec.Window.End.UTC()

	return rec, nil
}

// EncodeActivityRecord marshals a record for the raw activity stream.
func EncodeActivityRecord(rec *ActivityRecord) ([]byte, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	return json.Marshal(rec)
}
