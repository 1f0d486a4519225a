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
	"errors"
	"time"

	"github.com/carverauto/activityradar/pkg/models"
)

// FailurePolicy decides what a partition failure does to the rest of a run.
type FailurePolicy string

const (
	// FailurePolicyAbort cancels in-flight partitions and fails the run.
	FailurePolicyAbort FailurePolicy = "abort"
	// FailurePolicyIsolate lets the other partitions finish and reports a partial result.
	FailurePolicyIsolate FailurePolicy = "isolate"
)

// WorkerBounds clamps the worker pool size.
type WorkerBounds struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Config holds the tunables of a consolidation run.
type Config struct {
	WindowDays               int             `json:"window_days" yaml:"window_days"`
	Workers                  WorkerBounds    `json:"workers" yaml:"workers"`
	AggregationWindowMinutes int             `json:"aggregation_window_minutes" yaml:"aggregation_window_minutes"`
	FailurePolicy            FailurePolicy   `json:"failure_policy" yaml:"failure_policy"`
	PollTimeout              models.Duration `json:"poll_timeout" yaml:"poll_timeout"`
	FetchBatch               int             `json:"fetch_batch" yaml:"fetch_batch"`
	SeekToCutoff             bool            `json:"seek_to_cutoff" yaml:"seek_to_cutoff"`
}

func DefaultConfig() Config {
	return Config{
		WindowDays:               30,
		Workers:                  WorkerBounds{Min: 10, Max: 100},
		AggregationWindowMinutes: defaultAggregationWindowMinutes,
		FailurePolicy:            FailurePolicyAbort,
		PollTimeout:              models.Duration(5 * time.Second),
		FetchBatch:               500,
	}
}

// ApplyDefaults fills zero-valued fields from DefaultConfig.
func (c *Config) ApplyDefaults() {
	def := DefaultConfig()

	if c.WindowDays == 0 {
		c.WindowDays = def.WindowDays
	}

	if c.Workers.Min == 0 {
		c.Workers.Min = def.Workers.Min
	}

	if c.Workers.Max == 0 {
		c.Workers.Max = def.Workers.Max
	}

	if c.AggregationWindowMinutes == 0 {
		c.AggregationWindowMinutes = def.AggregationWindowMinutes
	}

	if c.FailurePolicy == "" {
		c.FailurePolicy = def.FailurePolicy
	}

	if c.PollTimeout == 0 {
		c.PollTimeout = def.PollTimeout
	}

	if c.FetchBatch == 0 {
		c.FetchBatch = def.FetchBatch
	}
}

func (c *Config) Validate() error {
	var errs []error

	if c.WindowDays <= 0 {
		errs = append(errs, ErrInvalidWindowDays)
	}

	if c.Workers.Min < 1 || c.Workers.Min > c.Workers.Max {
		errs = append(errs, ErrInvalidWorkerBounds)
	}

	if c.AggregationWindowMinutes <= 0 {
		errs = append(errs, ErrInvalidAggregation)
	}

	if c.FailurePolicy != FailurePolicyAbort && c.FailurePolicy != FailurePolicyIsolate {
		errs = append(errs, ErrInvalidFailurePolicy)
	}

	if c.PollTimeout <= 0 {
		errs = append(errs, ErrInvalidPollTimeout)
	}

	if c.FetchBatch <= 0 {
		errs = append(errs, ErrInvalidFetchBatch)
	}

	return errors.Join(errs...)
}
