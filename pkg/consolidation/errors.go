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
	"fmt"

	"github.com/carverauto/activityradar/pkg/models"
)

var (
	ErrRunInProgress          = errors.New("consolidation run already in progress")
	ErrPartitionProcessing    = errors.New("partition processing failed")
	ErrPartitionDiscovery     = errors.New("failed to discover partitions")
	ErrNoPartitions           = errors.New("raw activity stream has no partitions")
	ErrInvalidWindowDays      = errors.New("window_days must be positive")
	ErrInvalidWorkerBounds    = errors.New("workers.min must be positive and not exceed workers.max")
	ErrInvalidAggregation     = errors.New("aggregation_window_minutes must be positive")
	ErrInvalidFailurePolicy   = errors.New("failure_policy must be abort or isolate")
	ErrInvalidPollTimeout     = errors.New("poll_timeout must be positive")
	ErrInvalidFetchBatch      = errors.New("fetch_batch must be positive")
	ErrSilentServicePublish   = errors.New("failed to publish silent service snapshots")
	errPartitionSourceMissing = errors.New("partition source is required")
)

// PartitionProcessingError reports an unrecoverable failure of one partition.
type PartitionProcessingError struct {
	Partition models.PartitionID
	Err       error
}

func (e *PartitionProcessingError) Error() string {
	return fmt.Sprintf("partition %d: %v", e.Partition, e.Err)
}

func (e *PartitionProcessingError) Unwrap() error {
	return e.Err
}

// Is matches ErrPartitionProcessing.
func (*PartitionProcessingError) Is(target error) bool {
	return target == ErrPartitionProcessing
}
