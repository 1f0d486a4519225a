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
	"context"
	"fmt"
	"time"

	"github.com/carverauto/activityradar/pkg/logger"
	"github.com/carverauto/activityradar/pkg/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/carverauto/activityradar/pkg/consolidation"

// RunContext carries the values fixed for the whole of one run.
type RunContext struct {
	ID         string
	Now        time.Time
	WindowDays int
}

// Cutoff is the oldest record timestamp the run considers.
func (r RunContext) Cutoff() time.Time {
	return r.Now.Add(-time.Duration(r.WindowDays) * day)
}

// PartitionStats counts what happened to the raw records of one partition.
type PartitionStats struct {
	Read      int
	Accepted  int
	Skipped   int
	Filtered  int
	Snapshots int
}

// Worker reads one partition end to end and publishes its snapshots.
type Worker struct {
	source    PartitionSource
	publisher Publisher
	cfg       Config
	logger    logger.Logger
	metrics   *Metrics
	tracer    trace.Tracer
}

var _ PartitionProcessor = (*Worker)(nil)

// NewWorker builds a Worker. A nil publisher skips publication.
func NewWorker(cfg Config, source PartitionSource, publisher Publisher, log logger.Logger, metrics *Metrics) *Worker {
	return &Worker{
		source:    source,
		publisher: publisher,
		cfg:       cfg,
		logger:    log,
		metrics:   metrics,
		tracer:    otel.Tracer(tracerName),
	}
}

// ProcessPartition drains the partition, drops records older than the run's
// cutoff and records that fail to decode, and returns the published snapshots.
// Any read or publish failure fails the partition as a whole.
func (w *Worker) ProcessPartition(
	ctx context.Context, run RunContext, partition models.PartitionID) ([]models.Snapshot, error) {
	ctx, span := w.tracer.Start(ctx, "consolidation.partition",
		trace.WithAttributes(
			attribute.String("run.id", run.ID),
			attribute.Int("partition", int(partition)),
		))
	defer span.End()

	snapshots, stats, err := w.process(ctx, run, partition)

	w.metrics.recordsRead(stats)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, &PartitionProcessingError{Partition: partition, Err: err}
	}

	span.SetAttributes(attribute.Int("snapshots", stats.Snapshots))

	w.logger.Info().
		Str("run_id", run.ID).
		Int("partition", int(partition)).
		Int("read", stats.Read).
		Int("accepted", stats.Accepted).
		Int("skipped", stats.Skipped).
		Int("filtered", stats.Filtered).
		Int("snapshots", stats.Snapshots).
		Msg("Partition consolidated")

	return snapshots, nil
}

func (w *Worker) process(
	ctx context.Context, run RunContext, partition models.PartitionID) ([]models.Snapshot, PartitionStats, error) {
	var stats PartitionStats

	cutoff := run.Cutoff()

	opts := models.PartitionReadOptions{
		PollTimeout: time.Duration(w.cfg.PollTimeout),
		BatchSize:   w.cfg.FetchBatch,
	}

	if w.cfg.SeekToCutoff {
		opts.StartTime = &cutoff
	}

	reader, err := w.source.OpenPartition(ctx, partition, opts)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to open partition: %w", err)
	}

	defer func() {
		if cerr := reader.Close(); cerr != nil {
			w.logger.Warn().Err(cerr).Int("partition", int(partition)).Msg("Failed to close partition reader")
		}
	}()

	var records []models.ActivityRecord

	for {
		batch, err := reader.Next(ctx)
		if err != nil {
			return nil, stats, fmt.Errorf("failed to read partition: %w", err)
		}

		if len(batch) == 0 {
			break
		}

		for i := range batch {
			msg := &batch[i]
			stats.Read++

			if msg.Timestamp.Before(cutoff) {
				stats.Filtered++
				continue
			}

			rec, err := models.DecodeActivityRecord(msg.Value)
			if err != nil {
				stats.Skipped++

				w.logger.Warn().
					Err(err).
					Str("run_id", run.ID).
					Int("partition", int(partition)).
					Uint64("offset", msg.Offset).
					Msg("Skipping malformed activity record")

				continue
			}

			stats.Accepted++

			records = append(records, rec)
		}
	}

	aggregated := NewAggregator(w.cfg.AggregationWindowMinutes).Aggregate(records)
	snapshots := NewSnapshotGenerator(NewDecisionEngine(run.Now)).GenerateSnapshots(aggregated)
	stats.Snapshots = len(snapshots)

	if len(snapshots) > 0 && w.publisher != nil {
		if err := w.publisher.Publish(ctx, snapshots); err != nil {
			return nil, stats, fmt.Errorf("failed to publish snapshots: %w", err)
		}

		w.metrics.snapshotsPublished(len(snapshots))
	}

	return snapshots, stats, nil
}
