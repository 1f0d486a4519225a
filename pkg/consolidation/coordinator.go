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
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/carverauto/activityradar/pkg/logger"
	"github.com/carverauto/activityradar/pkg/models"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const progressLogInterval = 10

// RunResult summarizes one consolidation run.
type RunResult struct {
	RunID            string               `json:"run_id"`
	StartedAt        time.Time            `json:"started_at"`
	FinishedAt       time.Time            `json:"finished_at"`
	SnapshotDate     models.Date          `json:"snapshot_date"`
	Partitions       int                  `json:"partitions"`
	Workers          int                  `json:"workers"`
	SnapshotCount    int                  `json:"snapshot_count"`
	SilentServices   int                  `json:"silent_services"`
	FailedPartitions []models.PartitionID `json:"failed_partitions,omitempty"`
	Error            string               `json:"error,omitempty"`
	Snapshots        []models.Snapshot    `json:"-"`
}

// Succeeded reports whether every partition completed.
func (r *RunResult) Succeeded() bool {
	return r != nil && r.Error == ""
}

// Coordinator fans a run out over the partitions of the raw stream and
// collects the resulting snapshots.
type Coordinator struct {
	cfg       Config
	source    PartitionSource
	processor PartitionProcessor
	publisher Publisher
	known     KnownServiceSource
	clock     Clock
	logger    logger.Logger
	metrics   *Metrics
	tracer    trace.Tracer
	newRunID  func() string

	running atomic.Bool

	mu      sync.RWMutex
	lastRun *RunResult
}

// CoordinatorOption customizes a Coordinator.
type CoordinatorOption func(*Coordinator)

func WithClock(clock Clock) CoordinatorOption {
	return func(c *Coordinator) {
		c.clock = clock
	}
}

// WithKnownServices enables never-seen snapshots for listed services that
// produced no activity in a successful run.
func WithKnownServices(known KnownServiceSource) CoordinatorOption {
	return func(c *Coordinator) {
		c.known = known
	}
}

func WithMetrics(metrics *Metrics) CoordinatorOption {
	return func(c *Coordinator) {
		c.metrics = metrics
	}
}

func WithRunIDGenerator(fn func() string) CoordinatorOption {
	return func(c *Coordinator) {
		c.newRunID = fn
	}
}

// NewCoordinator wires a coordinator. The publisher is only used for
// never-seen snapshots; partition snapshots are published by the processor.
func NewCoordinator(
	cfg Config,
	source PartitionSource,
	processor PartitionProcessor,
	publisher Publisher,
	log logger.Logger,
	opts ...CoordinatorOption,
) (*Coordinator, error) {
	if source == nil || processor == nil {
		return nil, errPartitionSourceMissing
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Coordinator{
		cfg:       cfg,
		source:    source,
		processor: processor,
		publisher: publisher,
		clock:     realClock{},
		logger:    log,
		tracer:    otel.Tracer(tracerName),
		newRunID:  uuid.NewString,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Running reports whether a run is in progress.
func (c *Coordinator) Running() bool {
	return c.running.Load()
}

// LastRun returns a copy of the most recent run summary without snapshots,
// or nil before the first run.
func (c *Coordinator) LastRun() *RunResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.lastRun == nil {
		return nil
	}

	summary := *c.lastRun
	summary.Snapshots = nil
	summary.FailedPartitions = slices.Clone(c.lastRun.FailedPartitions)

	return &summary
}

// ExecuteConsolidation runs one consolidation over every partition of the raw
// stream. Under the abort policy the first partition failure cancels the rest
// and no snapshots are returned. Under the isolate policy the surviving
// snapshots are returned together with the joined partition errors.
func (c *Coordinator) ExecuteConsolidation(ctx context.Context) (*RunResult, error) {
	if !c.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer c.running.Store(false)

	now := c.clock.Now().UTC()
	run := RunContext{ID: c.newRunID(), Now: now, WindowDays: c.cfg.WindowDays}

	result := &RunResult{
		RunID:        run.ID,
		StartedAt:    now,
		SnapshotDate: models.DateOf(now),
	}

	ctx, span := c.tracer.Start(ctx, "consolidation.run",
		trace.WithAttributes(attribute.String("run.id", run.ID)))
	defer span.End()

	err := c.execute(ctx, run, result)

	result.FinishedAt = c.finishTime(now)
	result.SnapshotCount = len(result.Snapshots)

	outcome := outcomeSuccess

	if err != nil {
		result.Error = err.Error()
		outcome = outcomeFailure

		if len(result.Snapshots) > 0 {
			outcome = outcomePartial
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		c.logger.Error().
			Err(err).
			Str("run_id", run.ID).
			Interface("failed_partitions", result.FailedPartitions).
			Int("snapshots", result.SnapshotCount).
			Msg("Consolidation run failed")
	} else {
		c.logger.Info().
			Str("run_id", run.ID).
			Int("partitions", result.Partitions).
			Int("workers", result.Workers).
			Int("snapshots", result.SnapshotCount).
			Int("silent_services", result.SilentServices).
			Msg("Consolidation run completed")
	}

	c.metrics.observeRun(outcome, result.StartedAt, result.FinishedAt)

	c.mu.Lock()
	c.lastRun = result
	c.mu.Unlock()

	return result, err
}

func (c *Coordinator) finishTime(started time.Time) time.Time {
	finished := c.clock.Now().UTC()
	if finished.Before(started) {
		return started
	}

	return finished
}

func (c *Coordinator) execute(ctx context.Context, run RunContext, result *RunResult) error {
	partitions, err := c.source.Partitions(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPartitionDiscovery, err)
	}

	if len(partitions) == 0 {
		return ErrNoPartitions
	}

	numWorkers := OptimalWorkerCount(len(partitions), c.cfg.Workers.Min, c.cfg.Workers.Max)
	assignment := Distribute(partitions, numWorkers)

	result.Partitions = len(partitions)
	result.Workers = numWorkers
	c.metrics.setWorkers(numWorkers)

	c.logger.Info().
		Str("run_id", run.ID).
		Int("partitions", len(partitions)).
		Int("workers", numWorkers).
		Time("cutoff", run.Cutoff()).
		Str("failure_policy", string(c.cfg.FailurePolicy)).
		Msg("Starting consolidation run")

	snapshots, failures, err := c.runWorkers(ctx, run, assignment, len(partitions))
	if err != nil {
		var perr *PartitionProcessingError
		if errors.As(err, &perr) {
			result.FailedPartitions = []models.PartitionID{perr.Partition}
		}

		return err
	}

	result.Snapshots = snapshots

	if len(failures) > 0 {
		errs := make([]error, 0, len(failures))

		for _, f := range failures {
			result.FailedPartitions = append(result.FailedPartitions, f.Partition)
			errs = append(errs, f)
		}

		slices.Sort(result.FailedPartitions)

		return errors.Join(errs...)
	}

	return c.emitSilentServices(ctx, run, result)
}

// runWorkers runs one goroutine per worker, each draining its assigned
// partitions in order. Under the abort policy the first error is returned and
// the shared context is cancelled; otherwise failures are collected.
func (c *Coordinator) runWorkers(
	ctx context.Context,
	run RunContext,
	assignment map[int][]models.PartitionID,
	total int,
) ([]models.Snapshot, []*PartitionProcessingError, error) {
	abort := c.cfg.FailurePolicy == FailurePolicyAbort

	perWorker := make([][]models.Snapshot, len(assignment))
	perWorkerFailures := make([][]*PartitionProcessingError, len(assignment))

	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)

	for w := 0; w < len(assignment); w++ {
		assigned := assignment[w]
		if len(assigned) == 0 {
			continue
		}

		g.Go(func() error {
			for _, p := range assigned {
				if abort {
					if err := gctx.Err(); err != nil {
						return err
					}
				}

				snaps, err := c.processor.ProcessPartition(gctx, run, p)
				c.metrics.partitionDone(err)

				if err != nil {
					perr := asPartitionError(p, err)
					if abort {
						return perr
					}

					perWorkerFailures[w] = append(perWorkerFailures[w], perr)

					continue
				}

				perWorker[w] = append(perWorker[w], snaps...)

				if n := completed.Add(1); n%progressLogInterval == 0 {
					c.logger.Info().
						Str("run_id", run.ID).
						Int64("completed", n).
						Int("total", total).
						Msg("Consolidation progress")
				}
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var (
		snapshots []models.Snapshot
		failures  []*PartitionProcessingError
	)

	for w := range perWorker {
		snapshots = append(snapshots, perWorker[w]...)
		failures = append(failures, perWorkerFailures[w]...)
	}

	sortSnapshots(snapshots)

	return snapshots, failures, nil
}

// emitSilentServices publishes never-seen snapshots for known services absent
// from the run output. A failing service listing is logged and skipped.
func (c *Coordinator) emitSilentServices(ctx context.Context, run RunContext, result *RunResult) error {
	if c.known == nil {
		return nil
	}

	ids, err := c.known.ServiceIDs(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Str("run_id", run.ID).Msg("Failed to list known services, skipping silent services")
		return nil
	}

	seen := make(map[string]struct{}, len(result.Snapshots))
	for i := range result.Snapshots {
		seen[result.Snapshots[i].ServiceID] = struct{}{}
	}

	engine := NewDecisionEngine(run.Now)

	var silent []models.Snapshot

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		silent = append(silent, engine.GenerateSnapshot(id, nil))
	}

	if len(silent) == 0 {
		return nil
	}

	if c.publisher != nil {
		if err := c.publisher.Publish(ctx, silent); err != nil {
			return fmt.Errorf("%w: %w", ErrSilentServicePublish, err)
		}
	}

	c.metrics.silentServicesEmitted(len(silent))

	result.SilentServices = len(silent)
	result.Snapshots = append(result.Snapshots, silent...)
	sortSnapshots(result.Snapshots)

	return nil
}

func asPartitionError(p models.PartitionID, err error) *PartitionProcessingError {
	var perr *PartitionProcessingError
	if errors.As(err, &perr) {
		return perr
	}

	return &PartitionProcessingError{Partition: p, Err: err}
}

func sortSnapshots(snapshots []models.Snapshot) {
	slices.SortStableFunc(snapshots, func(a, b models.Snapshot) int {
		return strings.Compare(a.ServiceID, b.ServiceID)
	})
}
