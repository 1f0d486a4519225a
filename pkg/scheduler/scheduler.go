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

// Package scheduler triggers a job on a cron schedule and on demand, never
// running two instances of the job at once.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/carverauto/activityradar/pkg/logger"
)

var (
	ErrAlreadyRunning  = errors.New("job is already running")
	ErrStopped         = errors.New("scheduler is stopped")
	ErrInvalidSchedule = errors.New("invalid schedule")
	errJobRequired     = errors.New("job is required")
)

// Job is the unit of work the scheduler runs.
type Job func(ctx context.Context) error

// Scheduler fires a Job on a standard five-field cron expression evaluated in UTC.
type Scheduler struct {
	schedule cron.Schedule
	cron     *cron.Cron
	job      Job
	logger   logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
	running atomic.Bool
}

// ValidateSpec reports whether spec is a valid standard cron expression.
func ValidateSpec(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidSchedule, spec, err)
	}

	return nil
}

// New parses spec and prepares a scheduler. Nothing fires until Start.
func New(spec string, job Job, log logger.Logger) (*Scheduler, error) {
	if job == nil {
		return nil, errJobRequired
	}

	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSchedule, spec, err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Scheduler{
		schedule: schedule,
		job:      job,
		logger:   log,
		ctx:      ctx,
		cancel:   cancel,
	}

	s.cron = cron.New(cron.WithLocation(time.UTC), cron.WithLogger(cronLogger{log: log}))
	s.cron.Schedule(schedule, cron.FuncJob(s.fire))

	return s, nil
}

// Start begins firing on schedule. It does not block.
func (s *Scheduler) Start() {
	s.cron.Start()

	s.logger.Info().Time("next_run", s.Next()).Msg("Scheduler started")
}

func (s *Scheduler) fire() {
	if err := s.Trigger(); err != nil {
		s.logger.Warn().Err(err).Msg("Skipping scheduled run")
	}
}

// Trigger starts the job in the background. It returns ErrAlreadyRunning
// while a previous run is still in progress.
func (s *Scheduler) Trigger() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrStopped
	}

	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		defer s.running.Store(false)

		if err := s.job(s.ctx); err != nil {
			s.logger.Error().Err(err).Msg("Scheduled job failed")
		}
	}()

	return nil
}

// Running reports whether the job is executing.
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// Next returns the next scheduled fire time.
func (s *Scheduler) Next() time.Time {
	return s.schedule.Next(time.Now().UTC())
}

// Stop stops firing and waits for a running job. If ctx expires first the
// job's context is cancelled and ctx's error returned.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	cronDone := s.cron.Stop()

	done := make(chan struct{})

	go func() {
		s.wg.Wait()
		<-cronDone.Done()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()

		return nil
	case <-ctx.Done():
		s.cancel()

		return ctx.Err()
	}
}

type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
