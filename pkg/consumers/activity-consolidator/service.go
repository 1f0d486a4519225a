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

package activityconsolidator

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/carverauto/activityradar/pkg/activitystream"
	"github.com/carverauto/activityradar/pkg/api"
	"github.com/carverauto/activityradar/pkg/consolidation"
	"github.com/carverauto/activityradar/pkg/db"
	"github.com/carverauto/activityradar/pkg/lifecycle"
	"github.com/carverauto/activityradar/pkg/logger"
	"github.com/carverauto/activityradar/pkg/natsutil"
	"github.com/carverauto/activityradar/pkg/scheduler"
	"github.com/carverauto/activityradar/pkg/snapshots"
)

const serviceName = "activity-consolidator"

// Service implements lifecycle.Service for the activity consolidator. It owns
// the NATS connection, the snapshot sinks, the schedule and the admin API.
type Service struct {
	cfg      *ConsolidatorConfig
	logger   logger.Logger
	registry *prometheus.Registry
	version  string

	nc     *nats.Conn
	js     jetstream.JetStream
	pool   *pgxpool.Pool
	badger *snapshots.BadgerStore
	tp     *sdktrace.TracerProvider

	coordinator *consolidation.Coordinator
	scheduler   *scheduler.Scheduler
	events      *natsutil.EventPublisher
	api         *api.Server

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ lifecycle.Service = (*Service)(nil)

// NewService validates cfg and prepares the service. Connections are made in Start.
func NewService(cfg *ConsolidatorConfig, version string, log logger.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Service{
		cfg:      cfg,
		logger:   log,
		registry: registry,
		version:  version,
	}, nil
}

// Start connects to NATS, provisions streams and sinks, and starts the
// schedule and the admin API.
func (s *Service) Start(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			s.release(context.WithoutCancel(ctx))
		}
	}()

	tracing := logger.TracingConfig{
		ServiceName:    serviceName,
		ServiceVersion: s.version,
		Logger:         s.logger,
	}
	if s.cfg.Logging != nil {
		tracing.Debug = s.cfg.Logging.Debug
		tracing.OTel = s.cfg.Logging.OTel
	}

	s.tp, err = logger.InitializeTracing(ctx, tracing)
	if err != nil {
		return err
	}

	if err = s.connect(ctx); err != nil {
		return err
	}

	publisher, reader, err := s.openSinks(ctx)
	if err != nil {
		return err
	}

	known, err := s.knownServices()
	if err != nil {
		return err
	}

	metrics := consolidation.NewMetrics(s.registry)
	source := activitystream.NewJetStreamSource(s.js, s.cfg.RawStream, s.logger)
	worker := consolidation.NewWorker(s.cfg.Config, source, publisher, s.logger, metrics)

	opts := []consolidation.CoordinatorOption{consolidation.WithMetrics(metrics)}
	if known != nil {
		opts = append(opts, consolidation.WithKnownServices(known))
	}

	s.coordinator, err = consolidation.NewCoordinator(s.cfg.Config, source, worker, publisher, s.logger, opts...)
	if err != nil {
		return err
	}

	s.scheduler, err = scheduler.New(s.cfg.Schedule, s.runOnce, s.logger)
	if err != nil {
		return err
	}

	s.api = api.NewServer(s.scheduler, s.coordinator, s.logger,
		api.WithSnapshotReader(reader),
		api.WithGatherer(s.registry))

	serveCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		if err := s.api.Serve(serveCtx, s.cfg.ListenAddr); err != nil {
			s.logger.Error().Err(err).Msg("Admin API stopped")
		}
	}()

	s.scheduler.Start()

	if s.cfg.RunOnStart {
		if err := s.scheduler.Trigger(); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to trigger initial run")
		}
	}

	s.logger.Info().
		Str("raw_stream", s.cfg.RawStream.Name).
		Str("snapshot_stream", s.cfg.SnapshotStream.Name).
		Str("schedule", s.cfg.Schedule).
		Str("listen_addr", s.cfg.ListenAddr).
		Msg("Activity consolidator started")

	return nil
}

func (s *Service) connect(ctx context.Context) error {
	nc, err := natsutil.ConnectWithSecurity(s.cfg.NATSURL, s.cfg.Security, s.logger, nats.Name(serviceName))
	if err != nil {
		return err
	}

	s.nc = nc

	s.js, err = natsutil.NewJetStream(nc, s.cfg.Domain)
	if err != nil {
		return err
	}

	if _, err := activitystream.EnsureRawStream(ctx, s.js, s.cfg.RawStream); err != nil {
		return err
	}

	if _, err := snapshots.EnsureSnapshotStream(ctx, s.js, s.cfg.SnapshotStream); err != nil {
		return err
	}

	if s.cfg.Events.Enabled {
		if err := natsutil.EnsureEventStream(ctx, s.js, s.cfg.Events.Stream, s.cfg.Events.Subject,
			time.Duration(s.cfg.Events.Retention)); err != nil {
			return err
		}

		s.events = natsutil.NewEventPublisher(s.js, s.cfg.Events.Subject)
	}

	return nil
}

// openSinks builds the publisher fan-out and picks the store that backs
// snapshot lookups: Postgres, then Badger, then the snapshot stream.
func (s *Service) openSinks(ctx context.Context) (consolidation.Publisher, snapshots.Reader, error) {
	stream := snapshots.NewStreamPublisher(s.js, s.cfg.SnapshotStream, s.logger)

	publishers := snapshots.MultiPublisher{stream}
	var reader snapshots.Reader = stream

	if s.cfg.BadgerDir != "" {
		store, err := snapshots.OpenBadgerStore(snapshots.BadgerConfig{Path: s.cfg.BadgerDir})
		if err != nil {
			return nil, nil, err
		}

		s.badger = store
		publishers = append(publishers, store)
		reader = store
	}

	if s.cfg.Postgres != nil {
		pool, err := db.NewPool(ctx, s.cfg.Postgres, s.logger)
		if err != nil {
			return nil, nil, err
		}

		s.pool = pool

		if err := db.RunMigrations(ctx, pool, s.logger); err != nil {
			return nil, nil, err
		}

		store := snapshots.NewPostgresStore(pool)
		publishers = append(publishers, store)
		reader = store
	}

	if len(publishers) == 1 {
		return stream, reader, nil
	}

	return publishers, reader, nil
}

func (s *Service) knownServices() (consolidation.KnownServiceSource, error) {
	ids := slices.Clone(s.cfg.KnownServices)

	if s.cfg.KnownServicesFile != "" {
		fromFile, err := consolidation.LoadServiceListFile(s.cfg.KnownServicesFile)
		if err != nil {
			return nil, err
		}

		ids = append(ids, fromFile...)
	}

	if len(ids) == 0 {
		return nil, nil
	}

	return consolidation.StaticServiceList(ids), nil
}

// runOnce executes one consolidation and announces its summary.
func (s *Service) runOnce(ctx context.Context) error {
	result, err := s.coordinator.ExecuteConsolidation(ctx)

	if s.events != nil && result != nil {
		if _, perr := s.events.PublishRunCompleted(ctx, result, result.FinishedAt); perr != nil {
			s.logger.Warn().Err(perr).Str("run_id", result.RunID).Msg("Failed to publish run event")
		}
	}

	return err
}

// Stop waits for a running consolidation, then shuts down the API and
// releases every connection.
func (s *Service) Stop(ctx context.Context) error {
	var errs []error

	if s.scheduler != nil {
		if err := s.scheduler.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("scheduler: %w", err))
		}
	}

	if s.cancel != nil {
		s.cancel()
	}

	s.wg.Wait()

	errs = append(errs, s.release(ctx))

	s.logger.Info().Msg("Activity consolidator stopped")

	return errors.Join(errs...)
}

func (s *Service) release(ctx context.Context) error {
	var errs []error

	if s.badger != nil {
		errs = append(errs, s.badger.Close())
		s.badger = nil
	}

	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}

	if s.nc != nil {
		s.nc.Close()
		s.nc = nil
	}

	if s.tp != nil {
		errs = append(errs, s.tp.Shutdown(ctx))
		s.tp = nil
	}

	return errors.Join(errs...)
}
