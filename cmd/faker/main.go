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

// cmd/faker/main.go publishes synthetic activity records to the raw stream.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/carverauto/activityradar/pkg/activitystream"
	"github.com/carverauto/activityradar/pkg/lifecycle"
	"github.com/carverauto/activityradar/pkg/logger"
	"github.com/carverauto/activityradar/pkg/models"
	"github.com/carverauto/activityradar/pkg/natsutil"
)

var errServicesRequired = errors.New("services must be positive")

const (
	maxCallers      = 4
	maxActivity     = 500
	lowConfidence   = 20
	highConfidence  = 70
	percentageRange = 100
)

type generatorConfig struct {
	Services       int
	RecordsPerTick int
	Days           int
	SilentPercent  int
	Environment    string
}

// generator produces records for a fixed population of services. Services in
// the silent share never receive records.
type generator struct {
	cfg      generatorConfig
	rng      *rand.Rand
	services []string
	silent   int
}

func newGenerator(cfg generatorConfig, rng *rand.Rand) (*generator, error) {
	if cfg.Services <= 0 {
		return nil, errServicesRequired
	}

	services := make([]string, cfg.Services)
	for i := range services {
		services[i] = fmt.Sprintf("svc-%s", uuid.NewString()[:8])
	}

	silent := cfg.Services * cfg.SilentPercent / percentageRange
	if silent >= cfg.Services {
		silent = cfg.Services - 1
	}

	return &generator{cfg: cfg, rng: rng, services: services, silent: silent}, nil
}

// active returns the services that receive records.
func (g *generator) active() []string {
	return g.services[g.silent:]
}

func (g *generator) record(now time.Time) models.ActivityRecord {
	active := g.active()
	id := active[g.rng.IntN(len(active))]

	age := time.Duration(0)
	if g.cfg.Days > 0 {
		age = time.Duration(g.rng.Int64N(int64(g.cfg.Days) * int64(24*time.Hour)))
	}

	start := now.Add(-age).Truncate(time.Minute)

	callers := make([]string, g.rng.IntN(maxCallers+1))
	for i := range callers {
		callers[i] = g.services[g.rng.IntN(len(g.services))]
	}

	confidence := models.ConfidenceMedium

	switch p := g.rng.IntN(percentageRange); {
	case p < lowConfidence:
		confidence = models.ConfidenceLow
	case p >= highConfidence:
		confidence = models.ConfidenceHigh
	}

	source := models.DiscoverySourceDynatrace
	if g.rng.IntN(2) == 0 {
		source = models.DiscoverySourceGitHub
	}

	return models.ActivityRecord{
		ServiceID:       id,
		ActivityCount:   g.rng.Int64N(maxActivity),
		Callers:         callers,
		Window:          models.TimeWindow{Start: start, End: start.Add(time.Minute)},
		ConfidenceLevel: confidence,
		Metadata:        &models.ActivityMetadata{Environment: g.cfg.Environment, Source: "faker"},
		DiscoverySource: source,
	}
}

func (g *generator) batch(now time.Time) []models.ActivityRecord {
	recs := make([]models.ActivityRecord, g.cfg.RecordsPerTick)
	for i := range recs {
		recs[i] = g.record(now)
	}

	return recs
}

func main() {
	natsURL := flag.String("nats-url", nats.DefaultURL, "NATS server URL")
	streamName := flag.String("stream", activitystream.DefaultRawStreamName, "Raw activity stream name")
	prefix := flag.String("subject-prefix", activitystream.DefaultRawSubjectPrefix, "Raw activity subject prefix")
	partitions := flag.Int("partitions", activitystream.DefaultPartitions, "Number of stream partitions")
	services := flag.Int("services", 50, "Number of synthetic services")
	perTick := flag.Int("records", 200, "Records published per tick")
	days := flag.Int("days", 45, "Spread record windows over this many past days")
	silent := flag.Int("silent-percent", 10, "Share of services that never receive records")
	env := flag.String("environment", "dev", "Environment recorded in record metadata")
	interval := flag.Duration("interval", 0, "Publish every interval; zero publishes once")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.SetFlags(0)

	fakerLogger, err := lifecycle.CreateComponentLogger(ctx, "activity-faker", logger.DefaultConfig())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	nc, err := natsutil.ConnectWithSecurity(*natsURL, nil, fakerLogger, nats.Name("activity-faker"))
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer nc.Close()

	js, err := natsutil.NewJetStream(nc, "")
	if err != nil {
		log.Fatalf("Failed to create JetStream context: %v", err)
	}

	streamCfg := activitystream.StreamConfig{Name: *streamName, SubjectPrefix: *prefix, Partitions: *partitions}
	streamCfg.ApplyDefaults()

	if _, err := activitystream.EnsureRawStream(ctx, js, streamCfg); err != nil {
		log.Fatalf("Failed to ensure raw stream: %v", err)
	}

	gen, err := newGenerator(generatorConfig{
		Services:       *services,
		RecordsPerTick: *perTick,
		Days:           *days,
		SilentPercent:  *silent,
		Environment:    *env,
	}, rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)))
	if err != nil {
		log.Fatalf("Invalid generator settings: %v", err)
	}

	producer := activitystream.NewProducer(js, streamCfg)

	publish := func() {
		n, err := producer.PublishBatch(ctx, gen.batch(time.Now().UTC()))
		if err != nil {
			fakerLogger.Warn().Err(err).Int("published", n).Msg("Some records failed to publish")
			return
		}

		fakerLogger.Info().Int("published", n).Int("services", len(gen.active())).Msg("Published activity records")
	}

	publish()

	if *interval <= 0 {
		return
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			publish()
		}
	}
}
