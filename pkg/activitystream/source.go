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

package activitystream

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/activityradar/pkg/consolidation"
	"github.com/carverauto/activityradar/pkg/logger"
	"github.com/carverauto/activityradar/pkg/models"
)

const (
	defaultPollTimeout = 5 * time.Second
	defaultBatchSize   = 500

	minInactiveThreshold = 30 * time.Second
)

// JetStreamSource reads the raw activity stream one partition subject at a
// time through ordered consumers. Nothing is acknowledged, so every run sees
// the full retained history.
type JetStreamSource struct {
	js     jetstream.JetStream
	cfg    StreamConfig
	logger logger.Logger
}

var _ consolidation.PartitionSource = (*JetStreamSource)(nil)

// NewJetStreamSource returns a source for the stream described by cfg.
func NewJetStreamSource(js jetstream.JetStream, cfg StreamConfig, log logger.Logger) *JetStreamSource {
	cfg.ApplyDefaults()

	return &JetStreamSource{
		js:     js,
		cfg:    cfg,
		logger: log,
	}
}

// Partitions returns the partitions recorded in the stream metadata. Streams
// without the metadata key fall back to the partition subjects that hold data.
func (s *JetStreamSource) Partitions(ctx context.Context) ([]models.PartitionID, error) {
	stream, err := s.js.Stream(ctx, s.cfg.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up stream %s: %w", s.cfg.Name, err)
	}

	if raw, ok := stream.CachedInfo().Config.Metadata[MetadataPartitions]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMetadata, raw)
		}

		partitions := make([]models.PartitionID, n)
		for i := range partitions {
			partitions[i] = models.PartitionID(i)
		}

		return partitions, nil
	}

	info, err := stream.Info(ctx, jetstream.WithSubjectFilter(PartitionWildcard(s.cfg.SubjectPrefix)))
	if err != nil {
		return nil, fmt.Errorf("failed to read stream state %s: %w", s.cfg.Name, err)
	}

	partitions := make([]models.PartitionID, 0, len(info.State.Subjects))

	for subject := range info.State.Subjects {
		p, err := PartitionFromSubject(s.cfg.SubjectPrefix, subject)
		if err != nil {
			s.logger.Warn().Str("subject", subject).Msg("Ignoring non-partition subject")
			continue
		}

		partitions = append(partitions, p)
	}

	slices.Sort(partitions)

	s.logger.Debug().
		Str("stream", s.cfg.Name).
		Int("partitions", len(partitions)).
		Msg("Discovered partitions from stream subjects")

	return partitions, nil
}

// OpenPartition creates an ordered consumer on the partition subject, starting
// at the earliest retained record or at opts.StartTime.
func (s *JetStreamSource) OpenPartition(
	ctx context.Context, partition models.PartitionID, opts models.PartitionReadOptions) (consolidation.PartitionReader, error) {
	pollTimeout := opts.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = defaultPollTimeout
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	consumerCfg := jetstream.OrderedConsumerConfig{
		FilterSubjects:    []string{PartitionSubject(s.cfg.SubjectPrefix, partition)},
		DeliverPolicy:     jetstream.DeliverAllPolicy,
		InactiveThreshold: max(2*pollTimeout, minInactiveThreshold),
	}

	if opts.StartTime != nil {
		start := opts.StartTime.UTC()
		consumerCfg.DeliverPolicy = jetstream.DeliverByStartTimePolicy
		consumerCfg.OptStartTime = &start
	}

	consumer, err := s.js.OrderedConsumer(ctx, s.cfg.Name, consumerCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer for partition %d: %w", partition, err)
	}

	return &partitionReader{
		consumer:    consumer,
		partition:   partition,
		pollTimeout: pollTimeout,
		batchSize:   batchSize,
	}, nil
}

type partitionReader struct {
	consumer    jetstream.Consumer
	partition   models.PartitionID
	pollTimeout time.Duration
	batchSize   int

	drained bool
	closed  bool
}

// Next fetches up to one batch. Once a record reports nothing pending behind
// it the reader is drained and every later call returns an empty batch.
func (r *partitionReader) Next(ctx context.Context) ([]models.StreamRecord, error) {
	if r.closed {
		return nil, ErrReaderClosed
	}

	if r.drained {
		return nil, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	batch, err := r.consumer.Fetch(r.batchSize, jetstream.FetchMaxWait(r.pollTimeout))
	if err != nil {
		if errors.Is(err, nats.ErrTimeout) {
			return nil, nil
		}

		return nil, fmt.Errorf("fetch failed: %w", err)
	}

	records := make([]models.StreamRecord, 0, r.batchSize)

	for msg := range batch.Messages() {
		md, err := msg.Metadata()
		if err != nil {
			return nil, fmt.Errorf("failed to read message metadata: %w", err)
		}

		records = append(records, models.StreamRecord{
			Partition: r.partition,
			Offset:    md.Sequence.Stream,
			Timestamp: md.Timestamp.UTC(),
			Subject:   msg.Subject(),
			Value:     msg.Data(),
		})

		if md.NumPending == 0 {
			r.drained = true

			break
		}
	}

	if !r.drained {
		if err := batch.Error(); err != nil && !errors.Is(err, nats.ErrTimeout) {
			return nil, fmt.Errorf("fetch failed: %w", err)
		}
	}

	return records, nil
}

// Close releases the handle. The ephemeral consumer is removed by the server
// once it has been inactive for its threshold.
func (r *partitionReader) Close() error {
	r.closed = true

	return nil
}
