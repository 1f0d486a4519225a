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

package snapshots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/activityradar/pkg/consolidation"
	"github.com/carverauto/activityradar/pkg/logger"
	"github.com/carverauto/activityradar/pkg/models"
	"github.com/carverauto/activityradar/pkg/natsutil"
)

const duplicateWindow = 10 * time.Minute

// EnsureSnapshotStream creates or updates the snapshot stream. The stream keeps
// one message per subject, so it always holds the latest verdict per service.
func EnsureSnapshotStream(ctx context.Context, js jetstream.JetStream, cfg StreamConfig) (jetstream.Stream, error) {
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stream, err := natsutil.EnsureStream(ctx, js, jetstream.StreamConfig{
		Name:              cfg.Name,
		Description:       "Latest activity snapshot per service",
		Subjects:          []string{cfg.SubjectPrefix + ".*"},
		Retention:         jetstream.LimitsPolicy,
		Storage:           jetstream.FileStorage,
		MaxMsgsPerSubject: 1,
		Discard:           jetstream.DiscardOld,
		MaxAge:            time.Duration(cfg.Retention),
		Replicas:          cfg.Replicas,
		Duplicates:        duplicateWindow,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure snapshot stream: %w", err)
	}

	return stream, nil
}

// StreamPublisher publishes snapshots onto the snapshot stream and reads them back.
type StreamPublisher struct {
	js     jetstream.JetStream
	cfg    StreamConfig
	logger logger.Logger
}

var (
	_ consolidation.Publisher = (*StreamPublisher)(nil)
	_ Reader                  = (*StreamPublisher)(nil)
)

func NewStreamPublisher(js jetstream.JetStream, cfg StreamConfig, log logger.Logger) *StreamPublisher {
	cfg.ApplyDefaults()

	return &StreamPublisher{
		js:     js,
		cfg:    cfg,
		logger: log,
	}
}

// Publish sends every snapshot and waits for each acknowledgement. The first
// failure stops the batch.
func (p *StreamPublisher) Publish(ctx context.Context, snapshots []models.Snapshot) error {
	duplicates := 0

	for i := range snapshots {
		s := &snapshots[i]

		data, err := models.EncodeSnapshot(s)
		if err != nil {
			return err
		}

		ack, err := p.js.Publish(ctx, SnapshotSubject(p.cfg.SubjectPrefix, s.ServiceID), data,
			jetstream.WithMsgID(MessageID(s, data)))
		if err != nil {
			return fmt.Errorf("failed to publish snapshot for %s: %w", s.ServiceID, err)
		}

		if ack.Duplicate {
			duplicates++
		}
	}

	p.logger.Debug().
		Str("stream", p.cfg.Name).
		Int("snapshots", len(snapshots)).
		Int("duplicates", duplicates).
		Msg("Published snapshots")

	return nil
}

// Get returns the latest snapshot published for serviceID.
func (p *StreamPublisher) Get(ctx context.Context, serviceID string) (*models.Snapshot, error) {
	stream, err := p.js.Stream(ctx, p.cfg.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up stream %s: %w", p.cfg.Name, err)
	}

	msg, err := stream.GetLastMsgForSubject(ctx, SnapshotSubject(p.cfg.SubjectPrefix, serviceID))
	if errors.Is(err, jetstream.ErrMsgNotFound) {
		return nil, ErrSnapshotNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot for %s: %w", serviceID, err)
	}

	return models.DecodeSnapshot(msg.Data)
}
