package natsutil

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/carverauto/activityradar/pkg/models"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	eventSource      = "activityradar/consolidator"
	eventSpecVersion = "1.0"
	contentTypeJSON  = "application/json"

	// RunCompletedEventType marks the summary of a finished consolidation run.
	RunCompletedEventType = "com.carverauto.activityradar.consolidation.run"
)

// EventPublisher provides methods for publishing CloudEvents to NATS JetStream.
type EventPublisher struct {
	js      jetstream.JetStream
	subject string
}

// NewEventPublisher publishes run events on subject, which must be captured by a stream.
func NewEventPublisher(js jetstream.JetStream, subject string) *EventPublisher {
	return &EventPublisher{
		js:      js,
		subject: subject,
	}
}

// EnsureEventStream provisions the stream that captures run events.
func EnsureEventStream(ctx context.Context, js jetstream.JetStream, name, subject string, maxAge time.Duration) error {
	_, err := EnsureStream(ctx, js, jetstream.StreamConfig{
		Name:        name,
		Description: "Consolidation run events",
		Subjects:    []string{subject},
		MaxAge:      maxAge,
		Storage:     jetstream.FileStorage,
	})

	return err
}

// PublishRunCompleted publishes a run summary as a CloudEvent and returns
// the event id.
func (p *EventPublisher) PublishRunCompleted(ctx context.Context, summary interface{}, finishedAt time.Time) (string, error) {
	event := models.CloudEvent{
		SpecVersion:     eventSpecVersion,
		ID:              uuid.New().String(),
		Source:          eventSource,
		Type:            RunCompletedEventType,
		DataContentType: contentTypeJSON,
		Subject:         p.subject,
		Time:            &finishedAt,
		Data:            summary,
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("failed to marshal run event: %w", err)
	}

	if _, err := p.js.Publish(ctx, p.subject, eventBytes, jetstream.WithMsgID(event.ID)); err != nil {
		return "", fmt.Errorf("failed to publish run event: %w", err)
	}

	return event.ID, nil
}
