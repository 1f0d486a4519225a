package activitystream

import (
	"context"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/activityradar/pkg/models"
)

// Producer publishes activity records onto the raw stream, keyed by service id.
type Producer struct {
	js     jetstream.JetStream
	prefix string
	n      int
}

// NewProducer returns a producer writing to the partitions described by cfg.
func NewProducer(js jetstream.JetStream, cfg StreamConfig) *Producer {
	cfg.ApplyDefaults()

	return &Producer{
		js:     js,
		prefix: cfg.SubjectPrefix,
		n:      cfg.Partitions,
	}
}

// Partitions returns the partition count records are spread over.
func (p *Producer) Partitions() int {
	return p.n
}

// Publish validates and publishes one record on its service's partition. The
// message id is derived from the payload, so a retried publish is deduplicated
// by the stream.
func (p *Producer) Publish(ctx context.Context, rec *models.ActivityRecord) (models.PartitionID, error) {
	data, err := models.EncodeActivityRecord(rec)
	if err != nil {
		return 0, err
	}

	partition := PartitionFor(rec.ServiceID, p.n)

	msg := nats.NewMsg(PartitionSubject(p.prefix, partition))
	msg.Data = data
	msg.Header.Set(nats.MsgIdHdr, messageID(rec.ServiceID, data))

	if _, err := p.js.PublishMsg(ctx, msg); err != nil {
		return 0, fmt.Errorf("failed to publish activity for %s: %w", rec.ServiceID, err)
	}

	return partition, nil
}

// PublishBatch publishes records in order and returns how many were accepted.
// A failed record does not stop the rest.
func (p *Producer) PublishBatch(ctx context.Context, recs []models.ActivityRecord) (int, error) {
	var (
		published int
		errs      []error
	)

	for i := range recs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		if _, err := p.Publish(ctx, &recs[i]); err != nil {
			errs = append(errs, err)
			continue
		}

		published++
	}

	return published, errors.Join(errs...)
}

func messageID(serviceID string, data []byte) string {
	return fmt.Sprintf("%s/%016x", serviceID, xxhash.Sum64(data))
}
