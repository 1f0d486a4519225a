package activitystream

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/activityradar/pkg/natsutil"
)

const (
	// MetadataPartitions is the stream metadata key holding the partition count.
	MetadataPartitions = "partitions"

	duplicateWindow = 2 * time.Minute
)

// EnsureRawStream creates or updates the raw activity stream described by cfg.
func EnsureRawStream(ctx context.Context, js jetstream.JetStream, cfg StreamConfig) (jetstream.Stream, error) {
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stream, err := natsutil.EnsureStream(ctx, js, jetstream.StreamConfig{
		Name:        cfg.Name,
		Description: "Normalized service activity records partitioned by service id",
		Subjects:    []string{PartitionWildcard(cfg.SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		Storage:     jetstream.FileStorage,
		MaxAge:      time.Duration(cfg.Retention),
		Replicas:    cfg.Replicas,
		Duplicates:  duplicateWindow,
		Compression: jetstream.S2Compression,
		Metadata: map[string]string{
			MetadataPartitions: strconv.Itoa(cfg.Partitions),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure raw activity stream: %w", err)
	}

	return stream, nil
}
