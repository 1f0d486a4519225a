package models

import "time"

// PartitionID identifies an independently readable slice of the raw activity stream.
type PartitionID int

// StreamRecord is one undecoded entry read from a partition.
type StreamRecord struct {
	Partition PartitionID
	Offset    uint64
	Timestamp time.Time
	Subject   string
	Value     []byte
}

// PartitionReadOptions controls how a partition read handle is positioned and polled.
type PartitionReadOptions struct {
	// StartTime positions the handle at the first record at or after the
	// instant. When nil the handle starts at the earliest available offset.
	StartTime   *time.Time
	PollTimeout time.Duration
	BatchSize   int
}
