package models

import "errors"

var (
	ErrMissingServiceID      = errors.New("service.id is required")
	ErrMissingWindow         = errors.New("timestamps.window start and end are required")
	ErrInvertedWindow        = errors.New("timestamps.window start is after end")
	ErrNegativeActivityCount = errors.New("activity.count must not be negative")
	ErrUnknownConfidence     = errors.New("unknown confidence.level")
	ErrInvalidActivityJSON   = errors.New("failed to unmarshal activity record")
	ErrInvalidSnapshotJSON   = errors.New("failed to unmarshal snapshot")
	errInvalidDuration       = errors.New("invalid duration")
)
