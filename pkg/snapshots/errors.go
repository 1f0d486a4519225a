package snapshots

import "errors"

var (
	// ErrSnapshotNotFound is returned by readers when a service has no stored snapshot.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	ErrStreamNameRequired = errors.New("snapshot stream name is required")
	ErrInvalidSubject     = errors.New("invalid snapshot subject")
	ErrInvalidRetention   = errors.New("snapshot retention must not be negative")
	errStoreClosed        = errors.New("snapshot store is closed")
)
