package activitystream

import "errors"

var (
	ErrStreamNameRequired    = errors.New("stream name is required")
	ErrSubjectPrefixRequired = errors.New("subject prefix is required")
	ErrInvalidSubjectPrefix  = errors.New("subject prefix must not contain wildcards or empty tokens")
	ErrInvalidPartitionCount = errors.New("partition count must be positive")
	ErrInvalidRetention      = errors.New("retention must not be negative")
	ErrInvalidSubject        = errors.New("subject is not a partition subject")
	ErrInvalidMetadata       = errors.New("invalid stream partition metadata")
	ErrReaderClosed          = errors.New("partition reader is closed")
)
