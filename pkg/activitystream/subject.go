package activitystream

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/carverauto/activityradar/pkg/models"
)

// PartitionSubject returns the subject carrying partition p.
func PartitionSubject(prefix string, p models.PartitionID) string {
	return prefix + "." + strconv.Itoa(int(p))
}

// PartitionWildcard returns the subject filter covering every partition.
func PartitionWildcard(prefix string) string {
	return prefix + ".*"
}

// PartitionFromSubject parses the partition number out of a partition subject.
func PartitionFromSubject(prefix, subject string) (models.PartitionID, error) {
	rest, ok := strings.CutPrefix(subject, prefix+".")
	if !ok || rest == "" || strings.Contains(rest, ".") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSubject, subject)
	}

	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSubject, subject)
	}

	return models.PartitionID(n), nil
}

// PartitionFor maps a service id onto one of n partitions. Every record of a
// service lands on the same partition as long as n is unchanged.
func PartitionFor(serviceID string, n int) models.PartitionID {
	if n <= 0 {
		return 0
	}

	return models.PartitionID(xxhash.Sum64String(serviceID) % uint64(n))
}
