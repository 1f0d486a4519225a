package snapshots

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/carverauto/activityradar/pkg/models"
)

const escapedPrefix = "x_"

// EscapeServiceID maps a service id onto a single subject token. Ids made of
// letters, digits, '-' and '_' are used as is; anything else, and any id that
// itself starts with the escape marker, is hex encoded behind "x_".
func EscapeServiceID(id string) string {
	if id != "" && !strings.HasPrefix(id, escapedPrefix) && tokenSafe(id) {
		return id
	}

	return escapedPrefix + hex.EncodeToString([]byte(id))
}

// UnescapeServiceID reverses EscapeServiceID.
func UnescapeServiceID(token string) (string, error) {
	encoded, ok := strings.CutPrefix(token, escapedPrefix)
	if !ok {
		return token, nil
	}

	raw, err := hex.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidSubject, token)
	}

	return string(raw), nil
}

func tokenSafe(id string) bool {
	for i := 0; i < len(id); i++ {
		c := id[i]

		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}

	return true
}

// SnapshotSubject returns the subject holding the latest snapshot of a service.
func SnapshotSubject(prefix, serviceID string) string {
	return prefix + "." + EscapeServiceID(serviceID)
}

// MessageID identifies one encoded snapshot. Replaying the same run yields the
// same id, so the stream drops the duplicate.
func MessageID(s *models.Snapshot, data []byte) string {
	return fmt.Sprintf("%s/%s/%016x", s.ServiceID, s.SnapshotDate, xxhash.Sum64(data))
}
