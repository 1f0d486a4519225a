package natsutil

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go/jetstream"
)

// EnsureStream creates the stream, or updates an existing one so that it
// covers every subject of cfg while keeping subjects it already had.
func EnsureStream(ctx context.Context, js jetstream.JetStream, cfg jetstream.StreamConfig) (jetstream.Stream, error) {
	stream, err := js.Stream(ctx, cfg.Name)

	switch {
	case errors.Is(err, jetstream.ErrStreamNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to get stream %s: %w", cfg.Name, err)
	default:
		existing := stream.CachedInfo().Config.Subjects

		subjects := append([]string(nil), existing...)
		for _, subject := range cfg.Subjects {
			subjects = ensureSubjectList(subjects, subject)
		}

		cfg.Subjects = subjects
	}

	stream, err = js.CreateOrUpdateStream(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create or update stream %s: %w", cfg.Name, err)
	}

	return stream, nil
}

// ensureSubjectList appends subject unless an existing entry already covers it.
func ensureSubjectList(subjects []string, subject string) []string {
	for _, existing := range subjects {
		if matchesSubject(existing, subject) {
			return subjects
		}
	}

	return append(subjects, subject)
}

// matchesSubject reports whether pattern, which may use the * and >
// wildcards, covers subject. A wildcard in subject only matches the same
// wildcard in pattern.
func matchesSubject(pattern, subject string) bool {
	pTokens := strings.Split(pattern, ".")
	sTokens := strings.Split(subject, ".")

	for i, p := range pTokens {
		if p == ">" {
			return len(sTokens) > i
		}

		if i >= len(sTokens) {
			return false
		}

		if p == "*" {
			if sTokens[i] == ">" {
				return false
			}

			continue
		}

		if p != sTokens[i] {
			return false
		}
	}

	return len(pTokens) == len(sTokens)
}
