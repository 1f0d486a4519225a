package main

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorRecordsAreValid(t *testing.T) {
	gen, err := newGenerator(generatorConfig{
		Services:       10,
		RecordsPerTick: 100,
		Days:           30,
		SilentPercent:  20,
		Environment:    "test",
	}, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	assert.Len(t, gen.active(), 8)

	silent := map[string]struct{}{}
	for _, id := range gen.services[:gen.silent] {
		silent[id] = struct{}{}
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, rec := range gen.batch(now) {
		require.NoError(t, rec.Validate())

		assert.NotContains(t, silent, rec.ServiceID)
		assert.False(t, rec.Window.Start.After(now))
		assert.True(t, rec.Window.Start.After(now.AddDate(0, 0, -31)))
		assert.Equal(t, "test", rec.Metadata.Environment)
	}
}

func TestGeneratorKeepsOneActiveService(t *testing.T) {
	gen, err := newGenerator(generatorConfig{Services: 2, SilentPercent: 100}, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	assert.Len(t, gen.active(), 1)

	_, err = newGenerator(generatorConfig{}, rand.New(rand.NewPCG(1, 2)))
	require.ErrorIs(t, err, errServicesRequired)
}
