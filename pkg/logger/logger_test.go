package logger

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInit(t *testing.T) {
	config := &Config{
		Level:  "warn",
		Output: "stdout",
	}

	require.NoError(t, Init(config))
	assert.Equal(t, zerolog.WarnLevel, GetLogger().GetLevel())

	config.Debug = true
	require.NoError(t, Init(config))
	assert.Equal(t, zerolog.DebugLevel, GetLogger().GetLevel())
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	require.Error(t, Init(&Config{Level: "chatty"}))
}

func TestSetDebug(t *testing.T) {
	SetDebug(true)
	assert.Equal(t, zerolog.DebugLevel, GetLogger().GetLevel())

	SetDebug(false)
	assert.Equal(t, zerolog.InfoLevel, GetLogger().GetLevel())
}

func TestDefaultConfigReadsEnvironment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("DEBUG", "yes")
	t.Setenv("LOG_OUTPUT", "stderr")

	cfg := DefaultConfig()

	assert.Equal(t, "error", cfg.Level)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "stderr", cfg.Output)
}

func TestTraceFields(t *testing.T) {
	assert.Nil(t, TraceFields(context.Background()))

	recorder := tracetest.NewSpanRecorder()
	tp, err := InitializeTracing(context.Background(), TracingConfig{
		ServiceName:    "logger-test",
		SpanProcessors: []trace.SpanProcessor{recorder},
	})
	require.NoError(t, err)

	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := GetTracer("logger-test").Start(context.Background(), "op")
	fields := TraceFields(ctx)
	span.End()

	require.NotNil(t, fields)
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Len(t, recorder.Ended(), 1)
}

func TestOTelConfigExporting(t *testing.T) {
	var missing *OTelConfig
	assert.False(t, missing.exporting())
	assert.False(t, (&OTelConfig{Enabled: true}).exporting())
	assert.False(t, (&OTelConfig{Endpoint: "collector:4317"}).exporting())
	assert.True(t, (&OTelConfig{Enabled: true, Endpoint: "collector:4317"}).exporting())
}

func TestSetupTLSConfigRejectsMissingCA(t *testing.T) {
	_, err := setupTLSConfig(&TLSConfig{CAFile: "/nonexistent/ca.pem"})
	require.Error(t, err)

	cfg, err := setupTLSConfig(&TLSConfig{})
	require.NoError(t, err)
	assert.Empty(t, cfg.Certificates)
	assert.Nil(t, cfg.RootCAs)
}

func TestInitializeTracingWithInsecureExporter(t *testing.T) {
	tp, err := InitializeTracing(context.Background(), TracingConfig{
		ServiceName: "logger-test",
		OTel:        &OTelConfig{Enabled: true, Endpoint: "127.0.0.1:4317", Insecure: true},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_ = tp.Shutdown(ctx)
}
