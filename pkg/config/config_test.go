package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/activityradar/pkg/logger"
	"github.com/carverauto/activityradar/pkg/models"
)

var errNameRequired = errors.New("name is required")

type nestedConfig struct {
	Partitions int             `json:"partitions" yaml:"partitions"`
	Retention  models.Duration `json:"retention" yaml:"retention"`
}

type EmbeddedConfig struct {
	WindowDays int `json:"window_days" yaml:"window_days"`
}

type testConfig struct {
	EmbeddedConfig `yaml:",inline"`

	Name     string                 `json:"name" yaml:"name"`
	Enabled  bool                   `json:"enabled" yaml:"enabled"`
	Timeout  models.Duration        `json:"timeout" yaml:"timeout"`
	Services []string               `json:"services" yaml:"services"`
	Stream   nestedConfig           `json:"stream" yaml:"stream"`
	Security *models.SecurityConfig `json:"security,omitempty" yaml:"security,omitempty"`

	defaulted bool
}

func (c *testConfig) ApplyDefaults() {
	c.defaulted = true

	if c.Stream.Partitions == 0 {
		c.Stream.Partitions = 4
	}
}

func (c *testConfig) Validate() error {
	if c.Name == "" {
		return errNameRequired
	}

	return nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadAndValidateJSON(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "")

	path := writeFile(t, "consolidator.json", `{
		"name": "consolidator",
		"window_days": 14,
		"enabled": true,
		"timeout": "30s",
		"services": ["svc-a", "svc-b"],
		"stream": {"partitions": 8, "retention": "720h"}
	}`)

	var cfg testConfig

	require.NoError(t, NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), path, &cfg))

	assert.Equal(t, "consolidator", cfg.Name)
	assert.Equal(t, 14, cfg.WindowDays)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, models.Duration(30*time.Second), cfg.Timeout)
	assert.Equal(t, []string{"svc-a", "svc-b"}, cfg.Services)
	assert.Equal(t, 8, cfg.Stream.Partitions)
	assert.Equal(t, models.Duration(720*time.Hour), cfg.Stream.Retention)
	assert.True(t, cfg.defaulted)
}

func TestLoadAndValidateYAML(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "file")

	path := writeFile(t, "consolidator.yaml", `
name: consolidator
window_days: 7
timeout: 1m
stream:
  retention: 48h
security:
  mode: mtls
  cert_dir: /etc/activityradar/certs
  tls:
    cert_file: client.pem
    key_file: client-key.pem
    ca_file: /abs/root.pem
`)

	var cfg testConfig

	require.NoError(t, NewConfig(nil).LoadAndValidate(context.Background(), path, &cfg))

	assert.Equal(t, 7, cfg.WindowDays)
	assert.Equal(t, models.Duration(time.Minute), cfg.Timeout)
	assert.Equal(t, 4, cfg.Stream.Partitions, "defaults fill unset fields")
	assert.Equal(t, models.Duration(48*time.Hour), cfg.Stream.Retention)

	require.NotNil(t, cfg.Security)
	assert.Equal(t, "/etc/activityradar/certs/client.pem", cfg.Security.TLS.CertFile)
	assert.Equal(t, "/etc/activityradar/certs/client-key.pem", cfg.Security.TLS.KeyFile)
	assert.Equal(t, "/abs/root.pem", cfg.Security.TLS.CAFile)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "")

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "json", file: "c.json", content: `{"name": "x", "window": 3}`},
		{name: "yaml", file: "c.yml", content: "name: x\nwindow: 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg testConfig

			err := NewConfig(logger.NewTestLogger()).LoadAndValidate(
				context.Background(), writeFile(t, tt.file, tt.content), &cfg)
			require.Error(t, err)
		})
	}
}

func TestLoadAndValidateRunsValidation(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "")

	path := writeFile(t, "c.json", `{"enabled": true}`)

	var cfg testConfig

	err := NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), path, &cfg)
	require.ErrorIs(t, err, errNameRequired)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "")

	var cfg testConfig

	err := NewConfig(logger.NewTestLogger()).LoadAndValidate(
		context.Background(), filepath.Join(t.TempDir(), "absent.json"), &cfg)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestInvalidConfigSource(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "consul")

	var cfg testConfig

	err := NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), "unused.json", &cfg)
	require.ErrorIs(t, err, errInvalidConfigSource)
}

func TestEnvLoaderVariables(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("CONFIG_ENV_PREFIX", "AR_TEST_")
	t.Setenv("AR_TEST_NAME", "from-env")
	t.Setenv("AR_TEST_WINDOW_DAYS", "21")
	t.Setenv("AR_TEST_ENABLED", "true")
	t.Setenv("AR_TEST_TIMEOUT", "90s")
	t.Setenv("AR_TEST_SERVICES", "svc-a, svc-b,,")
	t.Setenv("AR_TEST_STREAM_PARTITIONS", "16")
	t.Setenv("AR_TEST_STREAM_RETENTION", "24h")

	var cfg testConfig

	require.NoError(t, NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), "", &cfg))

	assert.Equal(t, "from-env", cfg.Name)
	assert.Equal(t, 21, cfg.WindowDays)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, models.Duration(90*time.Second), cfg.Timeout)
	assert.Equal(t, []string{"svc-a", "svc-b"}, cfg.Services)
	assert.Equal(t, 16, cfg.Stream.Partitions)
	assert.Equal(t, models.Duration(24*time.Hour), cfg.Stream.Retention)
	assert.Nil(t, cfg.Security, "pointer sections stay nil without matching variables")
}

func TestEnvLoaderConfigJSON(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("CONFIG_ENV_PREFIX", "AR_JSON_")
	t.Setenv("AR_JSON_CONFIG_JSON", `{"name":"json-env","stream":{"partitions":2}}`)
	t.Setenv("AR_JSON_NAME", "ignored")

	var cfg testConfig

	require.NoError(t, NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), "", &cfg))

	assert.Equal(t, "json-env", cfg.Name)
	assert.Equal(t, 2, cfg.Stream.Partitions)
}

func TestEnvLoaderInvalidValue(t *testing.T) {
	t.Setenv("AR_BAD_STREAM_PARTITIONS", "many")

	var cfg testConfig

	err := NewEnvConfigLoader(logger.NewTestLogger(), "AR_BAD_").Load(context.Background(), "", &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AR_BAD_STREAM_PARTITIONS")
}

func TestEnvLoaderRequiresStructPointer(t *testing.T) {
	loader := NewEnvConfigLoader(logger.NewTestLogger(), "AR_PTR_")

	var cfg testConfig

	require.ErrorIs(t, loader.Load(context.Background(), "", cfg), ErrDstMustBeNonNilPointer)

	n := 3
	require.ErrorIs(t, loader.Load(context.Background(), "", &n), ErrDstMustBePointerToStruct)
}

func TestNormalizeTLSPaths(t *testing.T) {
	tls := models.TLSConfig{CertFile: "a.pem", KeyFile: "", CAFile: "/root/ca.pem"}

	NormalizeTLSPaths(&tls, "/certs")

	assert.Equal(t, "/certs/a.pem", tls.CertFile)
	assert.Empty(t, tls.KeyFile)
	assert.Equal(t, "/root/ca.pem", tls.CAFile)

	unchanged := models.TLSConfig{CertFile: "a.pem"}
	NormalizeTLSPaths(&unchanged, "")
	assert.Equal(t, "a.pem", unchanged.CertFile)
}
