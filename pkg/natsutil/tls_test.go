package natsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/activityradar/pkg/models"
)

func TestClientTLSConfigRequiresMTLS(t *testing.T) {
	_, err := ClientTLSConfig(nil)
	require.ErrorIs(t, err, ErrMTLSRequired)

	_, err = ClientTLSConfig(&models.SecurityConfig{Mode: models.SecurityModeNone})
	require.ErrorIs(t, err, ErrMTLSRequired)
}

func TestClientTLSConfigReportsEveryMissingFile(t *testing.T) {
	_, err := ClientTLSConfig(&models.SecurityConfig{Mode: models.SecurityModeMTLS})
	require.ErrorIs(t, err, ErrTLSFileMissing)

	for _, name := range []string{"cert_file", "key_file", "ca_file"} {
		assert.Contains(t, err.Error(), name)
	}
}

func TestClientTLSConfigRejectsBadCA(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ca.pem"), []byte("not a certificate"), 0o600))

	sec := &models.SecurityConfig{
		Mode:    models.SecurityModeMTLS,
		CertDir: dir,
		TLS:     models.TLSConfig{CertFile: "client.pem", KeyFile: "client-key.pem", CAFile: "ca.pem"},
	}

	_, err := ClientTLSConfig(sec)
	require.ErrorIs(t, err, ErrCAParsingFailed)
	assert.Equal(t, "ca.pem", sec.TLS.CAFile)
}
