package natsutil

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"

	"github.com/carverauto/activityradar/pkg/config"
	"github.com/carverauto/activityradar/pkg/models"
)

var (
	ErrMTLSRequired    = errors.New("security mode is not mtls")
	ErrTLSFileMissing  = errors.New("tls file path is required")
	ErrCAParsingFailed = errors.New("no certificates found in CA file")
)

// ClientTLSConfig builds the mTLS client configuration for the NATS link.
// Relative paths resolve against CertDir. Every missing path is reported.
func ClientTLSConfig(sec *models.SecurityConfig) (*tls.Config, error) {
	if sec == nil || sec.Mode != models.SecurityModeMTLS {
		return nil, ErrMTLSRequired
	}

	paths := sec.TLS
	config.NormalizeTLSPaths(&paths, sec.CertDir)

	if err := requireTLSFiles(paths); err != nil {
		return nil, err
	}

	roots, err := loadCAPool(paths.CAFile)
	if err != nil {
		return nil, err
	}

	cert, err := tls.LoadX509KeyPair(paths.CertFile, paths.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("load client key pair: %w", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      roots,
		ServerName:   sec.ServerName,
		MinVersion:   tls.VersionTLS13,
	}, nil
}

func requireTLSFiles(paths models.TLSConfig) error {
	var errs []error

	for name, path := range map[string]string{
		"cert_file": paths.CertFile,
		"key_file":  paths.KeyFile,
		"ca_file":   paths.CAFile,
	} {
		if path == "" {
			errs = append(errs, fmt.Errorf("%w: %s", ErrTLSFileMissing, name))
		}
	}

	return errors.Join(errs...)
}

func loadCAPool(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read CA file: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("%w: %s", ErrCAParsingFailed, path)
	}

	return pool, nil
}
