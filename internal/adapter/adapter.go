package adapter

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// MakeTLSConfig builds a mutual TLS client config for the broker and the
// schema registry. All args are file paths. It panics on unreadable or
// malformed files since startup cannot continue without them.
func MakeTLSConfig(ca, cert, key string) *tls.Config {
	cfg, err := LoadTLSConfig(ca, cert, key)
	if err != nil {
		panic(err)
	}
	return cfg
}

func LoadTLSConfig(ca, cert, key string) (*tls.Config, error) {
	const op = "adapter.LoadTLSConfig"

	caCert, err := os.ReadFile(ca)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read CA certificate file: %w", op, err)
	}

	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("%s: failed to parse CA certificate", op)
	}

	clientCert, err := tls.LoadX509KeyPair(cert, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &tls.Config{
		RootCAs:      caCertPool,
		Certificates: []tls.Certificate{clientCert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
