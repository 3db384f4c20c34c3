package transport

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/dtroode/taskdesk/internal/model"
)

var (
	_ model.SecurityLayer = (*TLSTransport)(nil)
	_ model.SecurityLayer = (*PlainTransport)(nil)
)

// TLSTransport represents a TLS-enabled HTTP transport to the task API.
// It can trust a private CA and present a client certificate.
type TLSTransport struct {
	caFileName         string
	certFileName       string
	privateKeyFileName string
}

// NewTLSTransport creates a new TLSTransport instance.
//
// Parameters:
//   - caFileName: Path to a PEM bundle of trusted CAs; empty uses the system pool
//   - certFileName: Path to the client certificate file; optional
//   - privateKeyFileName: Path to the client private key file; optional
//
// Returns a pointer to the newly created TLSTransport instance.
func NewTLSTransport(caFileName, certFileName, privateKeyFileName string) *TLSTransport {
	return &TLSTransport{
		caFileName:         caFileName,
		certFileName:       certFileName,
		privateKeyFileName: privateKeyFileName,
	}
}

// Transport builds an HTTP transport that speaks TLS 1.2 or newer.
//
// Returns the transport or an error if the CA bundle or client key pair
// cannot be loaded.
func (t *TLSTransport) Transport() (http.RoundTripper, error) {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	if t.caFileName != "" {
		pem, err := os.ReadFile(t.caFileName)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errors.New("failed to parse CA file: no certificates found")
		}
		tlsConfig.RootCAs = pool
	}

	if (t.certFileName == "") != (t.privateKeyFileName == "") {
		return nil, errors.New("client certificate and private key must be set together")
	}
	if t.certFileName != "" {
		cert, err := tls.LoadX509KeyPair(t.certFileName, t.privateKeyFileName)
		if err != nil {
			return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	base := http.DefaultTransport.(*http.Transport).Clone()
	base.TLSClientConfig = tlsConfig
	return base, nil
}

// PlainTransport represents an HTTP transport without extra TLS settings.
type PlainTransport struct{}

// NewPlainTransport creates a new PlainTransport instance.
func NewPlainTransport() *PlainTransport {
	return &PlainTransport{}
}

// Transport returns a copy of the default HTTP transport.
func (t *PlainTransport) Transport() (http.RoundTripper, error) {
	return http.DefaultTransport.(*http.Transport).Clone(), nil
}
