package transport

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestCertificate(t *testing.T, certFile, keyFile string) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject: pkix.Name{
			Organization: []string{"Test"},
			Country:      []string{"US"},
			Locality:     []string{"San Francisco"},
		},
		NotBefore:             time.Now().Add(-time.Minute),
		NotAfter:              time.Now().Add(365 * 24 * time.Hour),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		IPAddresses:           []net.IP{net.IPv4(127, 0, 0, 1)},
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &privateKey.PublicKey, privateKey)
	require.NoError(t, err)

	certOut, err := os.Create(certFile)
	require.NoError(t, err)
	defer certOut.Close()

	err = pem.Encode(certOut, &pem.Block{Type: "CERTIFICATE", Bytes: certDER})
	require.NoError(t, err)

	keyOut, err := os.Create(keyFile)
	require.NoError(t, err)
	defer keyOut.Close()

	privKeyBytes, err := x509.MarshalPKCS8PrivateKey(privateKey)
	require.NoError(t, err)

	err = pem.Encode(keyOut, &pem.Block{Type: "PRIVATE KEY", Bytes: privKeyBytes})
	require.NoError(t, err)
}

func newTLSServer(t *testing.T, certFile, keyFile string, requireClientCert bool) *httptest.Server {
	t.Helper()

	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	require.NoError(t, err)

	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	srv.TLS = &tls.Config{Certificates: []tls.Certificate{cert}}

	if requireClientCert {
		pemBytes, err := os.ReadFile(certFile)
		require.NoError(t, err)
		pool := x509.NewCertPool()
		require.True(t, pool.AppendCertsFromPEM(pemBytes))
		srv.TLS.ClientCAs = pool
		srv.TLS.ClientAuth = tls.RequireAndVerifyClientCert
	}

	srv.StartTLS()
	t.Cleanup(srv.Close)
	return srv
}

func TestNewTLSTransport(t *testing.T) {
	tr := NewTLSTransport("ca.pem", "test.crt", "test.key")
	require.NotNil(t, tr)
	assert.Equal(t, "ca.pem", tr.caFileName)
	assert.Equal(t, "test.crt", tr.certFileName)
	assert.Equal(t, "test.key", tr.privateKeyFileName)
}

func TestTLSTransport_Transport_TrustsCustomCA(t *testing.T) {
	tempDir := t.TempDir()
	certFile := filepath.Join(tempDir, "test.crt")
	keyFile := filepath.Join(tempDir, "test.key")
	createTestCertificate(t, certFile, keyFile)

	srv := newTLSServer(t, certFile, keyFile, false)

	rt, err := NewTLSTransport(certFile, "", "").Transport()
	require.NoError(t, err)

	resp, err := (&http.Client{Transport: rt}).Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTLSTransport_Transport_ClientCertificate(t *testing.T) {
	tempDir := t.TempDir()
	certFile := filepath.Join(tempDir, "test.crt")
	keyFile := filepath.Join(tempDir, "test.key")
	createTestCertificate(t, certFile, keyFile)

	srv := newTLSServer(t, certFile, keyFile, true)

	withCert, err := NewTLSTransport(certFile, certFile, keyFile).Transport()
	require.NoError(t, err)

	resp, err := (&http.Client{Transport: withCert}).Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	withoutCert, err := NewTLSTransport(certFile, "", "").Transport()
	require.NoError(t, err)

	_, err = (&http.Client{Transport: withoutCert}).Get(srv.URL)
	require.Error(t, err)
}

func TestTLSTransport_Transport_UnknownCA(t *testing.T) {
	tempDir := t.TempDir()
	certFile := filepath.Join(tempDir, "test.crt")
	keyFile := filepath.Join(tempDir, "test.key")
	createTestCertificate(t, certFile, keyFile)

	srv := newTLSServer(t, certFile, keyFile, false)

	rt, err := NewTLSTransport("", "", "").Transport()
	require.NoError(t, err)

	_, err = (&http.Client{Transport: rt}).Get(srv.URL)
	require.Error(t, err)
}

func TestTLSTransport_Transport_InvalidFiles(t *testing.T) {
	tempDir := t.TempDir()
	garbage := filepath.Join(tempDir, "garbage.pem")
	require.NoError(t, os.WriteFile(garbage, []byte("not a certificate"), 0o600))

	tests := []struct {
		name      string
		transport *TLSTransport
		wantErr   string
	}{
		{
			name:      "missing CA file",
			transport: NewTLSTransport("nonexistent.pem", "", ""),
			wantErr:   "failed to read CA file",
		},
		{
			name:      "CA file without certificates",
			transport: NewTLSTransport(garbage, "", ""),
			wantErr:   "no certificates found",
		},
		{
			name:      "certificate without key",
			transport: NewTLSTransport("", "test.crt", ""),
			wantErr:   "must be set together",
		},
		{
			name:      "missing key pair",
			transport: NewTLSTransport("", "nonexistent.crt", "nonexistent.key"),
			wantErr:   "failed to load TLS certificate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.transport.Transport()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPlainTransport_Transport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	rt, err := NewPlainTransport().Transport()
	require.NoError(t, err)

	_, ok := rt.(*http.Transport)
	require.True(t, ok)

	resp, err := (&http.Client{Transport: rt}).Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
