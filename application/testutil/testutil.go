// Package testutil provides helpers for testing veriAI servers.
package testutil

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const (
	// PublicConnection listens on an ephemeral loopback port.
	PublicConnection = "tcp://127.0.0.1:0"
	// SocketName is the file name of the test server's Unix socket.
	SocketName = "veriai.sock"
)

// LocalConnection returns a Unix socket address inside dir.
func LocalConnection(dir string) string {
	return "unix://" + filepath.Join(dir, SocketName)
}

// CreateTLSCert writes a self-signed certificate for 127.0.0.1 and
// its private key to server.pem and server.key in dir.
func CreateTLSCert(dir string) error {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return err
	}

	notBefore := time.Now()
	notAfter := notBefore.Add(1 * time.Hour)

	serialNumberLimit := new(big.Int).Lsh(big.NewInt(1), 128)
	serialNumber, err := rand.Int(rand.Reader, serialNumberLimit)
	if err != nil {
		return err
	}

	template := x509.Certificate{
		SerialNumber: serialNumber,
		Subject: pkix.Name{
			Organization: []string{"veriAI"},
			CommonName:   "localhost",
		},
		NotBefore: notBefore,
		NotAfter:  notAfter,

		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
	}

	derBytes, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		return err
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: derBytes})
	if err := os.WriteFile(filepath.Join(dir, "server.pem"), certPEM, 0644); err != nil {
		return err
	}

	b, err := x509.MarshalECPrivateKey(priv)
	if err != nil {
		return err
	}
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: b})
	return os.WriteFile(filepath.Join(dir, "server.key"), keyPEM, 0600)
}

// CreateTLSCertForTest creates a certificate in a temporary directory
// that is removed when the test finishes, and returns the directory.
func CreateTLSCertForTest(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := CreateTLSCert(dir); err != nil {
		t.Fatal(err)
	}
	return dir
}
