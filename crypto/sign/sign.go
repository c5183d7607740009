// Package sign wraps ed25519 keys used by participants to sign
// their challenge responses.
package sign

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/ed25519"
)

const (
	// PrivateKeySize is the size of a private signing key in bytes.
	PrivateKeySize = 64
	// PublicKeySize is the size of a public signing key in bytes.
	PublicKeySize = 32
	// SignatureSize is the size of a signature in bytes.
	SignatureSize = 64
)

// ErrBadPublicKey is returned when a public key cannot be decoded.
var ErrBadPublicKey = errors.New("[sign] Malformed public key")

// PrivateKey is an ed25519 private key.
type PrivateKey []byte

// PublicKey is an ed25519 public key.
type PublicKey []byte

// GenerateKey creates a new ed25519 key pair using rnd as the
// source of randomness. If rnd is nil, crypto/rand is used.
func GenerateKey(rnd io.Reader) (PrivateKey, error) {
	if rnd == nil {
		rnd = rand.Reader
	}
	_, sk, err := ed25519.GenerateKey(rnd)
	return PrivateKey(sk), err
}

// Sign signs the message with privateKey and returns a signature.
func (key PrivateKey) Sign(message []byte) []byte {
	return ed25519.Sign(ed25519.PrivateKey(key), message)
}

// Public returns the public key corresponding to key.
func (key PrivateKey) Public() (PublicKey, bool) {
	pk, ok := ed25519.PrivateKey(key).Public().(ed25519.PublicKey)
	return PublicKey(pk), ok
}

// Verify reports whether sig is a valid signature of message by pk.
func (pk PublicKey) Verify(message, sig []byte) bool {
	if len(pk) != PublicKeySize || len(sig) != SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pk), message, sig)
}

// Encode returns the base64 form used on the wire.
func (pk PublicKey) Encode() string {
	return base64.StdEncoding.EncodeToString(pk)
}

// ParsePublicKey decodes a base64 encoded public key.
func ParsePublicKey(s string) (PublicKey, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil || len(b) != PublicKeySize {
		return nil, ErrBadPublicKey
	}
	return PublicKey(b), nil
}
