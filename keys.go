package peter

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/curve25519"
)

// KeySize is the length in bytes of both the raw private scalar and
// the raw public point of a static keypair.
const KeySize = 32

// GenerateKey draws a fresh Curve25519 private scalar from a
// cryptographically secure RNG. golang.org/x/crypto/curve25519 clamps
// the scalar internally on use, the same reliance the teacher's
// generateX25519KeyPair places on the same call.
func GenerateKey() ([]byte, error) {
	priv := make([]byte, KeySize)
	if _, err := rand.Read(priv); err != nil {
		return nil, fmt.Errorf("%w: generate key: %w", ErrIO, err)
	}
	return priv, nil
}

// ExtractPubkey derives the public point for a private scalar via
// X25519 scalar multiplication against the curve base point.
func ExtractPubkey(priv []byte) ([]byte, error) {
	if len(priv) != KeySize {
		return nil, fmt.Errorf("%w: private key must be %d bytes, got %d", ErrBadKeyEncoding, KeySize, len(priv))
	}
	pub, err := curve25519.X25519(priv, curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("%w: derive public key: %w", ErrHandshakeFailed, err)
	}
	return pub, nil
}

// EncodeKey renders a raw 32-byte key as standard-alphabet,
// padded base64 text, the boundary form specified for both key types.
func EncodeKey(key []byte) string {
	return base64.StdEncoding.EncodeToString(key)
}

// DecodeKey parses base64 text (as produced by EncodeKey) back into a
// raw key. It rejects anything that doesn't decode to exactly KeySize
// bytes.
func DecodeKey(text string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %w", ErrBadKeyEncoding, err)
	}
	if len(raw) != KeySize {
		return nil, fmt.Errorf("%w: decoded key must be %d bytes, got %d", ErrBadKeyEncoding, KeySize, len(raw))
	}
	return raw, nil
}
