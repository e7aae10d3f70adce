// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"

	"roster/internal/domain/service"
)

// sha256Hasher is the default CredentialHasher: a plain SHA-256 digest,
// base64-encoded, with no per-account salt. Identical passwords therefore
// produce identical digests across accounts. Deployments that need salted
// hashing select the bcrypt implementation via config.
type sha256Hasher struct{}

// NewSHA256Hasher is the constructor for sha256Hasher.
func NewSHA256Hasher() service.CredentialHasher {
	return &sha256Hasher{}
}

// Hash produces the base64-encoded SHA-256 digest of the password.
// Deterministic: the same plaintext always yields the same digest.
func (h *sha256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))

	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

// Verify recomputes the digest and compares in constant time.
func (h *sha256Hasher) Verify(password, digest string) bool {
	computed, err := h.Hash(password)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}
