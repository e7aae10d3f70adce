// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// CredentialHasher defines the one-way transform from a plaintext password to
// the stored credential digest, plus the verify operation. Implementations
// are stateless, pure functions of their input.
type CredentialHasher interface {
	// Hash produces a digest from a plaintext password. The digest is never
	// reversible into the plaintext.
	Hash(password string) (string, error)

	// Verify reports whether the plaintext password matches the stored digest.
	Verify(password, digest string) bool
}
