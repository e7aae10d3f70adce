package auth

import (
	"golang.org/x/crypto/bcrypt"

	"roster/internal/domain/service"
)

// bcryptHasher is the salted alternative to the default digest hasher.
// Selected with auth.hashAlgo: "bcrypt". Existing sha256 digests do not
// verify under bcrypt; switching algorithms requires password resets.
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher is the constructor for bcryptHasher. A cost of 0 falls back
// to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) service.CredentialHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &bcryptHasher{cost: cost}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)

	return string(bytes), err
}

// Verify compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Verify(password, digest string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))

	return err == nil
}
