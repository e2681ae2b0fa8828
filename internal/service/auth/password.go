package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier defines the interface for comparing passwords.
type PasswordVerifier interface {
	// Compare returns nil when password matches hashedPassword.
	Compare(hashedPassword, password string) error
}

// BcryptVerifier implements PasswordVerifier using bcrypt.
type BcryptVerifier struct {
	// dummyHash is compared against when no account matched, so unknown
	// emails cost the same as wrong passwords.
	dummyHash []byte
}

// NewBcryptVerifier creates a new BcryptVerifier hashing its dummy at cost.
func NewBcryptVerifier(cost int) *BcryptVerifier {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("tasklink-dummy-password"), cost)
	if err != nil {
		// ALLOW-PANIC: only fails for invalid cost, which is clamped above
		panic(err)
	}
	return &BcryptVerifier{dummyHash: hash}
}

// Compare implements the PasswordVerifier interface using bcrypt.
// An empty hashedPassword is compared against the dummy hash and always fails.
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	if hashedPassword == "" {
		_ = bcrypt.CompareHashAndPassword(v.dummyHash, []byte(password))
		return errors.New("no password hash")
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
