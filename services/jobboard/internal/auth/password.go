package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooLong is returned by Hash for passwords bcrypt cannot take.
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// Hasher hashes and verifies passwords with bcrypt.
type Hasher struct {
	cost  int
	dummy []byte
}

// NewHasher returns a hasher with the given bcrypt cost. It precomputes a
// digest of a random password so that VerifyDummy costs the same as a real
// verification.
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("generate dummy password: %w", err)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(buf)), cost)
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}
	return &Hasher{cost: cost, dummy: dummy}, nil
}

// Hash returns a salted digest of plaintext. Each call uses a fresh salt.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A malformed digest is a
// mismatch, not an error.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// VerifyDummy spends the time of one verification and always returns false.
// It is used when the login email is unknown.
func (h *Hasher) VerifyDummy(plaintext string) bool {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plaintext))
	return false
}
