// Package password hashes and verifies account passwords with bcrypt.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = bcrypt.DefaultCost

var (
	// ErrInvalidDigest indicates a stored digest is not a bcrypt hash.
	ErrInvalidDigest = errors.New("invalid password digest")

	// ErrPasswordTooLong indicates the plaintext exceeds bcrypt's 72-byte input limit.
	ErrPasswordTooLong = errors.New("password too long")
)

// Hasher produces salted bcrypt digests at a fixed cost.
// The zero value uses DefaultCost.
type Hasher struct {
	Cost int
}

// NewHasher returns a Hasher with the given cost. Costs outside bcrypt's range
// fall back to DefaultCost.
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return Hasher{Cost: cost}
}

// Hash returns a new digest for plaintext. Each call uses a fresh salt.
func (h Hasher) Hash(plaintext string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = DefaultCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A mismatch is (false, nil);
// a digest that cannot be parsed is (false, ErrInvalidDigest).
func (h Hasher) Verify(plaintext, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrInvalidDigest, err)
	}
}
