// Package credentials hashes and verifies login passwords and transaction PINs.
// Every digest is a bcrypt hash with its own random salt.
package credentials

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrEmptySecret = errors.New("secret must not be empty")

type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using the given bcrypt cost. Out-of-range costs
// fall back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("error hashing secret: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether secret matches digest. An empty digest (the
// administrator's PIN) never matches.
func (h *Hasher) Verify(secret, digest string) bool {
	if secret == "" || digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}
