package sec

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLen is the longest password bcrypt accepts, in bytes.
const MaxPasswordLen = 72

// ErrPasswordTooLong is returned when hashing a password over [MaxPasswordLen].
var ErrPasswordTooLong = errors.New("password must be at most 72 bytes")

// ComparePassword returns an error if the provided password does not resolve to
// the given hash.
func ComparePassword[T ~string | ~[]byte](password T, hash []byte) error {
	return bcrypt.CompareHashAndPassword(hash, []byte(password))
}

// Hasher is a bcrypt password hasher with a fixed cost factor.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using cost. Costs below [bcrypt.MinCost] fall
// back to [bcrypt.DefaultCost].
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return Hasher{cost: cost}
}

// Hash returns a salted hash of password. Hashing the same password twice
// produces different hashes that both verify.
func (h Hasher) Hash(password string) ([]byte, error) {
	if len(password) > MaxPasswordLen {
		return nil, ErrPasswordTooLong
	}
	return bcrypt.GenerateFromPassword([]byte(password), h.cost)
}

// Verify reports whether password matches hash. A malformed hash never
// matches.
func (h Hasher) Verify(password string, hash []byte) bool {
	return ComparePassword(password, hash) == nil
}
