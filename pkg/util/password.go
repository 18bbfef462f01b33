package util

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is above bcrypt's own default. Only the admin
// account is hashed with it, so the extra hashing time is never felt.
const DefaultBcryptCost = 12

// HashPassword hashes a plaintext password at the given bcrypt cost.
// A cost below bcrypt's minimum falls back to DefaultBcryptCost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = DefaultBcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plaintext password matches the
// stored bcrypt hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
