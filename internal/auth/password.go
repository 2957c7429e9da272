package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the original deployment's hashes so existing accounts
// keep verifying.
const bcryptCost = 10

// HashPassword hashes a plaintext password with bcrypt. The returned string
// is self-describing (algorithm, cost, salt, digest).
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored hash. Comparison is
// constant-time inside bcrypt. A malformed hash returns false rather than
// an error.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
