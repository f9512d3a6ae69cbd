package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash for storing the user's password.
func HashPassword(plain string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
}

// ComparePassword reports whether plain matches the stored bcrypt hash.
// Returns a non-nil error on mismatch.
func ComparePassword(hashed string, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
