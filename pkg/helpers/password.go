package helpers

import "golang.org/x/crypto/bcrypt"

// Passwords are hashed with a fixed cost; raising it later only affects new
// hashes, existing ones keep verifying.
const bcryptCost = 12

// HashPassword hashes the plain text password using bcrypt.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword compares a bcrypt hash with a plain password.
func CheckPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
