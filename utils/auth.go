// utils/auth.go
package utils

import (
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a bcrypt hash with a plaintext candidate.
func CheckPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

var phonePattern = regexp.MustCompile(`^\d{11}$`)

// IsValidPhone requires exactly 11 digits.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

var (
	hasLetter = regexp.MustCompile(`[A-Za-z]`)
	hasDigit  = regexp.MustCompile(`\d`)
	hasSymbol = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// IsStrongPassword requires at least 8 characters including a letter, a
// digit and a symbol.
func IsStrongPassword(password string) bool {
	return len(password) >= 8 &&
		hasLetter.MatchString(password) &&
		hasDigit.MatchString(password) &&
		hasSymbol.MatchString(password)
}
