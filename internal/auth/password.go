// Package auth handles password hashing and signed access tokens.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/core"
)

// HashPassword derives a bcrypt hash suitable for storage.
func HashPassword(plain string) (string, error) {
	if len(plain) < 8 {
		return "", core.ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored hash.
func CheckPassword(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return core.ErrInvalidCredentials
	}
	return err
}
