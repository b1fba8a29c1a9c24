package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmptyPassword is returned when a blank password is hashed.
	ErrEmptyPassword = errors.New("password must not be empty")
	// ErrPasswordMismatch is returned when a password does not match its hash.
	ErrPasswordMismatch = errors.New("password mismatch")
	// ErrCorruptHash is returned when the stored hash is not a valid bcrypt value.
	ErrCorruptHash = errors.New("corrupt password hash")
)

// HashPassword hashes a plaintext password with the configured cost. bcrypt
// embeds a fresh random salt, so hashing the same password twice yields
// different outputs.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its stored hash. A mismatch
// returns ErrPasswordMismatch; a malformed stored hash returns ErrCorruptHash.
func ComparePassword(hashed, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	default:
		return ErrCorruptHash
	}
}
