// Package password implements password hashing, verification and temporary
// password generation for the password-reset flow.
package password

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// TempLength is the length of generated temporary passwords.
const TempLength = 10

const tempAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GetHash returns the bcrypt hash of a raw password for storage.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash checks a raw password against a stored bcrypt hash.
// Returns nil when they match.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GenerateTemp returns a random alphanumeric temporary password. It is handed
// to the user in the find-password flow and its hash immediately replaces the
// stored one.
func GenerateTemp() (string, error) {
	const op = "password.GenerateTemp"
	buf := make([]byte, TempLength)
	max := big.NewInt(int64(len(tempAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		buf[i] = tempAlphabet[n.Int64()]
	}
	return string(buf), nil
}
