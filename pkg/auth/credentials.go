package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Credential hashing constants
const (
	SaltSize       = 16
	HashIterations = 10000
	HashKeyLength  = 32
)

// GenerateSalt creates a new random hex encoded salt
func GenerateSalt() (string, error) {
	saltBytes := make([]byte, SaltSize)
	if _, err := rand.Read(saltBytes); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(saltBytes), nil
}

// HashCredential hashes a credential with a salt using PBKDF2-SHA256
func HashCredential(credential, salt string) string {
	hash := pbkdf2.Key([]byte(credential), []byte(salt), HashIterations, HashKeyLength, sha256.New)
	return hex.EncodeToString(hash)
}

// CompareCredentials compares a plaintext credential against stored hash and salt
func CompareCredentials(plaintext, hash, salt string) bool {
	computed := HashCredential(plaintext, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}
