package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// GenerateAPIKey creates a secure random API key and its SHA256 hash.
// The real key is shown to the caller once; only the hash is stored.
func GenerateAPIKey() (string, string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	realKey := fmt.Sprintf("sk_live_%s", hex.EncodeToString(bytes))

	hash := sha256.Sum256([]byte(realKey))
	keyHash := hex.EncodeToString(hash[:])

	return realKey, keyHash, nil
}

// HashKey returns the SHA256 hex digest of a raw API key, the form the
// auth middleware looks up in the store.
func HashKey(rawKey string) string {
	hash := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(hash[:])
}

// ValidateKey checks a provided API key against the stored hash in
// constant time.
func ValidateKey(providedKey, storedHash string) bool {
	computed := HashKey(providedKey)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
