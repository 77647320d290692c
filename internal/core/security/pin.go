package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashPIN returns the SHA256 hex digest of a wallet PIN. Only the hash
// is persisted on the account.
func HashPIN(pin string) string {
	hash := sha256.Sum256([]byte(pin))
	return hex.EncodeToString(hash[:])
}

// VerifyPIN checks a PIN supplied with a transfer or request against
// the stored hash in constant time.
func VerifyPIN(pin, storedHash string) bool {
	computed := HashPIN(pin)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
