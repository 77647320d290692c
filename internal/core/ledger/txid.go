package ledger

import (
	"crypto/rand"
	"fmt"
)

const (
	txidAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	txidLength   = 10
)

// NewTransactionID returns a 10-character id drawn uniformly from the
// 62-symbol alphanumeric alphabet. Uniqueness is not enforced: at
// 62^10 ids the collision odds are accepted as negligible.
func NewTransactionID() (string, error) {
	id := make([]byte, txidLength)
	// 248 is the largest multiple of 62 that fits in a byte; rejecting
	// bytes above it keeps the distribution uniform.
	const max = 248
	buf := make([]byte, txidLength*2)
	filled := 0
	for filled < txidLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate transaction id: %w", err)
		}
		for _, b := range buf {
			if b >= max {
				continue
			}
			id[filled] = txidAlphabet[int(b)%len(txidAlphabet)]
			filled++
			if filled == txidLength {
				break
			}
		}
	}
	return string(id), nil
}
