package ledger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransactionID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := NewTransactionID()
		require.NoError(t, err)

		assert.Len(t, id, 10)
		for _, ch := range id {
			assert.True(t, strings.ContainsRune(txidAlphabet, ch), "unexpected character %q in %s", ch, id)
		}
		assert.False(t, seen[id], "duplicate id %s in a small sample", id)
		seen[id] = true
	}
}
