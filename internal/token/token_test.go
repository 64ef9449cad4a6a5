package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLengthAndAlphabet(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := New()
		require.Len(t, id, Length)
		for _, r := range id {
			assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q in token %q", r, id)
		}
	}
}

func TestNewNoCollisions(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		id := New()
		_, dup := seen[id]
		require.False(t, dup, "duplicate token %q after %d generations", id, i)
		seen[id] = struct{}{}
	}
}
