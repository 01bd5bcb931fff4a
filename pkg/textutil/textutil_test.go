package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashTermNormalizes(t *testing.T) {
	assert.Equal(t, HashTerm("Adaptation"), HashTerm("  adaptation "))
	assert.NotEqual(t, HashTerm("adaptation"), HashTerm("mitigation"))
	assert.Len(t, HashTerm("x"), 32)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", Snippet("short", 10))
	assert.Equal(t, "abc...", Snippet("abcdef", 3))

	long := strings.Repeat("é", 500)
	out := Snippet(long, 300)
	assert.LessOrEqual(t, len([]rune(out)), 303)
	assert.True(t, strings.HasSuffix(out, "..."))

	assert.Equal(t, "keep", Snippet("keep", 0), "non-positive cap disables truncation")
}
