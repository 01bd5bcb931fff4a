package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowExhaustsBucket(t *testing.T) {
	l := New(Config{MaxRequestsPerMinute: 3})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, l.allow("1.2.3.4"), "request %d should pass", i+1)
	}
	assert.False(t, l.allow("1.2.3.4"), "bucket exhausted")
}

func TestAllowIsPerClient(t *testing.T) {
	l := New(Config{MaxRequestsPerMinute: 1})
	defer l.Stop()

	assert.True(t, l.allow("1.1.1.1"))
	assert.False(t, l.allow("1.1.1.1"))
	assert.True(t, l.allow("2.2.2.2"), "other clients are unaffected")
}
