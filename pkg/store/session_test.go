package store

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSessionID(t *testing.T) {
	hex32 := regexp.MustCompile(`^[0-9a-f]{32}$`)

	seen := make(map[string]bool)
	for i := 0; i < 64; i++ {
		id := NewSessionID()
		assert.Regexp(t, hex32, id)
		assert.False(t, seen[id], "session ids must not repeat")
		seen[id] = true
	}
}

func TestNewSessionContext(t *testing.T) {
	sc := NewSessionContext("agent-7")

	assert.Equal(t, "agent-7", sc.Identity)
	assert.Len(t, sc.SessionID, 32)
	assert.False(t, sc.CreatedAt.IsZero())
}
