package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetOrCreateIsIdempotentWithinSession(t *testing.T) {
	r := NewSessionRepository()

	first := r.GetOrCreate("alice")
	second := r.GetOrCreate("alice")

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Len(t, first.SessionID, 32)
}

func TestActiveSessionKeepsItsIdentifier(t *testing.T) {
	r := NewSessionRepository()
	sess := r.GetOrCreate("alice")

	// Entry is about to lapse; a hit must restart the expiry clock.
	r.cache.Set("alice", sess, 25*time.Millisecond)

	got := r.GetOrCreate("alice")
	assert.Equal(t, sess.SessionID, got.SessionID)

	time.Sleep(50 * time.Millisecond)

	after, ok := r.Get("alice")
	assert.True(t, ok)
	assert.Equal(t, sess.SessionID, after.SessionID)
}

func TestLogoutIssuesFreshIdentifier(t *testing.T) {
	r := NewSessionRepository()

	before := r.GetOrCreate("alice")
	r.Delete("alice")
	after := r.GetOrCreate("alice")

	assert.NotEqual(t, before.SessionID, after.SessionID)
}

func TestSessionsAreIsolatedByIdentity(t *testing.T) {
	r := NewSessionRepository()

	a := r.GetOrCreate("alice")
	b := r.GetOrCreate("bob")

	assert.NotEqual(t, a.SessionID, b.SessionID)
}
