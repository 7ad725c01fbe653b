package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"insurance-assistant-be/pkg/store"
)

// SessionRepository holds per-browser-session state in process memory,
// keyed by identity so get-or-create is idempotent within a session
// lifetime. Entries expire after an hour of inactivity.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(sess *store.SessionContext) {
	r.cache.Set(sess.Identity, sess, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(identity string) (*store.SessionContext, bool) {
	if x, found := r.cache.Get(identity); found {
		return x.(*store.SessionContext), true
	}
	return nil, false
}

// GetOrCreate returns the identity's existing context or issues a new
// one. Repeated calls within a session return the same session id. Each
// hit re-saves the entry so the expiry clock runs from last activity,
// not creation; an ongoing conversation keeps its session id.
func (r *SessionRepository) GetOrCreate(identity string) *store.SessionContext {
	if sess, ok := r.Get(identity); ok {
		r.Save(sess)
		return sess
	}
	sess := store.NewSessionContext(identity)
	r.Save(sess)
	return sess
}

// Delete clears the identity's session state, used on logout. The next
// access issues a fresh session id.
func (r *SessionRepository) Delete(identity string) {
	r.cache.Delete(identity)
}
