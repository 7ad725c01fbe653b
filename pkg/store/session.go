package store

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Passage is one retrieved chunk of a general policy document, in the
// relevance order returned by the knowledge index.
type Passage struct {
	Text    string `json:"text"`
	Locator string `json:"locator,omitempty"` // e.g. s3://bucket/Keycare_Policy_Booklet.pdf
}

// SessionContext is the transient per-browser-session state held in
// process memory. It carries the conversation-log partition key and is
// reset on logout.
type SessionContext struct {
	Identity  string    `json:"identity"`
	SessionID string    `json:"session_id"` // 32 hex chars
	CreatedAt time.Time `json:"created_at"`
}

// NewSessionContext issues a fresh context with a session identifier
// derived from 16 cryptographically random bytes.
func NewSessionContext(identity string) *SessionContext {
	return &SessionContext{
		Identity:  identity,
		SessionID: NewSessionID(),
		CreatedAt: time.Now(),
	}
}

// NewSessionID returns a 32-character hex identifier. The random source
// being unavailable is fatal to the process, not a recoverable error.
func NewSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic("session id entropy source unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
