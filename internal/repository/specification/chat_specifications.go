package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByChatSessionID struct {
	ChatSessionID uuid.UUID
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.ChatSessionID)
}

// BySessionKey filters sessions by the browser-session identifier.
type BySessionKey struct {
	SessionKey string
}

func (s BySessionKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_key = ?", s.SessionKey)
}

// OwnedByIdentity scopes a query to one authenticated identity.
type OwnedByIdentity struct {
	Identity string
}

func (s OwnedByIdentity) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("identity = ?", s.Identity)
}

// BySourceKey filters embeddings by their source document key.
type BySourceKey struct {
	SourceKey string
}

func (s BySourceKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source_key = ?", s.SourceKey)
}
