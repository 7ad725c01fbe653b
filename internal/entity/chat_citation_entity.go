package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatCitation struct {
	Id            uuid.UUID
	ChatMessageId uuid.UUID
	Label         string // human-readable document title
	Locator       string // raw storage locator the label was derived from
	CreatedAt     time.Time
}
