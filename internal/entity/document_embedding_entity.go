package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentEmbedding is one embedded chunk of a general policy document
// in the local corpus index.
type DocumentEmbedding struct {
	Id         uuid.UUID
	Content    string
	Embedding  []float32
	SourceKey  string // object-storage key of the source document
	ChunkIndex int
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}
