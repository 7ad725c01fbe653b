package retrieval

import (
	"context"
	"errors"

	"insurance-assistant-be/pkg/store"
)

// ErrRetrievalFailed marks a knowledge-index failure. Unlike policy
// lookup this is never masked; answering without grounding context is
// worse than failing the turn.
var ErrRetrievalFailed = errors.New("knowledge retrieval failed")

// Retriever issues a semantic query against the general-document corpus
// and returns passages in the index's relevance order. No local caching
// or re-ranking; every question re-queries.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]store.Passage, error)
}
