package local

import (
	"context"
	"fmt"

	"insurance-assistant-be/pkg/embedding"
	"insurance-assistant-be/pkg/retrieval"
	"insurance-assistant-be/pkg/store"
)

// Searcher is the vector-similarity contract the retriever needs from
// the embedding storage layer.
type Searcher interface {
	SearchSimilar(ctx context.Context, vector []float32, limit int) ([]store.Passage, error)
}

// Retriever answers semantic queries from the locally indexed corpus:
// embed the query, then nearest-neighbour search over stored chunks.
// Used when no managed index is configured.
type Retriever struct {
	provider embedding.EmbeddingProvider
	searcher Searcher
	limit    int
}

var _ retrieval.Retriever = &Retriever{}

func NewRetriever(provider embedding.EmbeddingProvider, searcher Searcher, limit int) *Retriever {
	if limit <= 0 {
		limit = 5
	}
	return &Retriever{provider: provider, searcher: searcher, limit: limit}
}

func (r *Retriever) Retrieve(ctx context.Context, query string) ([]store.Passage, error) {
	resp, err := r.provider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", retrieval.ErrRetrievalFailed, err)
	}

	passages, err := r.searcher.SearchSimilar(ctx, resp.Embedding.Values, r.limit)
	if err != nil {
		return nil, fmt.Errorf("%w: similarity search: %v", retrieval.ErrRetrievalFailed, err)
	}
	return passages, nil
}
