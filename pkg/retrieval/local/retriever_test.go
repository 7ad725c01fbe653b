package local

import (
	"context"
	"errors"
	"testing"

	"insurance-assistant-be/pkg/embedding"
	"insurance-assistant-be/pkg/retrieval"
	"insurance-assistant-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

type fakeEmbedder struct {
	taskType string
	err      error
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	f.taskType = taskType
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

type fakeSearcher struct {
	limit    int
	passages []store.Passage
	err      error
}

func (f *fakeSearcher) SearchSimilar(ctx context.Context, vector []float32, limit int) ([]store.Passage, error) {
	f.limit = limit
	return f.passages, f.err
}

func TestRetrieveEmbedsQueryAndSearches(t *testing.T) {
	embedder := &fakeEmbedder{}
	searcher := &fakeSearcher{passages: []store.Passage{
		{Text: "Windscreen cover applies.", Locator: "policy_docs/motor_policy.pdf"},
	}}
	r := NewRetriever(embedder, searcher, 3)

	passages, err := r.Retrieve(context.Background(), "is my windscreen covered")

	assert.NoError(t, err)
	assert.Len(t, passages, 1)
	assert.Equal(t, "RETRIEVAL_QUERY", embedder.taskType)
	assert.Equal(t, 3, searcher.limit)
}

func TestRetrieveDefaultsLimit(t *testing.T) {
	searcher := &fakeSearcher{}
	r := NewRetriever(&fakeEmbedder{}, searcher, 0)

	_, err := r.Retrieve(context.Background(), "question")

	assert.NoError(t, err)
	assert.Equal(t, 5, searcher.limit)
}

func TestRetrieveWrapsFailures(t *testing.T) {
	t.Run("embedding failure", func(t *testing.T) {
		r := NewRetriever(&fakeEmbedder{err: errors.New("provider down")}, &fakeSearcher{}, 3)

		_, err := r.Retrieve(context.Background(), "question")

		assert.ErrorIs(t, err, retrieval.ErrRetrievalFailed)
	})

	t.Run("search failure", func(t *testing.T) {
		r := NewRetriever(&fakeEmbedder{}, &fakeSearcher{err: errors.New("db down")}, 3)

		_, err := r.Retrieve(context.Background(), "question")

		assert.ErrorIs(t, err, retrieval.ErrRetrievalFailed)
	})
}
