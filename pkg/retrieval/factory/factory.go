package factory

import (
	"fmt"

	"insurance-assistant-be/pkg/embedding"
	"insurance-assistant-be/pkg/retrieval"
	"insurance-assistant-be/pkg/retrieval/index"
	"insurance-assistant-be/pkg/retrieval/local"
)

type Config struct {
	Provider string // "index" or "local"

	// index
	BaseURL string
	IndexID string
	APIKey  string

	// local
	EmbeddingProvider embedding.EmbeddingProvider
	Searcher          local.Searcher
	Limit             int
}

func NewRetriever(cfg Config) (retrieval.Retriever, error) {
	switch cfg.Provider {
	case "index":
		return index.NewClient(cfg.BaseURL, cfg.IndexID, cfg.APIKey), nil
	case "local":
		if cfg.EmbeddingProvider == nil || cfg.Searcher == nil {
			return nil, fmt.Errorf("local retriever requires an embedding provider and a searcher")
		}
		return local.NewRetriever(cfg.EmbeddingProvider, cfg.Searcher, cfg.Limit), nil
	default:
		return nil, fmt.Errorf("unsupported retrieval provider: %s", cfg.Provider)
	}
}
