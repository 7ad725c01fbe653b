package contract

import (
	"context"

	"insurance-assistant-be/internal/entity"
	"insurance-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.DocumentEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.DocumentEmbedding) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBySourceKey(ctx context.Context, sourceKey string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentEmbedding, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// Nearest-neighbour search over the whole corpus, cosine distance,
	// closest first.
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*entity.DocumentEmbedding, error)
}
