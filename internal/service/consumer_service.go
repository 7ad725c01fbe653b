package service

import (
	"context"
	"encoding/json"

	"insurance-assistant-be/internal/dto"
	"insurance-assistant-be/internal/entity"
	"insurance-assistant-be/internal/pkg/logger"
	"insurance-assistant-be/internal/repository/unitofwork"
	"insurance-assistant-be/pkg/embedding"
	"insurance-assistant-be/pkg/objectstore"
	"insurance-assistant-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	chunkSize    = 1500
	chunkOverlap = 200
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService indexes uploaded corpus documents into the local
// embedding store. Only wired when retrieval runs locally; the managed
// index does its own ingestion.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	storage           objectstore.ObjectStore
	embeddingProvider embedding.EmbeddingProvider
	log               logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	storage objectstore.ObjectStore,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		storage:           storage,
		embeddingProvider: embeddingProvider,
		log:               log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishDocumentUploadedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // poison message, retrying won't help
		return
	}

	cs.log.Info("consumer", "indexing corpus document", map[string]interface{}{
		"source_key": payload.SourceKey,
	})

	data, err := cs.storage.Get(ctx, payload.SourceKey)
	if err != nil {
		cs.log.Error("consumer", "failed to fetch document", map[string]interface{}{
			"source_key": payload.SourceKey,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	chunks := utils.SplitText(string(data), chunkSize, chunkOverlap)
	embeddings := make([]*entity.DocumentEmbedding, 0, len(chunks))
	for i, chunk := range chunks {
		resp, err := cs.embeddingProvider.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			cs.log.Error("consumer", "failed to embed chunk", map[string]interface{}{
				"source_key":  payload.SourceKey,
				"chunk_index": i,
				"error":       err.Error(),
			})
			msg.Nack()
			return
		}
		embeddings = append(embeddings, &entity.DocumentEmbedding{
			Content:    chunk,
			Embedding:  resp.Embedding.Values,
			SourceKey:  payload.SourceKey,
			ChunkIndex: i,
		})
	}

	// Re-index atomically: old chunks go, new chunks land, or neither.
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		cs.log.Error("consumer", "failed to begin transaction", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Nack()
		return
	}
	if err := uow.DocumentEmbeddingRepository().DeleteBySourceKey(ctx, payload.SourceKey); err != nil {
		_ = uow.Rollback()
		cs.log.Error("consumer", "failed to drop stale embeddings", map[string]interface{}{
			"source_key": payload.SourceKey,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}
	if err := uow.DocumentEmbeddingRepository().CreateBulk(ctx, embeddings); err != nil {
		_ = uow.Rollback()
		cs.log.Error("consumer", "failed to store embeddings", map[string]interface{}{
			"source_key": payload.SourceKey,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}
	if err := uow.Commit(); err != nil {
		cs.log.Error("consumer", "failed to commit embeddings", map[string]interface{}{
			"source_key": payload.SourceKey,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	cs.log.Info("consumer", "corpus document indexed", map[string]interface{}{
		"source_key": payload.SourceKey,
		"chunks":     len(chunks),
	})
	msg.Ack()
}
