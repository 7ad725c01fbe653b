package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"insurance-assistant-be/internal/constant"
	"insurance-assistant-be/internal/dto"
	"insurance-assistant-be/internal/pkg/logger"
	"insurance-assistant-be/pkg/events"
	"insurance-assistant-be/pkg/objectstore"
	"insurance-assistant-be/pkg/retrieval/index"
)

type IDocumentService interface {
	UploadPolicy(ctx context.Context, identity string, data []byte) (*dto.UploadPolicyResponse, error)
	UploadCorpus(ctx context.Context, filename string, data []byte, contentType string) (*dto.UploadCorpusResponse, error)
	StartIngestion(ctx context.Context) (*dto.StartIngestionResponse, error)
}

type documentService struct {
	storage          objectstore.ObjectStore
	publisherService IPublisherService
	eventPublisher   EventPublisher
	indexClient      *index.Client // nil when retrieval runs locally
	dataSourceID     string
	log              logger.ILogger
}

func NewDocumentService(
	storage objectstore.ObjectStore,
	publisherService IPublisherService,
	eventPublisher EventPublisher,
	indexClient *index.Client,
	dataSourceID string,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		storage:          storage,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		indexClient:      indexClient,
		dataSourceID:     dataSourceID,
		log:              log,
	}
}

// UploadPolicy stores a customer's private policy document under the
// key the lookup adapter reads from.
func (s *documentService) UploadPolicy(ctx context.Context, identity string, data []byte) (*dto.UploadPolicyResponse, error) {
	key := constant.CustomerPolicyKeyPrefix + identity + ".txt"
	if err := s.storage.Put(ctx, key, bytes.NewReader(data), int64(len(data)), "text/plain"); err != nil {
		return nil, fmt.Errorf("store policy document: %w", err)
	}
	return &dto.UploadPolicyResponse{Key: key}, nil
}

// UploadCorpus adds a general policy document to the shared corpus and
// notifies the embedding consumer so the local index picks it up.
func (s *documentService) UploadCorpus(ctx context.Context, filename string, data []byte, contentType string) (*dto.UploadCorpusResponse, error) {
	key := constant.PolicyDocsKeyPrefix + path.Base(filename)
	if err := s.storage.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, fmt.Errorf("store corpus document: %w", err)
	}

	payload, err := json.Marshal(dto.PublishDocumentUploadedMessage{SourceKey: key})
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		return nil, fmt.Errorf("publish upload notification: %w", err)
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "CORPUS_DOCUMENT_UPLOADED",
			Data: map[string]interface{}{
				"source_key": key,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("document", "failed to publish corpus upload event", map[string]interface{}{
				"source_key": key,
				"error":      err.Error(),
			})
		}
	}

	return &dto.UploadCorpusResponse{Key: key}, nil
}

// StartIngestion asks the managed index to resync its data source.
// Fire-and-forget; the job id is returned for tracing only.
func (s *documentService) StartIngestion(ctx context.Context) (*dto.StartIngestionResponse, error) {
	if s.indexClient == nil {
		return nil, fmt.Errorf("managed index is not configured")
	}
	jobID, err := s.indexClient.StartIngestion(ctx, s.dataSourceID)
	if err != nil {
		return nil, err
	}
	s.log.Info("document", "ingestion job started", map[string]interface{}{
		"job_id": jobID,
	})
	return &dto.StartIngestionResponse{JobId: jobID}, nil
}
