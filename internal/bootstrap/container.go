package bootstrap

import (
	"context"
	"log"
	"time"

	"insurance-assistant-be/internal/config"
	"insurance-assistant-be/internal/constant"
	"insurance-assistant-be/internal/controller"
	"insurance-assistant-be/internal/pkg/logger"
	"insurance-assistant-be/internal/pkg/mailer"
	"insurance-assistant-be/internal/repository/memory"
	"insurance-assistant-be/internal/repository/unitofwork"
	"insurance-assistant-be/internal/service"
	"insurance-assistant-be/pkg/conversation"
	"insurance-assistant-be/pkg/embedding"
	"insurance-assistant-be/pkg/embedding/jina"
	"insurance-assistant-be/pkg/generation/bedrock"
	"insurance-assistant-be/pkg/objectstore"
	"insurance-assistant-be/pkg/pipeline"
	"insurance-assistant-be/pkg/policy"
	"insurance-assistant-be/pkg/prompt"
	"insurance-assistant-be/pkg/retrieval/factory"
	"insurance-assistant-be/pkg/retrieval/index"
	"insurance-assistant-be/pkg/store"

	pktNats "insurance-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController
	DocumentController  controller.IDocumentController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.EscalationContact,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Ai.JinaAPIKey)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// Initialize In-Memory Session Storage
	sessionRepo := memory.NewSessionRepository()

	// 2.5 Infrastructure
	// NATS
	var eventPublisher service.EventPublisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	conversationStore := conversation.NewStore(rdb, 24*time.Hour)

	// Object Storage
	storage, err := objectstore.NewMinioStore(objectstore.MinioConfig{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize object storage: %v", err)
	}

	policyLookup := policy.NewLookup(storage, constant.CustomerPolicyKeyPrefix)

	// 3. Answer Pipeline
	var indexClient *index.Client
	if cfg.Retrieval.Provider == "index" {
		indexClient = index.NewClient(cfg.Retrieval.BaseURL, cfg.Retrieval.IndexID, cfg.Retrieval.APIKey)
	}

	retriever, err := factory.NewRetriever(factory.Config{
		Provider:          cfg.Retrieval.Provider,
		BaseURL:           cfg.Retrieval.BaseURL,
		IndexID:           cfg.Retrieval.IndexID,
		APIKey:            cfg.Retrieval.APIKey,
		EmbeddingProvider: embeddingProvider,
		Searcher:          &embeddingSearcher{uowFactory: uowFactory},
		Limit:             cfg.Retrieval.Limit,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize retriever: %v", err)
	}
	log.Printf("[INFO] Using Retrieval Provider: %s", cfg.Retrieval.Provider)

	composer := prompt.NewComposer(
		cfg.App.CompanyName,
		cfg.App.EscalationContact,
		cfg.Generation.ModelVersion,
		cfg.Generation.SafetyFilterRef,
	)
	generationProvider := bedrock.NewProvider(cfg.Generation.BaseURL, cfg.Generation.APIKey)

	turnExecutor := pipeline.NewTurnExecutor(
		conversationStore,
		policyLookup,
		retriever,
		composer,
		generationProvider,
	)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Ai.IngestionTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Ai.IngestionTopic,
		uowFactory,
		storage,
		embeddingProvider,
		sysLogger,
	)

	assistantService := service.NewAssistantService(
		uowFactory,
		sessionRepo,
		turnExecutor,
		conversationStore,
		emailService,
		eventPublisher,
		sysLogger,
		cfg.App.EscalationContact,
	)
	documentService := service.NewDocumentService(
		storage,
		publisherService,
		eventPublisher,
		indexClient,
		cfg.Retrieval.DataSourceID,
		sysLogger,
	)

	// 5. Controllers
	return &Container{
		AssistantController: controller.NewAssistantController(assistantService),
		DocumentController:  controller.NewDocumentController(documentService),

		ConsumerService: consumerService,
	}
}

// embeddingSearcher adapts the document embedding repository to the
// vector search contract the local retriever expects.
type embeddingSearcher struct {
	uowFactory unitofwork.RepositoryFactory
}

func (s *embeddingSearcher) SearchSimilar(ctx context.Context, vector []float32, limit int) ([]store.Passage, error) {
	repo := s.uowFactory.NewUnitOfWork(ctx).DocumentEmbeddingRepository()
	rows, err := repo.SearchSimilar(ctx, vector, limit)
	if err != nil {
		return nil, err
	}

	passages := make([]store.Passage, 0, len(rows))
	for _, row := range rows {
		passages = append(passages, store.Passage{
			Text:    row.Content,
			Locator: row.SourceKey,
		})
	}
	return passages, nil
}
