package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"insurance-assistant-be/internal/constant"
	"insurance-assistant-be/internal/entity"
	"insurance-assistant-be/internal/repository/unitofwork"
	"insurance-assistant-be/pkg/database"
	"insurance-assistant-be/pkg/store"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.ChatSessionRepository())
	assert.NotNil(t, uow.DocumentEmbeddingRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check Chat Session Repository", func(t *testing.T) {
		count, err := uow.ChatSessionRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("ChatSession count: %d", count)
	})

	t.Run("Check Document Embedding Repository", func(t *testing.T) {
		count, err := uow.DocumentEmbeddingRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("DocumentEmbedding count: %d", count)
	})

	t.Run("Check Transactional Session Message Citation", func(t *testing.T) {
		ctx := context.Background()
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		sessionId := uuid.New()
		session := &entity.ChatSession{
			Id:         sessionId,
			SessionKey: store.NewSessionID(),
			Identity:   "integration-" + uuid.New().String(),
			Title:      "Integration Test Conversation",
		}

		err = uow.ChatSessionRepository().Create(ctx, session)
		assert.NoError(t, err)

		messageId := uuid.New()
		message := &entity.ChatMessage{
			Id:            messageId,
			ChatSessionId: sessionId,
			Role:          constant.ChatMessageRoleAssistant,
			Content:       "Your policy covers windscreen repair.",
		}

		err = uow.ChatMessageRepository().Create(ctx, message)
		assert.NoError(t, err)

		err = uow.ChatCitationRepository().CreateBulk(ctx, []*entity.ChatCitation{
			{
				Id:            uuid.New(),
				ChatMessageId: messageId,
				Label:         "Keycare Policy Booklet",
				Locator:       "s3://policy-documents/policy_docs/keycare_policy_booklet.pdf",
			},
		})
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		t.Log("Successfully created Session with Message and Citation in Transaction")
	})
}
