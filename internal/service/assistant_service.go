package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"insurance-assistant-be/internal/constant"
	"insurance-assistant-be/internal/dto"
	"insurance-assistant-be/internal/entity"
	"insurance-assistant-be/internal/pkg/logger"
	"insurance-assistant-be/internal/pkg/mailer"
	"insurance-assistant-be/internal/repository/memory"
	"insurance-assistant-be/internal/repository/specification"
	"insurance-assistant-be/internal/repository/unitofwork"
	"insurance-assistant-be/pkg/events"
	"insurance-assistant-be/pkg/pipeline"
	"insurance-assistant-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// TurnRunner runs one question/answer cycle. Satisfied by
// *pipeline.TurnExecutor.
type TurnRunner interface {
	Execute(ctx context.Context, sess *store.SessionContext, question string, onUpdate func(partial string)) (*pipeline.Result, error)
}

// HistoryCleaner clears a session's accumulated question log.
type HistoryCleaner interface {
	Clear(ctx context.Context, sessionID string) error
}

// EventPublisher forwards domain events to the message bus. May be nil
// when NATS is not configured.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IAssistantService interface {
	CreateSession(ctx context.Context, identity string) (*dto.CreateSessionResponse, error)
	GetSession(ctx context.Context, identity string) (*dto.GetSessionResponse, error)
	GetChatHistory(ctx context.Context, identity, sessionKey string) ([]*dto.GetChatHistoryResponse, error)
	Ask(ctx context.Context, identity, question string, onUpdate func(partial string)) (*dto.AskResponse, error)
	DeleteSession(ctx context.Context, identity, sessionKey string) error
	Logout(ctx context.Context, identity string) error
	Escalate(ctx context.Context, identity string, req *dto.EscalateRequest) (*dto.EscalateResponse, error)
}

type assistantService struct {
	uowFactory        unitofwork.RepositoryFactory
	sessionRepo       *memory.SessionRepository
	turn              TurnRunner
	history           HistoryCleaner
	emailService      mailer.IEmailService
	publisher         EventPublisher
	log               logger.ILogger
	escalationContact string
}

func NewAssistantService(
	uowFactory unitofwork.RepositoryFactory,
	sessionRepo *memory.SessionRepository,
	turn TurnRunner,
	history HistoryCleaner,
	emailService mailer.IEmailService,
	publisher EventPublisher,
	log logger.ILogger,
	escalationContact string,
) IAssistantService {
	return &assistantService{
		uowFactory:        uowFactory,
		sessionRepo:       sessionRepo,
		turn:              turn,
		history:           history,
		emailService:      emailService,
		publisher:         publisher,
		log:               log,
		escalationContact: escalationContact,
	}
}

// ensureSession returns the identity's session context and its backing
// display-history row, creating both on first access. A fresh session
// starts with the assistant greeting.
func (s *assistantService) ensureSession(ctx context.Context, identity string) (*store.SessionContext, *entity.ChatSession, error) {
	sess := s.sessionRepo.GetOrCreate(identity)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	row, err := uow.ChatSessionRepository().FindOne(ctx, specification.BySessionKey{SessionKey: sess.SessionID})
	if err != nil {
		return nil, nil, err
	}
	if row != nil {
		return sess, row, nil
	}

	row = &entity.ChatSession{
		SessionKey: sess.SessionID,
		Identity:   identity,
		Title:      "Motor policy conversation",
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}
	if err := uow.ChatSessionRepository().Create(ctx, row); err != nil {
		_ = uow.Rollback()
		return nil, nil, err
	}
	greeting := &entity.ChatMessage{
		Content:       constant.SessionGreeting,
		Role:          constant.ChatMessageRoleAssistant,
		ChatSessionId: row.Id,
	}
	if err := uow.ChatMessageRepository().Create(ctx, greeting); err != nil {
		_ = uow.Rollback()
		return nil, nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, nil, err
	}

	return sess, row, nil
}

func (s *assistantService) CreateSession(ctx context.Context, identity string) (*dto.CreateSessionResponse, error) {
	sess, _, err := s.ensureSession(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &dto.CreateSessionResponse{
		SessionId: sess.SessionID,
		Greeting:  constant.SessionGreeting,
	}, nil
}

func (s *assistantService) GetSession(ctx context.Context, identity string) (*dto.GetSessionResponse, error) {
	sess, _, err := s.ensureSession(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &dto.GetSessionResponse{
		SessionId: sess.SessionID,
		CreatedAt: sess.CreatedAt,
	}, nil
}

func (s *assistantService) GetChatHistory(ctx context.Context, identity, sessionKey string) ([]*dto.GetChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.BySessionKey{SessionKey: sessionKey},
		specification.OwnedByIdentity{Identity: identity},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Session not found")
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	messageIds := make([]uuid.UUID, len(messages))
	for i, m := range messages {
		messageIds[i] = m.Id
	}
	citations, err := uow.ChatCitationRepository().FindAllByMessageIds(ctx, messageIds)
	if err != nil {
		return nil, err
	}
	citationsByMessage := make(map[uuid.UUID][]dto.CitationDTO)
	for _, c := range citations {
		citationsByMessage[c.ChatMessageId] = append(citationsByMessage[c.ChatMessageId], dto.CitationDTO{
			Label:   c.Label,
			Locator: c.Locator,
		})
	}

	res := make([]*dto.GetChatHistoryResponse, len(messages))
	for i, m := range messages {
		res[i] = &dto.GetChatHistoryResponse{
			Id:        m.Id,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
			Citations: citationsByMessage[m.Id],
		}
	}
	return res, nil
}

// Ask runs one turn. The answer and its citations are persisted to the
// display history only after the stream completes; a failed turn leaves
// no assistant message behind.
func (s *assistantService) Ask(ctx context.Context, identity, question string, onUpdate func(partial string)) (*dto.AskResponse, error) {
	sess, row, err := s.ensureSession(ctx, identity)
	if err != nil {
		return nil, err
	}

	result, err := s.turn.Execute(ctx, sess, question, onUpdate)
	if err != nil {
		s.log.Error("assistant", "turn failed", map[string]interface{}{
			"session_id": sess.SessionID,
			"error":      err.Error(),
		})
		return nil, err
	}

	citationDTOs := make([]dto.CitationDTO, len(result.Citations))
	for i, c := range result.Citations {
		citationDTOs[i] = dto.CitationDTO{Label: c.Label, Locator: c.Locator}
	}

	if err := s.persistTurn(ctx, row, question, result); err != nil {
		// The customer already has the answer; losing the display
		// record is logged, not surfaced.
		s.log.Warn("assistant", "failed to persist turn", map[string]interface{}{
			"session_id": sess.SessionID,
			"error":      err.Error(),
		})
	}

	if s.publisher != nil {
		event := events.BaseEvent{
			Type: "ASSISTANT_TURN_COMPLETED",
			Data: map[string]interface{}{
				"session_id": sess.SessionID,
				"citations":  len(result.Citations),
			},
			OccurredAt: time.Now(),
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.log.Warn("assistant", "turn event publish failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return &dto.AskResponse{
		SessionId: sess.SessionID,
		Answer:    result.Answer,
		Citations: citationDTOs,
	}, nil
}

func (s *assistantService) persistTurn(ctx context.Context, row *entity.ChatSession, question string, result *pipeline.Result) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	userMsg := &entity.ChatMessage{
		Content:       question,
		Role:          constant.ChatMessageRoleUser,
		ChatSessionId: row.Id,
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMsg); err != nil {
		_ = uow.Rollback()
		return err
	}

	assistantMsg := &entity.ChatMessage{
		Content:       result.Answer,
		Role:          constant.ChatMessageRoleAssistant,
		ChatSessionId: row.Id,
	}
	if err := uow.ChatMessageRepository().Create(ctx, assistantMsg); err != nil {
		_ = uow.Rollback()
		return err
	}

	if len(result.Citations) > 0 {
		rows := make([]*entity.ChatCitation, len(result.Citations))
		for i, c := range result.Citations {
			rows[i] = &entity.ChatCitation{
				ChatMessageId: assistantMsg.Id,
				Label:         c.Label,
				Locator:       c.Locator,
			}
		}
		if err := uow.ChatCitationRepository().CreateBulk(ctx, rows); err != nil {
			_ = uow.Rollback()
			return err
		}
	}

	return uow.Commit()
}

func (s *assistantService) DeleteSession(ctx context.Context, identity, sessionKey string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.BySessionKey{SessionKey: sessionKey},
		specification.OwnedByIdentity{Identity: identity},
	)
	if err != nil {
		return err
	}
	if session == nil {
		return fiber.NewError(fiber.StatusNotFound, "Session not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.ChatCitationRepository().DeleteByChatSessionId(ctx, session.Id); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, session.Id); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, session.Id); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if err := s.history.Clear(ctx, sessionKey); err != nil {
		s.log.Warn("assistant", "failed to clear question log", map[string]interface{}{
			"session_id": sessionKey,
			"error":      err.Error(),
		})
	}
	if sess, ok := s.sessionRepo.Get(identity); ok && sess.SessionID == sessionKey {
		s.sessionRepo.Delete(identity)
	}
	return nil
}

// Logout resets the identity's session state: the session identifier,
// the accumulated question log, and the display history all go.
func (s *assistantService) Logout(ctx context.Context, identity string) error {
	sess, ok := s.sessionRepo.Get(identity)
	if !ok {
		return nil
	}
	if err := s.DeleteSession(ctx, identity, sess.SessionID); err != nil {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) && fiberErr.Code == fiber.StatusNotFound {
			s.sessionRepo.Delete(identity)
			return nil
		}
		return err
	}
	return nil
}

func (s *assistantService) Escalate(ctx context.Context, identity string, req *dto.EscalateRequest) (*dto.EscalateResponse, error) {
	sessionID := ""
	if sess, ok := s.sessionRepo.Get(identity); ok {
		sessionID = sess.SessionID
	}

	if err := s.emailService.SendEscalation(identity, sessionID, req.Reason); err != nil {
		s.log.Error("assistant", "escalation mail failed", map[string]interface{}{
			"identity": identity,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("escalation failed: %w", err)
	}

	if s.publisher != nil {
		event := events.BaseEvent{
			Type: "CUSTOMER_ESCALATED",
			Data: map[string]interface{}{
				"identity":   identity,
				"session_id": sessionID,
			},
			OccurredAt: time.Now(),
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.log.Warn("assistant", "escalation event publish failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return &dto.EscalateResponse{Contact: s.escalationContact}, nil
}
