package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionResponse struct {
	SessionId string `json:"session_id"`
	Greeting  string `json:"greeting"`
}

type GetSessionResponse struct {
	SessionId string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

type GetChatHistoryResponse struct {
	Id        uuid.UUID     `json:"id"`
	Role      string        `json:"role"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
	Citations []CitationDTO `json:"citations,omitempty"`
}

type CitationDTO struct {
	Label   string `json:"label"`
	Locator string `json:"locator,omitempty"`
}

type AskRequest struct {
	Question string `json:"question" validate:"required,max=4000"`
}

// AskStreamEvent is one SSE frame of the answer stream sent to the
// rendering surface.
type AskStreamEvent struct {
	Type      string        `json:"type"` // "delta" | "done" | "error"
	Text      string        `json:"text,omitempty"`
	Answer    string        `json:"answer,omitempty"`
	Citations []CitationDTO `json:"citations,omitempty"`
	Message   string        `json:"message,omitempty"`
}

type AskResponse struct {
	SessionId string        `json:"session_id"`
	Answer    string        `json:"answer"`
	Citations []CitationDTO `json:"citations,omitempty"`
}

type EscalateRequest struct {
	Reason string `json:"reason" validate:"required,max=2000"`
}

type EscalateResponse struct {
	Contact string `json:"contact"`
}
