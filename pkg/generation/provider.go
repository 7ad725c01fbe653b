package generation

import (
	"context"
	"errors"
)

// ErrGenerationFailed marks a failed generation turn: transport error,
// timeout, safety-filter block, or a stream with no usable frames.
var ErrGenerationFailed = errors.New("generation failed")

// MaxOutputTokens caps every request's output budget.
const MaxOutputTokens = 10000

// SafetyModeAsync runs the content filter concurrently with generation
// instead of blocking each token.
const SafetyModeAsync = "ASYNC"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the generation-service call body, constructed fresh per
// question and never persisted.
type Request struct {
	ModelVersion     string    `json:"model_version_tag"`
	MaxTokens        int       `json:"max_tokens"`
	System           string    `json:"system"`
	Messages         []Message `json:"messages"`
	SafetyFilterRef  string    `json:"safety_filter_ref,omitempty"`
	SafetyFilterMode string    `json:"safety_filter_mode,omitempty"`
}

// Stream is a finite, non-restartable sequence of text fragments.
// Recv returns io.EOF after the final fragment. Close releases the
// underlying connection and is safe to call mid-stream.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// Provider opens a streaming generation call.
type Provider interface {
	GenerateStream(ctx context.Context, req *Request) (Stream, error)
}
