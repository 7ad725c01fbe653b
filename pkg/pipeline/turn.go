package pipeline

import (
	"context"
	"errors"
	"fmt"

	"insurance-assistant-be/pkg/citation"
	"insurance-assistant-be/pkg/generation"
	"insurance-assistant-be/pkg/retrieval"
	"insurance-assistant-be/pkg/store"
)

// HistoryRecorder persists the question and returns the pre-append
// prior-question sequence.
type HistoryRecorder interface {
	RecordQuestion(ctx context.Context, sessionID, question string) (string, error)
}

// PolicyFetcher resolves a customer's private policy text. It never
// fails; absence comes back as sentinel text.
type PolicyFetcher interface {
	GetPolicy(ctx context.Context, identity string) string
}

// Composer builds the generation request from the grounding material.
type Composer interface {
	Compose(question, priorQuestions, policyText string, passages []store.Passage, citations []citation.Citation) *generation.Request
}

// Result is the outcome of one successful turn.
type Result struct {
	Answer    string
	Citations []citation.Citation
}

// TurnExecutor runs one question/answer cycle end to end. One turn per
// session is in flight at a time; cross-session turns are independent
// invocations partitioned by session id.
type TurnExecutor struct {
	history   HistoryRecorder
	policy    PolicyFetcher
	retriever retrieval.Retriever
	composer  Composer
	provider  generation.Provider
}

func NewTurnExecutor(history HistoryRecorder, policy PolicyFetcher, retriever retrieval.Retriever, composer Composer, provider generation.Provider) *TurnExecutor {
	return &TurnExecutor{
		history:   history,
		policy:    policy,
		retriever: retriever,
		composer:  composer,
		provider:  provider,
	}
}

// Execute processes a question for a session. onUpdate receives the
// running answer text after every fragment and may be nil.
//
// Failure handling is deliberately asymmetric: history and policy
// failures degrade (empty history, sentinel policy) and the turn
// continues, while retrieval failure aborts the turn before any
// generation call, and generation failure aborts without an answer of
// record.
func (e *TurnExecutor) Execute(ctx context.Context, sess *store.SessionContext, question string, onUpdate func(partial string)) (*Result, error) {
	prior, err := e.history.RecordQuestion(ctx, sess.SessionID, question)
	if err != nil {
		prior = ""
	}

	policyText := e.policy.GetPolicy(ctx, sess.Identity)

	passages, err := e.retriever.Retrieve(ctx, question)
	if err != nil {
		if errors.Is(err, retrieval.ErrRetrievalFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", retrieval.ErrRetrievalFailed, err)
	}

	locators := make([]string, 0, len(passages))
	for _, p := range passages {
		locators = append(locators, p.Locator)
	}
	citations := citation.Normalize(locators)

	req := e.composer.Compose(question, prior, policyText, passages, citations)

	stream, err := e.provider.GenerateStream(ctx, req)
	if err != nil {
		if errors.Is(err, generation.ErrGenerationFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	answer, err := generation.Assemble(stream, onUpdate)
	if err != nil {
		if errors.Is(err, generation.ErrGenerationFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	return &Result{Answer: answer, Citations: citations}, nil
}
