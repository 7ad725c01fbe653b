package pipeline

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"insurance-assistant-be/pkg/citation"
	"insurance-assistant-be/pkg/conversation"
	"insurance-assistant-be/pkg/generation"
	"insurance-assistant-be/pkg/retrieval"
	"insurance-assistant-be/pkg/store"
)

type fakeHistory struct {
	prior string
	err   error
	calls []string
}

func (f *fakeHistory) RecordQuestion(_ context.Context, _, question string) (string, error) {
	f.calls = append(f.calls, question)
	return f.prior, f.err
}

type fakePolicy struct{ text string }

func (f *fakePolicy) GetPolicy(context.Context, string) string { return f.text }

type fakeRetriever struct {
	passages []store.Passage
	err      error
}

func (f *fakeRetriever) Retrieve(context.Context, string) ([]store.Passage, error) {
	return f.passages, f.err
}

type fakeComposer struct {
	gotPrior  string
	gotPolicy string
}

func (f *fakeComposer) Compose(question, priorQuestions, policyText string, _ []store.Passage, _ []citation.Citation) *generation.Request {
	f.gotPrior = priorQuestions
	f.gotPolicy = policyText
	return &generation.Request{Messages: []generation.Message{{Role: "user", Content: question}}}
}

type fakeStream struct {
	frags []string
	pos   int
}

func (s *fakeStream) Recv() (string, error) {
	if s.pos >= len(s.frags) {
		return "", io.EOF
	}
	frag := s.frags[s.pos]
	s.pos++
	return frag, nil
}

func (s *fakeStream) Close() error { return nil }

type fakeProvider struct {
	stream *fakeStream
	err    error
	calls  int
}

func (f *fakeProvider) GenerateStream(context.Context, *generation.Request) (generation.Stream, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.stream, nil
}

func newExecutor(h *fakeHistory, r *fakeRetriever, p *fakeProvider) (*TurnExecutor, *fakeComposer) {
	c := &fakeComposer{}
	return NewTurnExecutor(h, &fakePolicy{text: "policy text"}, r, c, p), c
}

func TestExecuteHappyPath(t *testing.T) {
	h := &fakeHistory{prior: "first question"}
	r := &fakeRetriever{passages: []store.Passage{
		{Text: "chunk", Locator: "s3://docs/Keycare_Policy_Booklet.pdf"},
	}}
	p := &fakeProvider{stream: &fakeStream{frags: []string{"Hel", "lo", "\n"}}}
	exec, comp := newExecutor(h, r, p)

	var partials []string
	res, err := exec.Execute(context.Background(), store.NewSessionContext("alice"), "second question", func(partial string) {
		partials = append(partials, partial)
	})

	assert.NoError(t, err)
	assert.Equal(t, "Hello\n", res.Answer)
	assert.Equal(t, []citation.Citation{
		{Label: "Keycare Policy Booklet", Locator: "s3://docs/Keycare_Policy_Booklet.pdf"},
	}, res.Citations)
	assert.Equal(t, []string{"Hel", "Hello", "Hello\n"}, partials)
	assert.Equal(t, "first question", comp.gotPrior)
	assert.Equal(t, "policy text", comp.gotPolicy)
}

func TestRetrievalFailurePreventsGeneration(t *testing.T) {
	h := &fakeHistory{}
	r := &fakeRetriever{err: retrieval.ErrRetrievalFailed}
	p := &fakeProvider{stream: &fakeStream{}}
	exec, _ := newExecutor(h, r, p)

	res, err := exec.Execute(context.Background(), store.NewSessionContext("alice"), "q", nil)

	assert.Nil(t, res)
	assert.ErrorIs(t, err, retrieval.ErrRetrievalFailed)
	assert.Equal(t, 0, p.calls, "generation service must not be called without grounding")
}

func TestHistoryFailureDegradesToEmpty(t *testing.T) {
	h := &fakeHistory{prior: "", err: conversation.ErrHistoryUnavailable}
	r := &fakeRetriever{}
	p := &fakeProvider{stream: &fakeStream{frags: []string{"ok", "\n"}}}
	exec, comp := newExecutor(h, r, p)

	res, err := exec.Execute(context.Background(), store.NewSessionContext("alice"), "q", nil)

	assert.NoError(t, err, "a history outage must not block the question")
	assert.Equal(t, "ok\n", res.Answer)
	assert.Equal(t, "", comp.gotPrior)
}

func TestGenerationFailureReturnsNoAnswer(t *testing.T) {
	h := &fakeHistory{}
	r := &fakeRetriever{}
	p := &fakeProvider{err: generation.ErrGenerationFailed}
	exec, _ := newExecutor(h, r, p)

	res, err := exec.Execute(context.Background(), store.NewSessionContext("alice"), "q", nil)

	assert.Nil(t, res)
	assert.ErrorIs(t, err, generation.ErrGenerationFailed)
}

func TestUnwrappedDependencyErrorsAreClassified(t *testing.T) {
	h := &fakeHistory{}
	r := &fakeRetriever{err: errors.New("dns failure")}
	exec, _ := newExecutor(h, r, &fakeProvider{stream: &fakeStream{}})

	_, err := exec.Execute(context.Background(), store.NewSessionContext("alice"), "q", nil)
	assert.ErrorIs(t, err, retrieval.ErrRetrievalFailed)
}
