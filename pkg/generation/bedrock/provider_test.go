package bedrock

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"insurance-assistant-be/pkg/generation"
)

func sseServer(t *testing.T, frames []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, f := range frames {
			_, _ = w.Write([]byte("data: " + f + "\n\n"))
			flusher.Flush()
		}
	}))
}

func drain(t *testing.T, s generation.Stream) (string, error) {
	t.Helper()
	var out string
	for {
		frag, err := s.Recv()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out += frag
	}
}

func testRequest() *generation.Request {
	return &generation.Request{ModelVersion: "model-v2", MaxTokens: 100}
}

func TestStreamReassembly(t *testing.T) {
	srv := sseServer(t, []string{
		`{"type":"content_block_delta","delta":{"text":"Hel"}}`,
		`{"type":"content_block_delta","delta":{"text":"lo"}}`,
		`{"type":"message_stop"}`,
	})
	defer srv.Close()

	s, err := NewProvider(srv.URL, "").GenerateStream(context.Background(), testRequest())
	assert.NoError(t, err)
	defer s.Close()

	got, err := drain(t, s)
	assert.NoError(t, err)
	assert.Equal(t, "Hello\n", got)
}

func TestEmptyDeltaIsNotStreamEnd(t *testing.T) {
	srv := sseServer(t, []string{
		`{"type":"content_block_delta","delta":{"text":""}}`,
		`{"type":"content_block_delta","delta":{"text":"ok"}}`,
		`{"type":"message_stop"}`,
	})
	defer srv.Close()

	s, err := NewProvider(srv.URL, "").GenerateStream(context.Background(), testRequest())
	assert.NoError(t, err)
	defer s.Close()

	got, err := drain(t, s)
	assert.NoError(t, err)
	assert.Equal(t, "ok\n", got)
}

func TestUnknownAndMalformedFramesAreSkipped(t *testing.T) {
	srv := sseServer(t, []string{
		`{"type":"message_start"}`,
		`{not valid json`,
		`{"type":"content_block_delta","delta":{"text":"fine"}}`,
		`{"type":"message_stop"}`,
	})
	defer srv.Close()

	s, err := NewProvider(srv.URL, "").GenerateStream(context.Background(), testRequest())
	assert.NoError(t, err)
	defer s.Close()

	got, err := drain(t, s)
	assert.NoError(t, err)
	assert.Equal(t, "fine\n", got)
}

func TestAllFramesMalformedFailsStream(t *testing.T) {
	srv := sseServer(t, []string{`{broken`, `also broken`})
	defer srv.Close()

	s, err := NewProvider(srv.URL, "").GenerateStream(context.Background(), testRequest())
	assert.NoError(t, err)
	defer s.Close()

	_, err = drain(t, s)
	assert.ErrorIs(t, err, generation.ErrGenerationFailed)
}

func TestNoFurtherFragmentsAfterStop(t *testing.T) {
	srv := sseServer(t, []string{
		`{"type":"message_stop"}`,
		`{"type":"content_block_delta","delta":{"text":"late"}}`,
	})
	defer srv.Close()

	s, err := NewProvider(srv.URL, "").GenerateStream(context.Background(), testRequest())
	assert.NoError(t, err)
	defer s.Close()

	frag, err := s.Recv()
	assert.NoError(t, err)
	assert.Equal(t, "\n", frag)

	_, err = s.Recv()
	assert.Equal(t, io.EOF, err)
}

func TestTruncatedStreamWithoutStopFails(t *testing.T) {
	srv := sseServer(t, []string{
		`{"type":"content_block_delta","delta":{"text":"Your excess is "}}`,
	})
	defer srv.Close()

	s, err := NewProvider(srv.URL, "").GenerateStream(context.Background(), testRequest())
	assert.NoError(t, err)

	// Assemble must discard the partial text, not hand it back as the
	// answer of record.
	answer, err := generation.Assemble(s, nil)
	assert.ErrorIs(t, err, generation.ErrGenerationFailed)
	assert.Empty(t, answer)
}

func TestEmptyStreamWithoutStopFails(t *testing.T) {
	srv := sseServer(t, nil)
	defer srv.Close()

	s, err := NewProvider(srv.URL, "").GenerateStream(context.Background(), testRequest())
	assert.NoError(t, err)
	defer s.Close()

	_, err = drain(t, s)
	assert.ErrorIs(t, err, generation.ErrGenerationFailed)
}

func TestServiceErrorFailsBeforeStreaming(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "filter blocked", http.StatusBadRequest)
	}))
	defer srv.Close()

	s, err := NewProvider(srv.URL, "").GenerateStream(context.Background(), testRequest())
	assert.Nil(t, s)
	assert.ErrorIs(t, err, generation.ErrGenerationFailed)
}

func TestCancellationReleasesStream(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		_, _ = w.Write([]byte(`data: {"type":"content_block_delta","delta":{"text":"par"}}` + "\n\n"))
		flusher.Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	s, err := NewProvider(srv.URL, "").GenerateStream(ctx, testRequest())
	assert.NoError(t, err)

	frag, err := s.Recv()
	assert.NoError(t, err)
	assert.Equal(t, "par", frag)

	cancel()

	done := make(chan struct{})
	go func() {
		_, _ = s.Recv()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Recv did not return after cancellation")
	}
	_ = s.Close()
}
