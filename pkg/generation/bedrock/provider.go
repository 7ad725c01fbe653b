package bedrock

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"insurance-assistant-be/pkg/generation"
)

// Provider streams completions from a Bedrock-style hosted generation
// service. The response arrives as server-sent events carrying JSON
// payloads.
type Provider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

var _ generation.Provider = &Provider{}

func NewProvider(baseURL, apiKey string) *Provider {
	return &Provider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			// Generation can be slow; the timeout bounds the whole
			// stream, not a single frame.
			Timeout: 10 * time.Minute,
		},
	}
}

type streamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Text string `json:"text"`
	} `json:"delta"`
}

func (p *Provider) GenerateStream(ctx context.Context, req *generation.Request) (generation.Stream, error) {
	payloadBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", generation.ErrGenerationFailed, err)
	}

	url := p.BaseURL + "/model/" + req.ModelVersion + "/invoke-with-response-stream"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", generation.ErrGenerationFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if p.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	}

	resp, err := p.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("%w: status %d: %s", generation.ErrGenerationFailed, resp.StatusCode, string(body))
	}

	return &stream{
		body:    resp.Body,
		scanner: bufio.NewScanner(resp.Body),
	}, nil
}

// stream decodes SSE frames lazily, one fragment per Recv. It is finite
// and not restartable.
type stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner

	done     bool
	sawFrame bool
	yielded  bool
}

// Recv returns the next text fragment. A content_block_delta frame
// yields its delta text, which may be the empty string and is still a
// live fragment. message_stop yields one trailing newline and is the
// only clean terminator; a transport that ends without it delivered a
// truncated stream and fails as a whole. Unknown event kinds are
// ignored and malformed payloads are skipped; a stream where every
// frame was unusable fails too.
func (s *stream) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}

	for s.scanner.Scan() {
		line := bytes.TrimSpace(s.scanner.Bytes())
		if !bytes.HasPrefix(line, []byte("data:")) {
			continue
		}
		payload := bytes.TrimSpace(bytes.TrimPrefix(line, []byte("data:")))
		if len(payload) == 0 {
			continue
		}
		s.sawFrame = true

		var ev streamEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			continue
		}

		switch ev.Type {
		case "content_block_delta":
			s.yielded = true
			return ev.Delta.Text, nil
		case "message_stop":
			s.done = true
			s.yielded = true
			return "\n", nil
		}
	}

	// The scanner is only exhausted when no message_stop arrived;
	// the stop frame ends the sequence above before reaching here.
	s.done = true
	if err := s.scanner.Err(); err != nil {
		return "", fmt.Errorf("%w: read stream: %v", generation.ErrGenerationFailed, err)
	}
	if s.sawFrame && !s.yielded {
		return "", fmt.Errorf("%w: no usable frames in stream", generation.ErrGenerationFailed)
	}
	return "", fmt.Errorf("%w: stream ended without message_stop", generation.ErrGenerationFailed)
}

func (s *stream) Close() error {
	s.done = true
	return s.body.Close()
}
