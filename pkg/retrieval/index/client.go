package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"insurance-assistant-be/pkg/retrieval"
	"insurance-assistant-be/pkg/store"
)

// Client talks to the managed knowledge-index service over HTTP. Results
// come back in the service's relevance order and are passed through
// unchanged.
type Client struct {
	BaseURL string
	IndexID string
	APIKey  string
	Client  *http.Client
}

var _ retrieval.Retriever = &Client{}

func NewClient(baseURL, indexID, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		IndexID: indexID,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// --- Request/Response structs (internal to this package) ---

type retrieveRequest struct {
	IndexID string `json:"knowledgeBaseId"`
	Query   struct {
		Text string `json:"text"`
	} `json:"retrievalQuery"`
}

type retrieveResponse struct {
	Results []struct {
		Content struct {
			Text string `json:"text"`
		} `json:"content"`
		Location struct {
			S3 struct {
				URI string `json:"uri"`
			} `json:"s3Location"`
		} `json:"location"`
	} `json:"retrievalResults"`
}

type ingestionRequest struct {
	IndexID      string `json:"knowledgeBaseId"`
	DataSourceID string `json:"dataSourceId"`
}

type ingestionResponse struct {
	JobID string `json:"ingestionJobId"`
}

// Retrieve runs a semantic search against the index. Any failure wraps
// retrieval.ErrRetrievalFailed so the turn can abort before generation.
func (c *Client) Retrieve(ctx context.Context, query string) ([]store.Passage, error) {
	reqPayload := retrieveRequest{IndexID: c.IndexID}
	reqPayload.Query.Text = query

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", retrieval.ErrRetrievalFailed, err)
	}

	url := c.BaseURL + "/retrieve"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", retrieval.ErrRetrievalFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", retrieval.ErrRetrievalFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", retrieval.ErrRetrievalFailed, resp.StatusCode, string(body))
	}

	var parsed retrieveResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", retrieval.ErrRetrievalFailed, err)
	}

	passages := make([]store.Passage, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		passages = append(passages, store.Passage{
			Text:    r.Content.Text,
			Locator: r.Location.S3.URI,
		})
	}
	return passages, nil
}

// StartIngestion kicks off an asynchronous sync of the index's data
// source. The caller gets a job id back and does not wait for the job.
func (c *Client) StartIngestion(ctx context.Context, dataSourceID string) (string, error) {
	payloadBytes, err := json.Marshal(ingestionRequest{
		IndexID:      c.IndexID,
		DataSourceID: dataSourceID,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := c.BaseURL + "/ingestion-jobs"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ingestion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ingestion request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var parsed ingestionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return parsed.JobID, nil
}
