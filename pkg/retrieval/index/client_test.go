package index

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"insurance-assistant-be/pkg/retrieval"
	"insurance-assistant-be/pkg/store"
)

func TestRetrievePreservesServiceOrder(t *testing.T) {
	var gotBody retrieveRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/retrieve", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"retrievalResults": [
				{"content": {"text": "second-ranked late alphabetically"}, "location": {"s3Location": {"uri": "s3://docs/Zeta_Guide.pdf"}}},
				{"content": {"text": "first alphabetically but ranked lower"}, "location": {"s3Location": {"uri": "s3://docs/Alpha_Guide.pdf"}}}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "kb-123", "")
	passages, err := c.Retrieve(context.Background(), "what is my excess")

	assert.NoError(t, err)
	assert.Equal(t, "kb-123", gotBody.IndexID)
	assert.Equal(t, "what is my excess", gotBody.Query.Text)
	assert.Equal(t, []store.Passage{
		{Text: "second-ranked late alphabetically", Locator: "s3://docs/Zeta_Guide.pdf"},
		{Text: "first alphabetically but ranked lower", Locator: "s3://docs/Alpha_Guide.pdf"},
	}, passages)
}

func TestRetrieveServiceErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "index unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "kb-123", "")
	passages, err := c.Retrieve(context.Background(), "q")

	assert.Nil(t, passages)
	assert.ErrorIs(t, err, retrieval.ErrRetrievalFailed)
}

func TestStartIngestion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ingestion-jobs", r.URL.Path)
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"ingestionJobId": "job-42"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "kb-123", "secret")
	jobID, err := c.StartIngestion(context.Background(), "ds-1")

	assert.NoError(t, err)
	assert.Equal(t, "job-42", jobID)
}
