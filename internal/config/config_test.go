package config

import (
	"os"
	"testing"

	"insurance-assistant-be/internal/constant"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	_ = os.Unsetenv("DOCUMENT_UPLOADED_TOPIC_NAME")
	_ = os.Unsetenv("RETRIEVAL_PROVIDER")
	_ = os.Unsetenv("RETRIEVAL_LIMIT")

	cfg := Load()

	assert.Equal(t, constant.DocumentUploadedTopic, cfg.Ai.IngestionTopic)
	assert.Equal(t, "index", cfg.Retrieval.Provider)
	assert.Equal(t, 5, cfg.Retrieval.Limit)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DOCUMENT_UPLOADED_TOPIC_NAME", "CORPUS_CHANGED")
	t.Setenv("RETRIEVAL_PROVIDER", "local")

	cfg := Load()

	assert.Equal(t, "CORPUS_CHANGED", cfg.Ai.IngestionTopic)
	assert.Equal(t, "local", cfg.Retrieval.Provider)
}
