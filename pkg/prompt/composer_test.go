package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"insurance-assistant-be/pkg/citation"
	"insurance-assistant-be/pkg/generation"
	"insurance-assistant-be/pkg/store"
)

func newTestComposer() *Composer {
	return NewComposer("Acme Insurance", "support@acme-insurance.example", "model-v2", "filter-ref-1")
}

func TestComposeRequestShape(t *testing.T) {
	c := newTestComposer()

	req := c.Compose(
		"Am I covered for windscreen damage?",
		"what is my excess",
		"Comprehensive cover including glass.",
		[]store.Passage{{Text: "Windscreen repairs carry no excess.", Locator: "s3://docs/Windscreen_Cover.pdf"}},
		[]citation.Citation{{Label: "Windscreen Cover", Locator: "s3://docs/Windscreen_Cover.pdf"}},
	)

	assert.Equal(t, "model-v2", req.ModelVersion)
	assert.Equal(t, generation.MaxOutputTokens, req.MaxTokens)
	assert.Equal(t, "filter-ref-1", req.SafetyFilterRef)
	assert.Equal(t, generation.SafetyModeAsync, req.SafetyFilterMode)

	// The current question is a separate message, never part of the
	// system block.
	assert.Equal(t, []generation.Message{{Role: "user", Content: "Am I covered for windscreen damage?"}}, req.Messages)
	assert.NotContains(t, req.System, "Am I covered for windscreen damage?")

	assert.Contains(t, req.System, "Acme Insurance")
	assert.Contains(t, req.System, "Comprehensive cover including glass.")
	assert.Contains(t, req.System, "Windscreen repairs carry no excess.")
	assert.Contains(t, req.System, "- Windscreen Cover")
	assert.Contains(t, req.System, "what is my excess")
	assert.Contains(t, req.System, "support@acme-insurance.example")
}

func TestComposeOmitsEmptySections(t *testing.T) {
	c := newTestComposer()

	req := c.Compose("q", "", "No insurance policy found for the customer", nil, nil)

	assert.NotContains(t, req.System, "<supporting_documents>")
	assert.NotContains(t, req.System, "<sources>")
	assert.NotContains(t, req.System, "<previous_questions>")
	assert.Contains(t, req.System, "No insurance policy found for the customer")
}
