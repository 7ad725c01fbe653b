package prompt

import (
	"strings"

	"insurance-assistant-be/internal/constant"
	"insurance-assistant-be/pkg/citation"
	"insurance-assistant-be/pkg/generation"
	"insurance-assistant-be/pkg/store"
)

// Composer merges the customer's policy, retrieved corpus passages,
// citation labels and prior-question history into one generation
// request. The current question travels as a separate user message,
// never inside the system block.
type Composer struct {
	CompanyName       string
	EscalationContact string
	ModelVersion      string
	SafetyFilterRef   string
}

func NewComposer(companyName, escalationContact, modelVersion, safetyFilterRef string) *Composer {
	return &Composer{
		CompanyName:       companyName,
		EscalationContact: escalationContact,
		ModelVersion:      modelVersion,
		SafetyFilterRef:   safetyFilterRef,
	}
}

func (c *Composer) Compose(question, priorQuestions, policyText string, passages []store.Passage, citations []citation.Citation) *generation.Request {
	return &generation.Request{
		ModelVersion: c.ModelVersion,
		MaxTokens:    generation.MaxOutputTokens,
		System:       c.systemBlock(priorQuestions, policyText, passages, citations),
		Messages: []generation.Message{
			{Role: constant.ChatMessageRoleUser, Content: question},
		},
		SafetyFilterRef:  c.SafetyFilterRef,
		SafetyFilterMode: generation.SafetyModeAsync,
	}
}

func (c *Composer) systemBlock(priorQuestions, policyText string, passages []store.Passage, citations []citation.Citation) string {
	var b strings.Builder

	c.writePersona(&b)
	c.writeCustomerPolicy(&b, policyText)
	c.writePassages(&b, passages)
	c.writeCitations(&b, citations)
	c.writeHistory(&b, priorQuestions)
	c.writeRules(&b)

	return b.String()
}

func (c *Composer) writePersona(b *strings.Builder) {
	b.WriteString("<persona>\n")
	b.WriteString("You are a helpful insurance assistant for " + c.CompanyName + ", answering customers' questions about their motor insurance in the first person, as a member of staff would.\n")
	b.WriteString("Always prioritise the customer's own policy document over the general policy documents when they disagree.\n")
	b.WriteString("</persona>\n\n")
}

func (c *Composer) writeCustomerPolicy(b *strings.Builder, policyText string) {
	b.WriteString("<customer_policy>\n")
	b.WriteString(policyText)
	b.WriteString("\n</customer_policy>\n\n")
}

func (c *Composer) writePassages(b *strings.Builder, passages []store.Passage) {
	if len(passages) == 0 {
		return
	}
	b.WriteString("<supporting_documents>\n")
	for _, p := range passages {
		b.WriteString(p.Text)
		b.WriteString("\n---\n")
	}
	b.WriteString("</supporting_documents>\n\n")
}

func (c *Composer) writeCitations(b *strings.Builder, citations []citation.Citation) {
	if len(citations) == 0 {
		return
	}
	b.WriteString("<sources>\n")
	for _, cit := range citations {
		b.WriteString("- " + cit.Label + "\n")
	}
	b.WriteString("</sources>\n\n")
}

func (c *Composer) writeHistory(b *strings.Builder, priorQuestions string) {
	if priorQuestions == "" {
		return
	}
	b.WriteString("<previous_questions>\n")
	b.WriteString(priorQuestions)
	b.WriteString("\n</previous_questions>\n\n")
}

func (c *Composer) writeRules(b *strings.Builder) {
	b.WriteString("<rules>\n")
	b.WriteString("1. Only answer from the documents provided above. If they do not contain the answer, say so honestly.\n")
	b.WriteString("2. When your answer draws on the supporting documents, cite them by the source names listed.\n")
	b.WriteString("3. Include page or section references only when they appear explicitly in the provided context.\n")
	b.WriteString("4. If the customer asks to speak to a person or wants to escalate, direct them to " + c.EscalationContact + ".\n")
	b.WriteString("5. Speak in the first person.\n")
	b.WriteString("</rules>\n")
}
