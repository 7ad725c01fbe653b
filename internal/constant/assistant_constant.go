package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"

	// Greeting seeded as the first assistant message of every new session.
	SessionGreeting = "Hi, I'm your insurance assistant. Ask me anything about your motor policy."

	// User-visible role-tagged error texts. These replace the assistant
	// answer for the failed turn and are never persisted as answers.
	RetrievalFailedMessage  = "Sorry, I couldn't search the policy documents right now. Please try again."
	GenerationFailedMessage = "Sorry, I couldn't generate an answer right now. Please try again."

	// Object storage layout shared with the ingestion pipeline.
	CustomerPolicyKeyPrefix = "customer_policy/"
	PolicyDocsKeyPrefix     = "policy_docs/"

	// Topic for the in-process ingestion event bus.
	DocumentUploadedTopic = "DOCUMENT_UPLOADED"
)
