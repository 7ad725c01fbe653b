package dto

type UploadPolicyResponse struct {
	Key string `json:"key"`
}

type UploadCorpusResponse struct {
	Key string `json:"key"`
}

type StartIngestionResponse struct {
	JobId string `json:"job_id"`
}

// PublishDocumentUploadedMessage is the payload carried on the
// in-process bus when a corpus document lands in object storage.
type PublishDocumentUploadedMessage struct {
	SourceKey string `json:"source_key"`
}
