package queue

const (
	TypeDocumentAnalyze = "document:analyze"
	TypeEmbeddingIndex  = "embedding:index"
)

type DocumentAnalyzePayload struct {
	DocumentID string `json:"document_id"`
}

type EmbeddingIndexPayload struct {
	DocumentID string `json:"document_id"`
}
