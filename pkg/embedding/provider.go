package embedding

import "context"

// EmbeddingProvider turns text into a vector for similarity search. The task
// type hints whether the text is being indexed or queried; providers that do
// not distinguish the two ignore it.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)
}

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}
