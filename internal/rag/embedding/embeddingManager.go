package embedding

import "context"

// Embedder turns text into fixed-length vectors. BatchEmbedding keeps input order.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
}
