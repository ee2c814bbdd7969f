package embedding

import (
	"context"
	"fmt"

	"github.com/akolanti/DocQA/internal/metrics"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

// Layered exposes both tiers of a fallback embedder so a caller embedding many
// batches can pick one tier for all of them.
type Layered interface {
	Embedder
	Primary() Embedder
	Fallback() Embedder
}

type fallbackEmbedder struct {
	primary  Embedder
	fallback Embedder
	logger   *logger_i.Logger
}

// WithFallback answers from primary and substitutes fallback on any primary error.
// A nil primary means fallback is the only embedder.
func WithFallback(primary Embedder, fallback Embedder) Embedder {
	if primary == nil {
		return fallback
	}
	return &fallbackEmbedder{
		primary:  primary,
		fallback: fallback,
		logger:   logger_i.NewLogger("embedding_fallback"),
	}
}

func (f *fallbackEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vec, err := f.primary.GetEmbedding(ctx, query)
	if err == nil && len(vec) > 0 {
		return vec, nil
	}
	f.logger.WithTrace(ctx).Warn("semantic embedding unavailable, using deterministic embedder", "error", err)
	metrics.IncrementEmbeddingFallback("single")
	return f.fallback.GetEmbedding(ctx, query)
}

func (f *fallbackEmbedder) Primary() Embedder  { return f.primary }
func (f *fallbackEmbedder) Fallback() Embedder { return f.fallback }

// BatchEmbedding falls back for the whole batch. Callers splitting one document
// into several batches should go through Layered instead.
func (f *fallbackEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	vecs, err := f.primary.BatchEmbedding(ctx, chunks)
	if err == nil {
		err = ValidateBatch(vecs, len(chunks))
	}
	if err == nil {
		return vecs, nil
	}
	f.logger.WithTrace(ctx).Warn("semantic batch embedding unavailable, using deterministic embedder", "error", err, "chunks", len(chunks))
	metrics.IncrementEmbeddingFallback("batch")
	return f.fallback.BatchEmbedding(ctx, chunks)
}

// ValidateBatch checks one vector per chunk and no empty vectors.
func ValidateBatch(vecs [][]float32, want int) error {
	if len(vecs) != want {
		return fmt.Errorf("got %d vectors for %d chunks", len(vecs), want)
	}
	for i, v := range vecs {
		if len(v) == 0 {
			return fmt.Errorf("empty vector at position %d", i)
		}
	}
	return nil
}
