package hashEmbedding

import (
	"context"
	"crypto/sha256"
	"math"
)

// Embedder is the deterministic fallback: a SHA-256 digest of the text tiled to
// the target dimension and L2 normalised. Identical text always gives identical
// vectors, which keeps cache keys and tests stable.
type Embedder struct {
	dimension int
}

func New(dimension int) *Embedder {
	if dimension <= 0 {
		dimension = sha256.Size
	}
	return &Embedder{dimension: dimension}
}

func (e *Embedder) Dimension() int {
	return e.dimension
}

func (e *Embedder) GetEmbedding(_ context.Context, query string) ([]float32, error) {
	return e.Embed(query), nil
}

func (e *Embedder) BatchEmbedding(_ context.Context, chunks []string) ([][]float32, error) {
	out := make([][]float32, len(chunks))
	for i, c := range chunks {
		out[i] = e.Embed(c)
	}
	return out, nil
}

func (e *Embedder) Embed(text string) []float32 {
	digest := sha256.Sum256([]byte(text))
	vec := make([]float32, e.dimension)
	var sumSquares float64
	for i := range vec {
		v := float32(digest[i%len(digest)])
		vec[i] = v
		sumSquares += float64(v) * float64(v)
	}
	norm := math.Sqrt(sumSquares)
	if norm == 0 {
		norm = 1
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}
