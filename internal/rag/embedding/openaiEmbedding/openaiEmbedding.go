package openaiEmbedding

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/customHttpClient"
	"github.com/akolanti/DocQA/internal/metrics"
	"github.com/akolanti/DocQA/internal/rag/embedding"
	"github.com/akolanti/DocQA/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var (
	logger          = logger_i.NewLogger("openai_embedding")
	once            sync.Once
	embeddingClient *client
)

type client struct {
	api       openai.Client
	model     string
	dimension int64
}

func GetOpenAIEmbeddingClient(modelName string, apikey string, dimension int) embedding.Embedder {
	once.Do(func() {
		if apikey == "" {
			logger.Warn("No OpenAI API key, semantic embeddings disabled")
			return
		}
		embeddingClient = newClient(modelName, dimension,
			option.WithAPIKey(apikey),
			option.WithHTTPClient(customHttpClient.GetClient()),
		)
		logger.Info("OpenAI Embedding client created", "model", modelName)
	})

	if embeddingClient == nil {
		return nil
	}
	return embeddingClient
}

func newClient(modelName string, dimension int, opts ...option.RequestOption) *client {
	return &client{
		api:       openai.NewClient(opts...),
		model:     modelName,
		dimension: int64(dimension),
	}
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vecs, err := c.embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if len(chunks) == 0 {
		return [][]float32{}, nil
	}
	return c.embed(ctx, chunks)
}

func (c *client) embed(ctx context.Context, texts []string) ([][]float32, error) {
	log := logger.WithTrace(ctx)
	callCtx, cancel := context.WithTimeout(ctx, config.EmbeddingCallTimeout)
	defer cancel()

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("openai_embedding", time.Since(start)) }()

	res, err := c.api.Embeddings.New(callCtx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model:      openai.EmbeddingModel(c.model),
		Dimensions: openai.Int(c.dimension),
	})
	if err != nil {
		log.Error("Error getting Embeddings from OpenAI", "error", err)
		return nil, err
	}
	return toVectors(res.Data, len(texts))
}

// toVectors places each result at its reported index and narrows to float32.
func toVectors(data []openai.Embedding, want int) ([][]float32, error) {
	if len(data) != want {
		return nil, fmt.Errorf("openai returned %d vectors for %d inputs", len(data), want)
	}
	out := make([][]float32, want)
	for _, d := range data {
		if d.Index < 0 || int(d.Index) >= want {
			return nil, fmt.Errorf("openai returned out of range index %d", d.Index)
		}
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		out[d.Index] = vec
	}
	return out, nil
}
