package googleEmbedding

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/customHttpClient"
	"github.com/akolanti/DocQA/internal/metrics"
	"github.com/akolanti/DocQA/internal/rag/embedding"
	"github.com/akolanti/DocQA/pkg/logger_i"
	"google.golang.org/genai"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client

var errClientClosed = errors.New("google embedding client is closed")

type client struct {
	mu        sync.RWMutex
	genAi     *genai.Client
	model     string
	dimension int32
}

func newGoogleEmbedder(ctx context.Context, modelName string, apikey string, dimension int32) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apikey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: customHttpClient.GetClient(),
	})
	if err != nil {
		logger.Error("Error creating Google Embedding client", "error", err)
	}
	if c != nil {
		embeddingClient = &client{
			genAi:     c,
			model:     modelName,
			dimension: dimension,
		}
		logger.Debug("Google Embedding model name: " + modelName)
		logger.Info("Google Embedding client created")
		go closeClient(ctx, embeddingClient)
	}
}

// closeClient drops the genai client once ctx ends. Later calls fail with
// errClientClosed, which the fallback embedder absorbs.
func closeClient(ctx context.Context, c *client) {
	<-ctx.Done()
	logger.Info("Closing Google Embedding client")
	c.mu.Lock()
	c.genAi = nil
	c.model = ""
	c.mu.Unlock()
}

// GetGoogleEmbeddingClient returns nil when no key is configured or the client cannot be built.
func GetGoogleEmbeddingClient(ctx context.Context, modelName string, apikey string, dimension int) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("google_embedding")
		if apikey == "" {
			logger.Warn("No Google API key, semantic embeddings disabled")
			return
		}
		newGoogleEmbedder(ctx, modelName, apikey, int32(dimension))
	})

	//if init still fails
	if embeddingClient == nil {
		return nil
	}
	return embeddingClient
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	log := logger.WithTrace(ctx)
	log.Debug("embedding query", "length", len(query))

	res, err := c.callWithRetry(ctx, genai.Text(query), "RETRIEVAL_QUERY", log)
	if err != nil {
		log.Error("Error getting Embedding from Google", "error", err)
		return nil, err
	}
	if len(res.Embeddings) == 0 || res.Embeddings[0] == nil {
		return nil, errors.New("google embedding returned no vectors")
	}
	return res.Embeddings[0].Values, nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	log := logger.WithTrace(ctx).With("chunks", len(chunks))
	if len(chunks) == 0 {
		return [][]float32{}, nil
	}

	res, err := c.callWithRetry(ctx, getContent(chunks), "RETRIEVAL_DOCUMENT", log)
	if err != nil {
		log.Error("Error getting Embeddings from Google", "error", err)
		return nil, err
	}
	if len(res.Embeddings) != len(chunks) {
		return nil, fmt.Errorf("google embedding returned %d vectors for %d chunks", len(res.Embeddings), len(chunks))
	}

	embeddingResults := make([][]float32, 0, len(chunks))
	for _, r := range res.Embeddings {
		if r == nil {
			embeddingResults = append(embeddingResults, nil)
			continue
		}
		embeddingResults = append(embeddingResults, r.Values)
	}
	return embeddingResults, nil
}

// callWithRetry retries once on rate limiting.
func (c *client) callWithRetry(ctx context.Context, content []*genai.Content, taskType string, log *logger_i.Logger) (*genai.EmbedContentResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, config.EmbeddingCallTimeout)
	defer cancel()

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("google_embedding", time.Since(start)) }()

	res, err := c.doCall(callCtx, content, taskType)
	if err != nil && doRetry(err, log) {
		log.Debug("Retrying embedding call", "delay", retryDelay)
		if werr := waitRetry(callCtx); werr != nil {
			return nil, werr
		}
		res, err = c.doCall(callCtx, content, taskType)
	}
	if err == nil && res == nil {
		err = errors.New("google embedding returned an empty response")
	}
	return res, err
}

func (c *client) doCall(ctx context.Context, content []*genai.Content, taskType string) (*genai.EmbedContentResponse, error) {
	c.mu.RLock()
	g, model := c.genAi, c.model
	c.mu.RUnlock()
	if g == nil {
		return nil, errClientClosed
	}
	dimension := c.dimension
	return g.Models.EmbedContent(ctx, model, content, &genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: taskType})
}
