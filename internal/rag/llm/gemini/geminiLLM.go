package gemini

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/customHttpClient"
	"github.com/akolanti/DocQA/internal/metrics"
	"github.com/akolanti/DocQA/internal/rag/llm"
	"github.com/akolanti/DocQA/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	mu          sync.RWMutex
	client      *genai.Client
	modelName   string
	temperature float32
}

var logger = logger_i.NewLogger("llm_gemini")
var geminiClient *llmClient
var once sync.Once

var errEmptyGeneration = errors.New("gemini returned no text")
var errClientClosed = errors.New("gemini client is closed")

func GetGeminiClient(ctx context.Context, modelName string, apikey string, temperature float32) llm.Provider {
	once.Do(func() {
		if apikey == "" {
			logger.Warn("No Google API key, Gemini disabled")
			return
		}
		newGeminiClient(ctx, modelName, apikey, temperature)
	})

	if geminiClient == nil {
		return nil
	}
	return geminiClient
}

func newGeminiClient(ctx context.Context, modelName string, apikey string, temperature float32) {
	c, err := newLLMClient(ctx, &genai.ClientConfig{
		APIKey:     apikey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: customHttpClient.GetClient(),
	}, modelName, temperature)
	if err != nil {
		logger.Error("Error creating Gemini client", "error", err)
		return
	}
	geminiClient = c
	logger.Info("Gemini client created", "model", modelName)
	go closeClient(ctx, c)
}

func newLLMClient(ctx context.Context, cfg *genai.ClientConfig, modelName string, temperature float32) (*llmClient, error) {
	c, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &llmClient{client: c, modelName: modelName, temperature: temperature}, nil
}

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	log := logger.WithTrace(ctx)
	callCtx, cancel := context.WithTimeout(ctx, config.LLMCallTimeout)
	defer cancel()

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_gemini", time.Since(start)) }()

	temperature := c.temperature
	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: config.ModelContext}},
		},
		Temperature: &temperature,
	}

	c.mu.RLock()
	g := c.client
	c.mu.RUnlock()
	if g == nil {
		return "", errClientClosed
	}

	result, err := g.Models.GenerateContent(callCtx, c.modelName, genai.Text(prompt), contentConfig)
	if err != nil {
		log.Error("Gemini generation failed", "error", err)
		return "", err
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", errEmptyGeneration
	}
	return text, nil
}

// closeClient drops the genai client once ctx ends; responders then answer without generation.
func closeClient(ctx context.Context, c *llmClient) {
	<-ctx.Done()
	logger.Info("Closing Gemini client")
	c.mu.Lock()
	c.client = nil
	c.mu.Unlock()
}
