package openaiLLM

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
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var (
	logger     = logger_i.NewLogger("llm_openai")
	once       sync.Once
	chatClient *llmClient
)

var errNoChoices = errors.New("openai returned no choices")

type llmClient struct {
	api         openai.Client
	modelName   string
	temperature float64
}

func GetOpenAIClient(modelName string, apikey string, temperature float32) llm.Provider {
	once.Do(func() {
		if apikey == "" {
			logger.Warn("No OpenAI API key, OpenAI generation disabled")
			return
		}
		chatClient = newClient(modelName, temperature,
			option.WithAPIKey(apikey),
			option.WithHTTPClient(customHttpClient.GetClient()),
		)
		logger.Info("OpenAI client created", "model", modelName)
	})

	if chatClient == nil {
		return nil
	}
	return chatClient
}

func newClient(modelName string, temperature float32, opts ...option.RequestOption) *llmClient {
	return &llmClient{
		api:         openai.NewClient(opts...),
		modelName:   modelName,
		temperature: float64(temperature),
	}
}

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	log := logger.WithTrace(ctx)
	callCtx, cancel := context.WithTimeout(ctx, config.LLMCallTimeout)
	defer cancel()

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_openai", time.Since(start)) }()

	resp, err := c.api.Chat.Completions.New(callCtx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(config.ModelContext),
			openai.UserMessage(prompt),
		},
		Model:       openai.ChatModel(c.modelName),
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		log.Error("OpenAI generation failed", "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errNoChoices
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errNoChoices
	}
	return text, nil
}
