package googleEmbedding

import (
	"context"
	"errors"
	"testing"

	"github.com/akolanti/DocQA/pkg/logger_i"
	"google.golang.org/genai"
)

func TestCloseClient_ReleasesGenAiClient(t *testing.T) {
	if logger == nil {
		logger = logger_i.NewLogger("test")
	}
	g, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  "test-key",
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		t.Fatalf("genai.NewClient failed: %v", err)
	}
	c := &client{genAi: g, model: "embedding-test", dimension: 8}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	closeClient(ctx, c)

	c.mu.RLock()
	released := c.genAi == nil && c.model == ""
	c.mu.RUnlock()
	if !released {
		t.Fatal("expected the genai client to be released")
	}

	if _, err := c.BatchEmbedding(context.Background(), []string{"a"}); !errors.Is(err, errClientClosed) {
		t.Errorf("BatchEmbedding after close got %v, want errClientClosed", err)
	}
	if _, err := c.GetEmbedding(context.Background(), "a"); !errors.Is(err, errClientClosed) {
		t.Errorf("GetEmbedding after close got %v, want errClientClosed", err)
	}
}
