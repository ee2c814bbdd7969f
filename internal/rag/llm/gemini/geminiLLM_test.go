package gemini

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/genai"
)

func newTestClient(t *testing.T, body string, status int) *llmClient {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	c, err := newLLMClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
	}, "gemini-test", 0.4)
	if err != nil {
		t.Fatalf("newLLMClient failed: %v", err)
	}
	return c
}

func TestGenerate_ReturnsText(t *testing.T) {
	c := newTestClient(t, `{"candidates":[{"content":{"role":"model","parts":[{"text":"hello there"}]}}]}`, http.StatusOK)
	got, err := c.Generate(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "hello there" {
		t.Errorf("Generate got %q", got)
	}
}

func TestGenerate_EmptyCandidates(t *testing.T) {
	c := newTestClient(t, `{"candidates":[]}`, http.StatusOK)
	if _, err := c.Generate(context.Background(), "hi"); err == nil {
		t.Error("expected an error for an empty generation")
	}
}

func TestGenerate_ServerError(t *testing.T) {
	c := newTestClient(t, `{"error":{"code":400,"message":"bad","status":"INVALID_ARGUMENT"}}`, http.StatusBadRequest)
	if _, err := c.Generate(context.Background(), "hi"); err == nil {
		t.Error("expected an error from a 400 response")
	}
}

func TestGenerate_AfterClose(t *testing.T) {
	c := newTestClient(t, `{"candidates":[{"content":{"role":"model","parts":[{"text":"hello there"}]}}]}`, http.StatusOK)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	closeClient(ctx, c)

	if _, err := c.Generate(context.Background(), "hi"); !errors.Is(err, errClientClosed) {
		t.Errorf("Generate after close got %v, want errClientClosed", err)
	}
}
