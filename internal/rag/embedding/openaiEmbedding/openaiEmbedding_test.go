package openaiEmbedding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

func TestToVectors_OrdersByIndex(t *testing.T) {
	data := []openai.Embedding{
		{Index: 1, Embedding: []float64{0.5, 0.25}},
		{Index: 0, Embedding: []float64{1, 0}},
	}
	got, err := toVectors(data, 2)
	if err != nil {
		t.Fatalf("toVectors failed: %v", err)
	}
	if got[0][0] != 1 || got[1][1] != 0.25 {
		t.Errorf("unexpected vectors %v", got)
	}
}

func TestToVectors_CountMismatch(t *testing.T) {
	if _, err := toVectors([]openai.Embedding{{Index: 0}}, 2); err == nil {
		t.Error("expected an error for a short response")
	}
}

func TestToVectors_BadIndex(t *testing.T) {
	if _, err := toVectors([]openai.Embedding{{Index: 3}}, 1); err == nil {
		t.Error("expected an error for an out of range index")
	}
}

func TestBatchEmbedding_AgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","model":"text-embedding-3-small",
			"data":[{"object":"embedding","index":0,"embedding":[0.1,0.2]},{"object":"embedding","index":1,"embedding":[0.3,0.4]}],
			"usage":{"prompt_tokens":2,"total_tokens":2}}`))
	}))
	defer srv.Close()

	c := newClient("text-embedding-3-small", 2, option.WithBaseURL(srv.URL), option.WithAPIKey("k"), option.WithMaxRetries(0))
	got, err := c.BatchEmbedding(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("BatchEmbedding failed: %v", err)
	}
	if len(got) != 2 || got[1][0] != float32(0.3) {
		t.Errorf("unexpected vectors %v", got)
	}
}
