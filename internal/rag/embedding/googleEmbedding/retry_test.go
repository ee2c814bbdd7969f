package googleEmbedding

import (
	"context"
	"errors"
	"testing"

	"github.com/akolanti/DocQA/pkg/logger_i"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestDoRetry(t *testing.T) {
	log := logger_i.NewLogger("test")
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"grpc exhausted", status.Error(codes.ResourceExhausted, "quota"), true},
		{"grpc unavailable", status.Error(codes.Unavailable, "down"), false},
		{"rest 429", errors.New("Error 429, Message: Resource has been exhausted, Status: RESOURCE_EXHAUSTED"), true},
		{"other", errors.New("permission denied"), false},
	}
	for _, tt := range tests {
		if got := doRetry(tt.err, log); got != tt.want {
			t.Errorf("%s: doRetry got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestGetContent_OnePartPerChunk(t *testing.T) {
	got := getContent([]string{"a", "b"})
	if len(got) != 2 || got[1].Parts[0].Text != "b" {
		t.Errorf("unexpected content %+v", got)
	}
}

func TestWaitRetry_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := waitRetry(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
