package store_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/akolanti/DocQA/internal/data/store"
	"github.com/akolanti/DocQA/internal/domain/jobModel"
)

func entry(i int) jobModel.TranscriptEntry {
	return jobModel.TranscriptEntry{
		Question:     fmt.Sprintf("question %d", i),
		Answer:       fmt.Sprintf("answer %d", i),
		ResponseType: "pdf_content",
		Sources:      []string{fmt.Sprintf("chunk %d", i)},
		Timestamp:    time.Unix(int64(1000+i), 0),
	}
}

// exerciseMessageStore runs the shared MessageStore contract against one implementation.
func exerciseMessageStore(t *testing.T, ms jobModel.MessageStore) {
	ctx := context.Background()

	t.Run("Unknown chat is rejected", func(t *testing.T) {
		if ms.ValidateChatId(ctx, "ghost") {
			t.Error("ghost chat should not validate")
		}
		if err := ms.TrySaveChat(ctx, "ghost", entry(0)); !errors.Is(err, store.ErrInvalidChatId) {
			t.Errorf("TrySaveChat got %v, want ErrInvalidChatId", err)
		}
		if _, err := ms.GetMessageHistory(ctx, "ghost"); !errors.Is(err, store.ErrInvalidChatId) {
			t.Errorf("GetMessageHistory got %v, want ErrInvalidChatId", err)
		}
	})

	t.Run("New chat has empty history", func(t *testing.T) {
		if err := ms.InitNewChat(ctx, "empty"); err != nil {
			t.Fatalf("InitNewChat failed: %v", err)
		}
		if !ms.ValidateChatId(ctx, "empty") {
			t.Fatal("new chat should validate")
		}
		history, err := ms.GetMessageHistory(ctx, "empty")
		if err != nil {
			t.Fatalf("GetMessageHistory failed: %v", err)
		}
		if len(history) != 0 {
			t.Errorf("history got %d entries, want 0", len(history))
		}
	})

	t.Run("History is last five newest first", func(t *testing.T) {
		if err := ms.InitNewChat(ctx, "chat-1"); err != nil {
			t.Fatalf("InitNewChat failed: %v", err)
		}
		for i := 1; i <= 7; i++ {
			if err := ms.TrySaveChat(ctx, "chat-1", entry(i)); err != nil {
				t.Fatalf("TrySaveChat %d failed: %v", i, err)
			}
		}
		history, err := ms.GetMessageHistory(ctx, "chat-1")
		if err != nil {
			t.Fatalf("GetMessageHistory failed: %v", err)
		}
		if len(history) != 5 {
			t.Fatalf("history got %d entries, want 5", len(history))
		}
		for n, want := range []int{7, 6, 5, 4, 3} {
			if history[n].Question != entry(want).Question {
				t.Errorf("history[%d] got %q, want %q", n, history[n].Question, entry(want).Question)
			}
		}
		if len(history[0].Sources) != 1 || history[0].Sources[0] != "chunk 7" {
			t.Errorf("sources got %v", history[0].Sources)
		}
		if !history[0].Timestamp.Equal(entry(7).Timestamp) {
			t.Errorf("timestamp got %v, want %v", history[0].Timestamp, entry(7).Timestamp)
		}
	})

	t.Run("Init clears an existing chat", func(t *testing.T) {
		if err := ms.InitNewChat(ctx, "chat-1"); err != nil {
			t.Fatalf("InitNewChat failed: %v", err)
		}
		history, err := ms.GetMessageHistory(ctx, "chat-1")
		if err != nil {
			t.Fatalf("GetMessageHistory failed: %v", err)
		}
		if len(history) != 0 {
			t.Errorf("history got %d entries after re-init, want 0", len(history))
		}
	})
}

func TestRedisMessageStore(t *testing.T) {
	mr, internalStore := newRedis(t)
	ms := store.TestMessageStore(internalStore)
	exerciseMessageStore(t, ms)

	if ttl := mr.TTL("chat-1"); ttl <= 0 {
		t.Errorf("chat key should carry a ttl, got %v", ttl)
	}
}

func TestInMemoryMessageStore(t *testing.T) {
	exerciseMessageStore(t, store.InitMessageStore())
}

func TestSQLiteMessageStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "transcripts.db")
	ms, err := store.NewSQLiteMessageStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteMessageStore failed: %v", err)
	}
	t.Cleanup(func() { _ = ms.Close() })
	exerciseMessageStore(t, ms)
}

func TestSQLiteMessageStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcripts.db")
	ctx := context.Background()

	first, err := store.NewSQLiteMessageStore(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := first.InitNewChat(ctx, "kept"); err != nil {
		t.Fatal(err)
	}
	if err := first.TrySaveChat(ctx, "kept", entry(1)); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second, err := store.NewSQLiteMessageStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	t.Cleanup(func() { _ = second.Close() })
	history, err := second.GetMessageHistory(ctx, "kept")
	if err != nil || len(history) != 1 {
		t.Fatalf("history got %v (%v), want one entry", history, err)
	}
}
