package store

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/data/redisStore"
	"github.com/akolanti/DocQA/internal/domain/jobModel"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

// chatMarker is pushed first so a new chat exists before its first answer.
const chatMarker = "{}"

type RedisMessageStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

// GetRedisMessageStore returns nil when redis is offline.
func GetRedisMessageStore(ctx context.Context, settings config.RedisSettings) *RedisMessageStore {
	s := redisStore.GetRedisStore(ctx, settings, config.RedisMessageStore)
	if s == nil {
		return nil
	}
	return &RedisMessageStore{
		store:  s,
		logger: logger_i.NewLogger("MessageStore"),
	}
}

func TestMessageStore(store *redisStore.Store) *RedisMessageStore {
	return &RedisMessageStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}

func (s *RedisMessageStore) ValidateChatId(ctx context.Context, chatId string) bool {
	log := s.logger.WithTrace(ctx).With("chat Id", chatId)
	log.Debug("validating chatId")
	isFound, err := s.store.Exists(ctx, chatId)
	if err != nil {
		log.Error("Failed to check if chatId exists", "err", err)
		return false
	}
	return isFound
}

func (s *RedisMessageStore) TrySaveChat(ctx context.Context, id string, entry jobModel.TranscriptEntry) error {
	log := s.logger.WithTrace(ctx).With("chat Id", id)
	if !s.ValidateChatId(ctx, id) {
		log.Error("Failed Validation before saving", "err", ErrInvalidChatId)
		return ErrInvalidChatId
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal transcript entry: %w", err)
	}
	return s.push(ctx, id, data)
}

func (s *RedisMessageStore) push(ctx context.Context, id string, value interface{}) error {
	log := s.logger.WithTrace(ctx).With("chat Id", id)
	if err := s.store.ListPush(ctx, id, value); err != nil {
		log.Error("error saving chat", "error", err)
		return err
	}
	if err := s.store.Expire(ctx, id, config.RedisMessageStoreTTL); err != nil {
		log.Warn("could not refresh chat ttl", "error", err)
	}
	log.Debug("Saved chat successfully")
	return nil
}

func (s *RedisMessageStore) InitNewChat(ctx context.Context, id string) error {
	log := s.logger.WithTrace(ctx).With("chat Id", id)
	log.Debug("Initializing new chat")
	if err := s.store.Del(ctx, id); err != nil {
		log.Error("Error initializing chat", "error", err)
		return err
	}
	return s.push(ctx, id, chatMarker)
}

func (s *RedisMessageStore) GetMessageHistory(ctx context.Context, chatId string) ([]jobModel.TranscriptEntry, error) {
	log := s.logger.WithTrace(ctx).With("chat Id", chatId)
	log.Debug("Getting message history")
	if !s.ValidateChatId(ctx, chatId) {
		return nil, ErrInvalidChatId
	}

	// one extra so the marker never eats into the window
	res, err := s.store.ListGetLast(ctx, chatId, historyWindow+1)
	if err != nil {
		log.Error("Error getting history", "error", err)
		return nil, err
	}

	entries := make([]jobModel.TranscriptEntry, 0, len(res))
	for _, raw := range res {
		if raw == chatMarker {
			continue
		}
		var entry jobModel.TranscriptEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Warn("skipping unreadable transcript entry", "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	if len(entries) > historyWindow {
		entries = entries[len(entries)-historyWindow:]
	}
	slices.Reverse(entries)
	return entries, nil
}
