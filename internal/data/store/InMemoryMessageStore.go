package store

import (
	"context"
	"slices"
	"sync"

	"github.com/akolanti/DocQA/internal/domain/jobModel"
)

const historyWindow = 5

type InMemoryMessageStore struct {
	chatLock *sync.RWMutex
	chatMap  map[string][]jobModel.TranscriptEntry
}

func InitMessageStore() *InMemoryMessageStore {
	return &InMemoryMessageStore{
		chatLock: new(sync.RWMutex),
		chatMap:  make(map[string][]jobModel.TranscriptEntry),
	}
}

func (store *InMemoryMessageStore) ValidateChatId(ctx context.Context, chatId string) bool {
	store.chatLock.RLock()
	defer store.chatLock.RUnlock()
	_, ok := store.chatMap[chatId]
	return ok
}

func (store *InMemoryMessageStore) TrySaveChat(ctx context.Context, id string, entry jobModel.TranscriptEntry) error {
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	if _, ok := store.chatMap[id]; !ok {
		return ErrInvalidChatId
	}
	store.chatMap[id] = append(store.chatMap[id], entry)
	inMemLogger.Debug("Saved convo to chat message store", "chatId", id)
	return nil
}

func (store *InMemoryMessageStore) InitNewChat(ctx context.Context, id string) error {
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	store.chatMap[id] = make([]jobModel.TranscriptEntry, 0)
	return nil
}

func (store *InMemoryMessageStore) GetMessageHistory(ctx context.Context, chatId string) ([]jobModel.TranscriptEntry, error) {
	store.chatLock.RLock()
	defer store.chatLock.RUnlock()
	entries, ok := store.chatMap[chatId]
	if !ok {
		return nil, ErrInvalidChatId
	}
	start := max(0, len(entries)-historyWindow)
	out := slices.Clone(entries[start:])
	slices.Reverse(out)
	return out, nil
}
