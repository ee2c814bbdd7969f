package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/data/redisStore"
	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

// RedisDocumentRecordStore keeps every record as one field of a single hash. Records do not expire.
type RedisDocumentRecordStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

// GetRedisDocumentRecordStore returns nil when redis is offline.
func GetRedisDocumentRecordStore(ctx context.Context, settings config.RedisSettings) *RedisDocumentRecordStore {
	s := redisStore.GetRedisStore(ctx, settings, config.RedisDocumentStore)
	if s == nil {
		return nil
	}
	return TestDocumentRecordStore(s)
}

func TestDocumentRecordStore(store *redisStore.Store) *RedisDocumentRecordStore {
	return &RedisDocumentRecordStore{
		store:  store,
		logger: logger_i.NewLogger("DocumentRecordStore"),
	}
}

func (s *RedisDocumentRecordStore) SaveRecord(ctx context.Context, record commonModels.DocumentRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal document record: %w", err)
	}
	if err := s.store.HashSet(ctx, config.RedisDocumentsKey, record.DocId, data); err != nil {
		return err
	}
	s.logger.WithTrace(ctx).Debug("Saved document record", "docId", record.DocId)
	return nil
}

func (s *RedisDocumentRecordStore) ListRecords(ctx context.Context) ([]commonModels.DocumentRecord, error) {
	fields, err := s.store.HashGetAll(ctx, config.RedisDocumentsKey)
	if err != nil {
		return nil, err
	}
	out := make([]commonModels.DocumentRecord, 0, len(fields))
	for docId, raw := range fields {
		var record commonModels.DocumentRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			s.logger.Warn("skipping unreadable document record", "docId", docId, "error", err)
			continue
		}
		out = append(out, record)
	}
	sortRecords(out)
	return out, nil
}

func (s *RedisDocumentRecordStore) DeleteRecord(ctx context.Context, docId string) error {
	return s.store.HashDel(ctx, config.RedisDocumentsKey, docId)
}
