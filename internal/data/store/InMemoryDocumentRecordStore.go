package store

import (
	"context"
	"sort"
	"sync"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
)

type InMemoryDocumentRecordStore struct {
	mu      sync.RWMutex
	records map[string]commonModels.DocumentRecord
}

func InitInMemoryDocumentRecordStore() *InMemoryDocumentRecordStore {
	return &InMemoryDocumentRecordStore{records: make(map[string]commonModels.DocumentRecord)}
}

func (s *InMemoryDocumentRecordStore) SaveRecord(ctx context.Context, record commonModels.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.DocId] = record
	return nil
}

func (s *InMemoryDocumentRecordStore) ListRecords(ctx context.Context) ([]commonModels.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]commonModels.DocumentRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sortRecords(out)
	return out, nil
}

func (s *InMemoryDocumentRecordStore) DeleteRecord(ctx context.Context, docId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, docId)
	return nil
}

// sortRecords orders by upload time so a restore rebuilds documents in upload order.
func sortRecords(records []commonModels.DocumentRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].Metadata.UploadTime, records[j].Metadata.UploadTime
		if a.Equal(b) {
			return records[i].DocId < records[j].DocId
		}
		return a.Before(b)
	})
}
