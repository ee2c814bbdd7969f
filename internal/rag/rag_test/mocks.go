package rag_test

import (
	"context"
	"sync"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/domain/qaModel"
)

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, prompt string) (string, error)
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, prompt)
	}
	return "mocked llm response", nil
}

// MockEmbedder implements embedding.Embedder
type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, query string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string) ([][]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return m.OnGetEmbedding(ctx, query)
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	return m.OnBatchEmbedding(ctx, chunks)
}

// MockSemanticCache implements vectorDB.SemanticCache
type MockSemanticCache struct {
	OnGetCachedAnswer func(ctx context.Context, targetId string, vector []float32) (qaModel.Response, bool, error)
	OnSaveToCache     func(ctx context.Context, targetId string, vector []float32, resp qaModel.Response) error
}

func (m *MockSemanticCache) GetCachedAnswer(ctx context.Context, targetId string, v []float32) (qaModel.Response, bool, error) {
	if m.OnGetCachedAnswer != nil {
		return m.OnGetCachedAnswer(ctx, targetId, v)
	}
	return qaModel.Response{}, false, nil
}

func (m *MockSemanticCache) SaveToCache(ctx context.Context, targetId string, v []float32, resp qaModel.Response) error {
	if m.OnSaveToCache != nil {
		return m.OnSaveToCache(ctx, targetId, v, resp)
	}
	return nil
}

// MockRecordStore implements jobModel.DocumentRecordStore in memory
type MockRecordStore struct {
	mu      sync.Mutex
	records []commonModels.DocumentRecord
	OnList  func(ctx context.Context) ([]commonModels.DocumentRecord, error)
}

func (m *MockRecordStore) SaveRecord(ctx context.Context, record commonModels.DocumentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *MockRecordStore) ListRecords(ctx context.Context) ([]commonModels.DocumentRecord, error) {
	if m.OnList != nil {
		return m.OnList(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]commonModels.DocumentRecord(nil), m.records...), nil
}

func (m *MockRecordStore) DeleteRecord(ctx context.Context, docId string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.records {
		if r.DocId == docId {
			m.records = append(m.records[:i], m.records[i+1:]...)
			break
		}
	}
	return nil
}
