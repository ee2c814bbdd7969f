package docstore

import (
	"fmt"
	"sort"
	"sync"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/domain/qaModel"
	"github.com/akolanti/DocQA/internal/rag/citation"
	"github.com/akolanti/DocQA/internal/rag/vectorDB/flatIndex"
)

// entry is immutable once published; replacing a document swaps the pointer.
type entry struct {
	chunks    []string
	index     *flatIndex.Index
	metadata  commonModels.DocumentMetadata
	chunkMeta []commonModels.ChunkMetadata
}

// Store holds every ingested document. Readers see a document only after its
// chunks, index, metadata and citation metadata are all in place.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*entry
}

func New() *Store {
	return &Store{docs: make(map[string]*entry)}
}

// IngestDocument publishes a document in one step, replacing any prior entry.
// pages are the extracted page texts used for citation attribution; nil pages
// fall back to the coarse page estimate.
func (s *Store) IngestDocument(docId string, chunks []string, index *flatIndex.Index, metadata commonModels.DocumentMetadata, pages []string) error {
	if docId == "" {
		return fmt.Errorf("ingest document: empty id")
	}
	if index == nil {
		return fmt.Errorf("ingest document %s: nil index", docId)
	}
	if index.Count() != len(chunks) {
		return fmt.Errorf("ingest document %s: %d chunks but %d vectors", docId, len(chunks), index.Count())
	}

	e := &entry{
		chunks:    append([]string(nil), chunks...),
		index:     index,
		metadata:  metadata,
		chunkMeta: citation.BuildChunkMetadata(chunks, pages),
	}

	s.mu.Lock()
	s.docs[docId] = e
	s.mu.Unlock()
	return nil
}

func (s *Store) get(docId string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.docs[docId]
	if !ok {
		return nil, fmt.Errorf("%w: %s", qaModel.ErrDocumentNotFound, docId)
	}
	return e, nil
}

func (s *Store) Has(docId string) bool {
	_, err := s.get(docId)
	return err == nil
}

func (s *Store) GetChunks(docId string) ([]string, error) {
	e, err := s.get(docId)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), e.chunks...), nil
}

func (s *Store) GetIndex(docId string) (*flatIndex.Index, error) {
	e, err := s.get(docId)
	if err != nil {
		return nil, err
	}
	return e.index, nil
}

func (s *Store) GetMetadata(docId string) (commonModels.DocumentMetadata, error) {
	e, err := s.get(docId)
	if err != nil {
		return commonModels.DocumentMetadata{}, err
	}
	return e.metadata, nil
}

func (s *Store) GetChunkMetadata(docId string) ([]commonModels.ChunkMetadata, error) {
	e, err := s.get(docId)
	if err != nil {
		return nil, err
	}
	return append([]commonModels.ChunkMetadata(nil), e.chunkMeta...), nil
}

// Retrieve runs a k-NN search and maps hits back to chunk text. Positions outside
// the chunk list are dropped.
func (s *Store) Retrieve(docId string, query []float32, k int) ([]string, error) {
	e, err := s.get(docId)
	if err != nil {
		return nil, err
	}
	hits, err := e.index.Search(query, k)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		if h.Position >= 0 && h.Position < len(e.chunks) {
			out = append(out, e.chunks[h.Position])
		}
	}
	return out, nil
}

// EnhanceCitations returns no citations for an unknown document.
func (s *Store) EnhanceCitations(docId string, retrieved []string) []commonModels.Citation {
	e, err := s.get(docId)
	if err != nil {
		return []commonModels.Citation{}
	}
	return citation.Enhance(e.chunkMeta, retrieved)
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// ListDocuments returns summaries ordered by upload time, then id.
func (s *Store) ListDocuments() []commonModels.DocumentSummary {
	s.mu.RLock()
	out := make([]commonModels.DocumentSummary, 0, len(s.docs))
	for id, e := range s.docs {
		out = append(out, commonModels.DocumentSummary{
			DocId:      id,
			Filename:   e.metadata.Filename,
			Pages:      e.metadata.PagesCount,
			UploadTime: e.metadata.UploadTime,
			FileSizeKB: e.metadata.FileSizeKB,
			Chunks:     len(e.chunks),
		})
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].UploadTime.Equal(out[j].UploadTime) {
			return out[i].UploadTime.Before(out[j].UploadTime)
		}
		return out[i].DocId < out[j].DocId
	})
	return out
}
