package collection

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/DocQA/internal/domain/qaModel"
	"github.com/akolanti/DocQA/internal/rag/vectorDB/flatIndex"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

var ErrNoDocuments = errors.New("collection needs at least one document")

// DocumentSource is the read side of the document store a collection is built from.
type DocumentSource interface {
	GetIndex(docId string) (*flatIndex.Index, error)
	GetChunks(docId string) ([]string, error)
}

type Hit struct {
	DocId      string  `json:"doc_id"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"chunk"`
	Distance   float32 `json:"distance"`
}

type Info struct {
	Id          string    `json:"collection_id"`
	Name        string    `json:"name"`
	DocIds      []string  `json:"doc_ids"`
	VectorCount int       `json:"vector_count"`
	Searchable  bool      `json:"searchable"`
	CreatedAt   time.Time `json:"created_at"`
}

// collection is immutable once published. vectorToDoc, localIndex and chunkText
// are parallel to the combined index positions.
type collection struct {
	id          string
	name        string
	docIds      []string
	index       *flatIndex.Index
	vectorToDoc []string
	localIndex  []int
	chunkText   []string
	createdAt   time.Time
}

type Manager struct {
	mu          sync.RWMutex
	collections map[string]*collection
	docs        DocumentSource
	logger      *logger_i.Logger
	now         func() time.Time
}

func NewManager(docs DocumentSource) *Manager {
	return &Manager{
		collections: make(map[string]*collection),
		docs:        docs,
		logger:      logger_i.NewLogger("collection_manager"),
		now:         time.Now,
	}
}

// CollectionId is the first 12 hex characters of md5(name + "_" + sorted ids joined by "-").
func CollectionId(name string, docIds []string) string {
	sorted := append([]string(nil), docIds...)
	sort.Strings(sorted)
	sum := md5.Sum([]byte(name + "_" + strings.Join(sorted, "-")))
	return hex.EncodeToString(sum[:])[:12]
}

// CreateCollection builds the combined index over member vectors in the order given
// and publishes it under a deterministic id, replacing any prior build.
func (m *Manager) CreateCollection(name string, docIds []string) (string, error) {
	if len(docIds) == 0 {
		return "", ErrNoDocuments
	}

	c := &collection{
		id:        CollectionId(name, docIds),
		name:      name,
		docIds:    append([]string(nil), docIds...),
		createdAt: m.now(),
	}

	var vectors [][]float32
	for _, docId := range docIds {
		idx, err := m.docs.GetIndex(docId)
		if err != nil {
			return "", err
		}
		chunks, err := m.docs.GetChunks(docId)
		if err != nil {
			return "", err
		}
		docVectors := idx.ReconstructAll()
		for local, v := range docVectors {
			vectors = append(vectors, v)
			c.vectorToDoc = append(c.vectorToDoc, docId)
			c.localIndex = append(c.localIndex, local)
			text := ""
			if local < len(chunks) {
				text = chunks[local]
			}
			c.chunkText = append(c.chunkText, text)
		}
	}

	if len(vectors) > 0 {
		combined, err := flatIndex.Build(vectors)
		if err != nil {
			// members embedded in different vector spaces; searches fall back per document
			m.logger.Warn("combined index unavailable", "collection", c.id, "error", err)
		} else {
			c.index = combined
		}
	}

	m.mu.Lock()
	m.collections[c.id] = c
	m.mu.Unlock()
	m.logger.Info("collection created", "collection", c.id, "documents", len(docIds), "vectors", len(vectors))
	return c.id, nil
}

func (m *Manager) get(id string) (*collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.collections[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", qaModel.ErrCollectionNotFound, id)
	}
	return c, nil
}

func (m *Manager) Has(id string) bool {
	_, err := m.get(id)
	return err == nil
}

// DocIds returns the member ids in their original order.
func (m *Manager) DocIds(id string) ([]string, error) {
	c, err := m.get(id)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), c.docIds...), nil
}

func (m *Manager) GetCollection(id string) (Info, error) {
	c, err := m.get(id)
	if err != nil {
		return Info{}, err
	}
	return c.info(), nil
}

func (m *Manager) ListCollections() []Info {
	m.mu.RLock()
	out := make([]Info, 0, len(m.collections))
	for _, c := range m.collections {
		out = append(out, c.info())
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections)
}

// SearchCollection returns at most k hits from the combined index, each resolved to
// its owning document and local chunk. ErrCombinedIndexUnavailable tells the caller
// to search member documents one by one.
func (m *Manager) SearchCollection(id string, query []float32, k int) ([]Hit, error) {
	c, err := m.get(id)
	if err != nil {
		return nil, err
	}
	if c.index == nil {
		return nil, qaModel.ErrCombinedIndexUnavailable
	}
	hits, err := c.index.Search(query, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", qaModel.ErrCombinedIndexUnavailable, err)
	}
	out := make([]Hit, 0, len(hits))
	for _, h := range hits {
		if h.Position < 0 || h.Position >= len(c.vectorToDoc) {
			continue
		}
		out = append(out, Hit{
			DocId:      c.vectorToDoc[h.Position],
			ChunkIndex: c.localIndex[h.Position],
			Text:       c.chunkText[h.Position],
			Distance:   h.Distance,
		})
	}
	return out, nil
}

func (c *collection) info() Info {
	return Info{
		Id:          c.id,
		Name:        c.name,
		DocIds:      append([]string(nil), c.docIds...),
		VectorCount: len(c.vectorToDoc),
		Searchable:  c.index != nil,
		CreatedAt:   c.createdAt,
	}
}
