package contextManager

import (
	"math"
	"time"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/domain/qaModel"
)

const (
	SystemName    = "DocSpotlight"
	SystemVersion = "1.0.0"

	DateLayout   = "January 02, 2006"
	TimeLayout   = "03:04 PM"
	UploadLayout = "2006-01-02 03:04 PM"
)

var capabilities = []string{
	"PDF document analysis and Q&A",
	"General knowledge assistance",
	"Document metadata queries",
	"Conversational AI assistance",
}

type DocumentSource interface {
	GetMetadata(docId string) (commonModels.DocumentMetadata, error)
	GetChunks(docId string) ([]string, error)
}

type CollectionSource interface {
	DocIds(id string) ([]string, error)
}

type Manager struct {
	docs        DocumentSource
	collections CollectionSource
	now         func() time.Time
}

func New(docs DocumentSource, collections CollectionSource) *Manager {
	return &Manager{docs: docs, collections: collections, now: time.Now}
}

func (m *Manager) System() qaModel.SystemContext {
	now := m.now()
	return qaModel.SystemContext{
		CurrentDate:  now.Format(DateLayout),
		CurrentTime:  now.Format(TimeLayout),
		SystemName:   SystemName,
		Capabilities: append([]string(nil), capabilities...),
		Version:      SystemVersion,
	}
}

// Document returns an empty context for an unknown id.
func (m *Manager) Document(docId string) qaModel.DocContext {
	meta, err := m.docs.GetMetadata(docId)
	if err != nil {
		return qaModel.DocContext{}
	}
	chunks, _ := m.docs.GetChunks(docId)
	filename := meta.Filename
	if filename == "" {
		filename = "Unknown"
	}
	return qaModel.DocContext{
		DocumentId:  docId,
		Filename:    filename,
		PagesCount:  meta.PagesCount,
		ChunksCount: len(chunks),
		UploadTime:  meta.UploadTime.Format(UploadLayout),
		FileSizeKB:  math.Round(meta.FileSizeKB*100) / 100,
	}
}

func (m *Manager) Collection(collectionId string) qaModel.DocContext {
	ids, err := m.collections.DocIds(collectionId)
	if err != nil {
		return qaModel.DocContext{}
	}
	total := 0
	for _, id := range ids {
		chunks, _ := m.docs.GetChunks(id)
		total += len(chunks)
	}
	return qaModel.DocContext{
		CollectionId:  collectionId,
		DocumentCount: len(ids),
		TotalChunks:   total,
	}
}

// For builds the context of a question target; a document id wins over a collection id.
func (m *Manager) For(target qaModel.Target) qaModel.DocContext {
	switch {
	case target.DocId != "":
		return m.Document(target.DocId)
	case target.CollectionId != "":
		return m.Collection(target.CollectionId)
	default:
		return qaModel.DocContext{}
	}
}
