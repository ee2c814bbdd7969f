// Package responders holds one answering strategy per question category.
// Responders degrade to fixed answers when the language model is missing or
// fails; an error return means the target itself could not be read.
package responders

import (
	"context"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/domain/qaModel"
	"github.com/akolanti/DocQA/internal/metrics"
	"github.com/akolanti/DocQA/internal/rag/collection"
	"github.com/akolanti/DocQA/internal/rag/embedding"
	"github.com/akolanti/DocQA/internal/rag/llm"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

type Request struct {
	Question     string
	DocId        string
	CollectionId string
	System       qaModel.SystemContext
	Doc          qaModel.DocContext
	// RecentContext lists earlier questions of the session, set only for follow-ups.
	RecentContext string
}

type Responder interface {
	Respond(ctx context.Context, req Request) (qaModel.Response, error)
}

type ResponderFunc func(ctx context.Context, req Request) (qaModel.Response, error)

func (f ResponderFunc) Respond(ctx context.Context, req Request) (qaModel.Response, error) {
	return f(ctx, req)
}

// Registry maps each category to exactly one responder.
type Registry struct {
	Conversational Responder
	Personal       Responder
	PDFMeta        Responder
	General        Responder
	PDFContent     Responder
}

// For returns false for an unknown category or an unset slot.
func (r Registry) For(c qaModel.Category) (Responder, bool) {
	var h Responder
	switch c {
	case qaModel.Conversational:
		h = r.Conversational
	case qaModel.Personal:
		h = r.Personal
	case qaModel.PDFMeta:
		h = r.PDFMeta
	case qaModel.General:
		h = r.General
	case qaModel.PDFContent:
		h = r.PDFContent
	}
	return h, h != nil
}

type Documents interface {
	Retrieve(docId string, query []float32, k int) ([]string, error)
	GetMetadata(docId string) (commonModels.DocumentMetadata, error)
}

type Collections interface {
	DocIds(id string) ([]string, error)
	SearchCollection(id string, query []float32, k int) ([]collection.Hit, error)
}

type DocContexts interface {
	Document(docId string) qaModel.DocContext
}

type Handlers struct {
	llm         llm.Provider
	embedder    embedding.Embedder
	docs        Documents
	collections Collections
	contexts    DocContexts
	logger      *logger_i.Logger
}

// New wires the handlers. provider may be nil; embedder should already carry
// its deterministic fallback.
func New(provider llm.Provider, embedder embedding.Embedder, docs Documents, collections Collections, contexts DocContexts) *Handlers {
	return &Handlers{
		llm:         provider,
		embedder:    embedder,
		docs:        docs,
		collections: collections,
		contexts:    contexts,
		logger:      logger_i.NewLogger("responders"),
	}
}

func (h *Handlers) Registry() Registry {
	return Registry{
		Conversational: ResponderFunc(h.Conversational),
		Personal:       ResponderFunc(h.Personal),
		PDFMeta:        ResponderFunc(h.PDFMeta),
		General:        ResponderFunc(h.General),
		PDFContent:     ResponderFunc(h.Content),
	}
}

// generate returns ok=false when there is no model or the call failed.
func (h *Handlers) generate(ctx context.Context, component, prompt string) (string, bool) {
	if h.llm == nil {
		return "", false
	}
	answer, err := h.llm.Generate(ctx, prompt)
	if err != nil {
		h.logger.WithTrace(ctx).Warn("generation failed", "component", component, "error", err)
		metrics.IncrementGenerationFailure(component)
		return "", false
	}
	return answer, true
}
