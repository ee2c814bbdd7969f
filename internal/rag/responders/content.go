package responders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/qaModel"
	"github.com/akolanti/DocQA/internal/rag/collection"
)

// Content answers from retrieved chunks of the target document, or of the
// collection when no single document is bound.
func (h *Handlers) Content(ctx context.Context, req Request) (qaModel.Response, error) {
	switch {
	case req.DocId != "":
		return h.documentContent(ctx, req)
	case req.CollectionId != "":
		return h.MultiDocument(ctx, req)
	default:
		return qaModel.Response{
			Answer:       "Please upload a PDF document first, then ask me about its content.",
			ResponseType: qaModel.TypeContentNoDocument,
		}, nil
	}
}

func (h *Handlers) documentContent(ctx context.Context, req Request) (qaModel.Response, error) {
	filename := req.Doc.FilenameOr("your document")

	query, err := h.embedder.GetEmbedding(ctx, req.Question)
	if err != nil {
		return qaModel.Response{}, fmt.Errorf("embed question: %w", err)
	}
	retrieved, err := h.docs.Retrieve(req.DocId, query, config.ContentTopK)
	if err != nil {
		return qaModel.Response{}, err
	}

	if len(retrieved) == 0 {
		return qaModel.Response{
			Answer: fmt.Sprintf("I couldn't find relevant information about that in **%s**. "+
				"Would you like me to provide general information about this topic instead?", filename),
			ResponseType: qaModel.TypeContentNotFound,
			Sources:      []string{},
			Suggestion:   qaModel.SuggestionGeneralKnowledge,
		}, nil
	}

	if h.llm == nil {
		return qaModel.Response{
			Answer:       "I found relevant content but need the language model to generate an answer.",
			ResponseType: qaModel.TypeContentError,
			Sources:      retrieved,
		}, nil
	}

	prompt := fmt.Sprintf("You are %s, analyzing the document **%s**. "+
		"Answer the question using ONLY the provided context from the PDF. "+
		"If the answer isn't in the context, say so clearly. Be accurate and cite relevant details.\n\n"+
		"%sDocument context:\n%s\n\nQuestion: %s\nAnswer:",
		req.System.SystemName, req.Doc.FilenameOr("uploaded document"), earlierQuestions(req.RecentContext),
		strings.Join(retrieved, "\n\n"), req.Question)
	answer, ok := h.generate(ctx, "pdf_content", prompt)
	if !ok {
		answer = fmt.Sprintf("I found relevant content in %s but encountered an error generating the response.", filename)
	}

	return qaModel.Response{
		Answer:       answer,
		ResponseType: qaModel.TypeContent,
		Sources:      retrieved,
		DocumentInfo: &qaModel.DocumentInfo{
			Filename:   req.Doc.Filename,
			Pages:      req.Doc.PagesCount,
			ChunksUsed: len(retrieved),
		},
	}, nil
}

// MultiDocument prefers the combined collection index and falls back to asking
// the first few member documents one by one.
func (h *Handlers) MultiDocument(ctx context.Context, req Request) (qaModel.Response, error) {
	docIds, err := h.collections.DocIds(req.CollectionId)
	if err != nil {
		return qaModel.Response{
			Answer:       "Collection not found for multi-document search.",
			ResponseType: qaModel.TypeCollectionError,
			Sources:      []string{},
		}, nil
	}
	log := h.logger.WithTrace(ctx).With("collectionId", req.CollectionId)

	query, err := h.embedder.GetEmbedding(ctx, req.Question)
	if err != nil {
		return qaModel.Response{}, fmt.Errorf("embed question: %w", err)
	}

	hits, err := h.collections.SearchCollection(req.CollectionId, query, config.CollectionTopK)
	if err != nil {
		if !errors.Is(err, qaModel.ErrCombinedIndexUnavailable) {
			log.Warn("combined search failed, searching documents one by one", "error", err)
		}
		return h.perDocument(ctx, req, docIds)
	}
	return h.combined(ctx, req, docIds, hits)
}

func (h *Handlers) filename(docId string) string {
	meta, err := h.docs.GetMetadata(docId)
	if err != nil || meta.Filename == "" {
		return "Unknown"
	}
	return meta.Filename
}

func (h *Handlers) combined(ctx context.Context, req Request, docIds []string, hits []collection.Hit) (qaModel.Response, error) {
	if len(hits) == 0 {
		return qaModel.Response{
			Answer:       fmt.Sprintf("I couldn't find relevant information in the %d documents of this collection.", len(docIds)),
			ResponseType: qaModel.TypeMultiDocNotFound,
			Sources:      []string{},
			CollectionInfo: &qaModel.CollectionInfo{
				CollectionId:  req.CollectionId,
				DocumentCount: len(docIds),
			},
		}, nil
	}

	contextParts := make([]string, 0, len(hits))
	sources := make([]qaModel.MultiDocSource, 0, len(hits))
	texts := make([]string, 0, len(hits))
	for _, hit := range hits {
		name := h.filename(hit.DocId)
		contextParts = append(contextParts, fmt.Sprintf("[%s]: %s", name, hit.Text))
		sources = append(sources, qaModel.MultiDocSource{Text: hit.Text, DocId: hit.DocId, Filename: name, Distance: hit.Distance})
		texts = append(texts, hit.Text)
	}

	if h.llm == nil {
		return qaModel.Response{
			Answer:          "Found relevant content across multiple documents but need language model to generate answer.",
			ResponseType:    qaModel.TypeMultiDocError,
			Sources:         texts,
			MultiDocSources: sources,
		}, nil
	}

	prompt := fmt.Sprintf("You are %s, analyzing %d documents in a collection. "+
		"Answer the question using the provided context from multiple PDF documents. "+
		"When citing information, mention which document it comes from. "+
		"If the answer spans multiple documents, synthesize the information clearly.\n\n"+
		"%sMulti-document context:\n%s\n\nQuestion: %s\nAnswer:",
		req.System.SystemName, len(docIds), earlierQuestions(req.RecentContext),
		strings.Join(contextParts, "\n\n"), req.Question)
	answer, ok := h.generate(ctx, "multi_document", prompt)
	if !ok {
		answer = fmt.Sprintf("I found relevant content across %d documents but encountered an error generating the response.", len(hits))
	}

	return qaModel.Response{
		Answer:          answer,
		ResponseType:    qaModel.TypeMultiDocContent,
		Sources:         texts,
		MultiDocSources: sources,
		CollectionInfo: &qaModel.CollectionInfo{
			CollectionId:      req.CollectionId,
			DocumentsSearched: len(docIds),
			SourcesFound:      len(hits),
		},
	}, nil
}

func (h *Handlers) perDocument(ctx context.Context, req Request, docIds []string) (qaModel.Response, error) {
	log := h.logger.WithTrace(ctx).With("collectionId", req.CollectionId)

	var results []qaModel.DocumentResult
	for _, docId := range docIds[:min(len(docIds), config.CollectionFallbackDocs)] {
		sub := req
		sub.DocId = docId
		sub.CollectionId = ""
		sub.Doc = h.contexts.Document(docId)

		resp, err := h.documentContent(ctx, sub)
		if err != nil {
			log.Warn("document search failed", "docId", docId, "error", err)
			continue
		}
		if len(resp.Sources) == 0 {
			continue
		}
		results = append(results, qaModel.DocumentResult{
			DocId:    docId,
			Filename: h.filename(docId),
			Answer:   resp.Answer,
			Sources:  resp.Sources,
		})
	}

	if len(results) == 0 {
		return qaModel.Response{
			Answer:       fmt.Sprintf("I couldn't find relevant information in any of the %d documents.", len(docIds)),
			ResponseType: qaModel.TypeMultiDocFallbackMissing,
			Sources:      []string{},
		}, nil
	}

	var sources []string
	for _, r := range results {
		sources = append(sources, r.Sources...)
	}

	if h.llm == nil {
		var b strings.Builder
		fmt.Fprintf(&b, "Found information in %d documents:\n\n", len(results))
		for _, r := range results {
			fmt.Fprintf(&b, "**%s**: %s\n\n", r.Filename, r.Answer)
		}
		return qaModel.Response{
			Answer:       b.String(),
			ResponseType: qaModel.TypeMultiDocSimple,
			Sources:      sources,
			CollectionInfo: &qaModel.CollectionInfo{
				CollectionId:   req.CollectionId,
				DocumentsFound: len(results),
			},
		}, nil
	}

	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, fmt.Sprintf("From %s: %s", r.Filename, r.Answer))
	}
	prompt := fmt.Sprintf("You are %s, synthesizing findings from multiple documents. "+
		"The user asked: '%s'. I searched %d documents and found relevant information. "+
		"Synthesize the following findings into a coherent answer:\n\n%s\n\nSynthesized answer:",
		req.System.SystemName, req.Question, len(docIds), strings.Join(parts, "\n\n"))
	answer, ok := h.generate(ctx, "multi_document", prompt)
	if !ok {
		answer = fmt.Sprintf("Found information in %d documents but couldn't synthesize the results.", len(results))
	}

	return qaModel.Response{
		Answer:          answer,
		ResponseType:    qaModel.TypeMultiDocFallback,
		Sources:         sources,
		DocumentResults: results,
		CollectionInfo: &qaModel.CollectionInfo{
			CollectionId:      req.CollectionId,
			DocumentsSearched: len(docIds),
			DocumentsFound:    len(results),
		},
	}, nil
}

func earlierQuestions(recent string) string {
	if recent == "" {
		return ""
	}
	return "Earlier questions in this conversation:\n" + recent + "\n\n"
}
