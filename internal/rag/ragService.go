package rag

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/data/blobStore"
	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/domain/jobModel"
	"github.com/akolanti/DocQA/internal/domain/qaModel"
	"github.com/akolanti/DocQA/internal/metrics"
	"github.com/akolanti/DocQA/internal/rag/classifier"
	"github.com/akolanti/DocQA/internal/rag/collection"
	"github.com/akolanti/DocQA/internal/rag/contextManager"
	"github.com/akolanti/DocQA/internal/rag/conversation"
	"github.com/akolanti/DocQA/internal/rag/docstore"
	"github.com/akolanti/DocQA/internal/rag/embedding"
	"github.com/akolanti/DocQA/internal/rag/ingest"
	"github.com/akolanti/DocQA/internal/rag/llm"
	"github.com/akolanti/DocQA/internal/rag/responders"
	"github.com/akolanti/DocQA/internal/rag/responseCache"
	"github.com/akolanti/DocQA/internal/rag/router"
	"github.com/akolanti/DocQA/internal/rag/vectorDB"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

/*
The worker pool only sees Service. Everything that answers, ingests or lists
lives on Engine, which owns every in-memory store and is shared by the HTTP
handlers, the MCP server and the workers.
*/

// Service Worker will only call this service - it doesn't need to know the stores or the llm
type Service interface {
	ProcessRequest(ctx context.Context, job jobModel.Job) jobModel.Job
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
}

const (
	endpointChat       = "chat"
	endpointUpload     = "upload"
	endpointCollection = "create_collection"
	defaultSession     = "default"
)

// Deps are the external collaborators. LLM and SemanticCache may be nil.
// Embedder should already carry its deterministic fallback.
type Deps struct {
	LLM           llm.Provider
	Embedder      embedding.Embedder
	SemanticCache vectorDB.SemanticCache
	Blobs         *blobStore.Store
	Records       jobModel.DocumentRecordStore
}

type Engine struct {
	docs          *docstore.Store
	collections   *collection.Manager
	contexts      *contextManager.Manager
	classifier    *classifier.Classifier
	conversations *conversation.Manager
	router        *router.Router
	registry      responders.Registry
	cache         *responseCache.Cache
	monitor       *metrics.Monitor
	ingestor      *ingest.Ingestor
	embedder      embedding.Embedder
	semantic      vectorDB.SemanticCache
	blobs         *blobStore.Store
	records       jobModel.DocumentRecordStore
	logger        *logger_i.Logger
	now           func() time.Time

	handleMu sync.RWMutex
	handles  map[string]string
}

// NewEngine constructor
func NewEngine(deps Deps) *Engine {
	docs := docstore.New()
	collections := collection.NewManager(docs)
	contexts := contextManager.New(docs, collections)
	return &Engine{
		docs:          docs,
		collections:   collections,
		contexts:      contexts,
		classifier:    classifier.New(deps.LLM),
		conversations: conversation.NewManager(),
		router:        router.New(deps.LLM),
		registry:      responders.New(deps.LLM, deps.Embedder, docs, collections, contexts).Registry(),
		cache:         responseCache.New(),
		monitor:       metrics.NewMonitor(),
		ingestor:      ingest.New(deps.Embedder),
		embedder:      deps.Embedder,
		semantic:      deps.SemanticCache,
		blobs:         deps.Blobs,
		records:       deps.Records,
		logger:        logger_i.NewLogger("RAG Engine"),
		now:           time.Now,
		handles:       make(map[string]string),
	}
}

// ValidateTarget fails with a NotFound error when the request names an unknown document or collection.
func (e *Engine) ValidateTarget(target qaModel.Target) error {
	if target.DocId != "" && !e.docs.Has(target.DocId) {
		return qaModel.ErrDocumentNotFound
	}
	if target.CollectionId != "" && !e.collections.Has(target.CollectionId) {
		return qaModel.ErrCollectionNotFound
	}
	return nil
}

// Ask answers one question. Only an empty question or an unknown target is an error;
// every other failure comes back as a typed response.
func (e *Engine) Ask(ctx context.Context, req qaModel.ChatRequest) (qaModel.Response, error) {
	start := e.monitor.StartTimer(endpointChat)
	defer e.monitor.EndTimer(endpointChat, start)
	log := e.logger.WithTrace(ctx)

	question := strings.TrimSpace(req.Question)
	if question == "" {
		e.monitor.RecordError(endpointChat, "empty_question")
		return qaModel.Response{}, qaModel.ErrEmptyQuestion
	}
	target := req.Target()
	if err := e.ValidateTarget(target); err != nil {
		e.monitor.RecordError(endpointChat, "not_found")
		return qaModel.Response{}, err
	}

	system := e.contexts.System()
	doc := e.contexts.For(target)
	classification := e.classifier.Classify(ctx, question, doc)
	log.Debug("question classified", "category", classification.Category, "confidence", classification.Confidence, "reasoning", classification.Reasoning)

	if req.EnableCache {
		if resp, ok := e.cache.Get(question, target.Id(), classification.Category); ok {
			e.monitor.RecordCacheHit("response")
			resp.Cached = true
			return resp, nil
		}
	}

	var queryVector []float32
	if e.semanticEligible(req, classification) {
		queryVector = e.embedQuestion(ctx, question)
		if resp, ok := e.semanticLookup(ctx, target.Id(), queryVector); ok {
			e.monitor.RecordCacheHit("semantic")
			resp.Cached = true
			return resp, nil
		}
	}

	sessionId := sessionFor(req)
	followUp := e.conversations.DetectFollowUp(question, sessionId)
	decision := e.router.ShouldUseHybrid(classification, question, followUp)

	handlerReq := responders.Request{
		Question:     question,
		DocId:        target.DocId,
		CollectionId: target.CollectionId,
		System:       system,
		Doc:          doc,
	}
	if followUp.IsFollowUp {
		handlerReq.RecentContext = e.conversations.GetRecentContext(sessionId, config.RecentContextTurns)
	}
	resp := e.dispatch(ctx, decision, classification.Category, handlerReq)

	resp.Sources = capSources(resp.Sources, req.MaxSources)
	if target.DocId != "" && len(resp.Sources) > 0 {
		resp.EnhancedCitations = e.docs.EnhanceCitations(target.DocId, resp.Sources)
	}

	e.conversations.RecordTurn(sessionId, question, classification.Category, resp, classification)
	resp.Classification = &classification
	resp.SessionId = sessionId
	resp.FollowUpDetected = followUp.IsFollowUp
	resp.RoutingDecision = &decision
	resp.ConversationTurn = len(e.conversations.Turns(sessionId))
	resp.Timestamp = e.now()
	resp.DocId = target.DocId
	resp.CollectionId = target.CollectionId
	resp.Cached = false

	if req.EnableCache && e.cache.Put(question, target.Id(), classification.Category, resp) && queryVector != nil {
		e.semanticSave(ctx, target.Id(), queryVector, resp)
	}
	return resp, nil
}

func (e *Engine) dispatch(ctx context.Context, decision qaModel.RoutingDecision, category qaModel.Category, req responders.Request) qaModel.Response {
	if decision.UseHybrid {
		return e.router.GenerateHybrid(ctx, decision.Handlers, req, e.registry)
	}

	primary := decision.PrimaryHandler
	if primary == "" {
		primary = category
	}
	handler, ok := e.registry.For(primary)
	if !ok {
		handler = e.registry.General
	}
	resp, err := handler.Respond(ctx, req)
	if err != nil {
		// the target was validated, so this is a race with a rebuild or an embedding failure
		e.logger.WithTrace(ctx).Error("handler failed", "handler", primary, "error", err)
		e.monitor.RecordError(endpointChat, "handler_failure")
		return handlerFailure(primary, req)
	}
	return resp
}

// handlerFailure types the error after the handler that failed and what it was searching.
func handlerFailure(category qaModel.Category, req responders.Request) qaModel.Response {
	switch {
	case category == qaModel.PDFContent && req.DocId != "":
		return qaModel.Response{
			Answer:       "I encountered an error while searching the document. Please try again.",
			ResponseType: qaModel.TypeContentError,
		}
	case category == qaModel.PDFContent && req.CollectionId != "":
		return qaModel.Response{
			Answer:       "I encountered an error while searching the collection. Please try again.",
			ResponseType: qaModel.TypeMultiDocError,
			Sources:      []string{},
		}
	default:
		return qaModel.Response{
			Answer:       "I encountered an error while answering. Please try again.",
			ResponseType: qaModel.TypeHandlerError,
		}
	}
}

func (e *Engine) CreateCollection(ctx context.Context, name string, docIds []string) (collection.Info, error) {
	start := e.monitor.StartTimer(endpointCollection)
	defer e.monitor.EndTimer(endpointCollection, start)

	id, err := e.collections.CreateCollection(name, docIds)
	if err != nil {
		kind := "invalid"
		if errors.Is(err, qaModel.ErrDocumentNotFound) {
			kind = "not_found"
		}
		e.monitor.RecordError(endpointCollection, kind)
		return collection.Info{}, err
	}
	metrics.SetCollections(e.collections.Count())
	e.logger.WithTrace(ctx).Info("collection ready", "collection", id, "documents", len(docIds))
	return e.collections.GetCollection(id)
}

func (e *Engine) GetCollection(id string) (collection.Info, error) {
	return e.collections.GetCollection(id)
}

func (e *Engine) ListCollections() []collection.Info {
	return e.collections.ListCollections()
}

func (e *Engine) ListDocuments() []commonModels.DocumentSummary {
	return e.docs.ListDocuments()
}

// PerformanceReport is the observational snapshot served by the performance endpoint.
type PerformanceReport struct {
	Endpoints          map[string]metrics.EndpointSummary `json:"endpoints"`
	CacheSize          int                                `json:"cache_size"`
	CacheHits          map[string]int                     `json:"cache_hits"`
	ErrorCounts        map[string]int                     `json:"error_counts"`
	DocumentsLoaded    int                                `json:"documents_loaded"`
	CollectionsCreated int                                `json:"collections_created"`
	ActiveSessions     int                                `json:"active_sessions"`
}

func (e *Engine) Performance() PerformanceReport {
	return PerformanceReport{
		Endpoints:          e.monitor.Summary(),
		CacheSize:          e.cache.Len(),
		CacheHits:          e.monitor.CacheHits(),
		ErrorCounts:        e.monitor.ErrorCounts(),
		DocumentsLoaded:    e.docs.Count(),
		CollectionsCreated: e.collections.Count(),
		ActiveSessions:     e.conversations.SessionCount(),
	}
}

// ClearCache empties the exact response cache and returns how many entries were dropped.
func (e *Engine) ClearCache() int {
	n := e.cache.Clear()
	e.logger.Info("response cache cleared", "entries", n)
	return n
}

func sessionFor(req qaModel.ChatRequest) string {
	for _, id := range []string{req.SessionId, req.DocId, req.CollectionId} {
		if id != "" {
			return id
		}
	}
	return defaultSession
}

func capSources(sources []string, maxSources int) []string {
	if maxSources <= 0 {
		maxSources = config.DefaultMaxSources
	}
	if len(sources) > maxSources {
		return sources[:maxSources]
	}
	return sources
}
