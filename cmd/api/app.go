package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/data/blobStore"
	"github.com/akolanti/DocQA/internal/data/store"
	"github.com/akolanti/DocQA/internal/domain/jobModel"
	"github.com/akolanti/DocQA/internal/rag"
	"github.com/akolanti/DocQA/internal/rag/embedding"
	"github.com/akolanti/DocQA/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/DocQA/internal/rag/embedding/hashEmbedding"
	"github.com/akolanti/DocQA/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/DocQA/internal/rag/llm"
	"github.com/akolanti/DocQA/internal/rag/llm/gemini"
	"github.com/akolanti/DocQA/internal/rag/llm/openaiLLM"
	"github.com/akolanti/DocQA/internal/rag/vectorDB"
	"github.com/akolanti/DocQA/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

var errRedisRequired = errors.New("redis is offline and the in-memory fallback is disabled")

// app is everything both subcommands share: the engine and its stores.
type app struct {
	engine       *rag.Engine
	jobStore     jobModel.JobStore
	messageStore jobModel.MessageStore
	closers      []func() error
}

func buildApp(ctx context.Context, settings *config.Settings, logger *logger_i.Logger) (*app, error) {
	a := &app{}

	embedder := newEmbedder(ctx, settings, logger)
	provider := newLLM(ctx, settings, logger)

	var semantic vectorDB.SemanticCache
	if qdrant := qdrantDB.GetQdrantClient(ctx, settings.Qdrant, settings.Embedding.Dimension); qdrant != nil {
		semantic = qdrant
	}

	blobs, err := blobStore.New(settings.Storage.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("open upload dir: %w", err)
	}

	var records jobModel.DocumentRecordStore
	if redisRecords := store.GetRedisDocumentRecordStore(ctx, settings.Redis); redisRecords != nil {
		records = redisRecords
	} else if config.FALLBACK_REDIS_TO_INTERNALSTORE {
		logger.Warn("Document records kept in memory, uploads will not survive a restart")
		records = store.InitInMemoryDocumentRecordStore()
	} else {
		return nil, errRedisRequired
	}

	if err := a.initJobStores(ctx, settings, logger); err != nil {
		return nil, err
	}

	a.engine = rag.NewEngine(rag.Deps{
		LLM:           provider,
		Embedder:      embedder,
		SemanticCache: semantic,
		Blobs:         blobs,
		Records:       records,
	})

	restored, err := a.engine.Restore(ctx)
	if err != nil {
		logger.Error("Could not restore documents", "error", err)
	}
	logger.Info("Engine ready",
		"embedding", settings.Embedding.Provider,
		"llm", settings.LLM.Provider,
		"llmAvailable", provider != nil,
		"semanticCache", semantic != nil,
		"restoredDocuments", restored)
	return a, nil
}

func (a *app) initJobStores(ctx context.Context, settings *config.Settings, logger *logger_i.Logger) error {
	if jobs := store.GetRedisJobStore(ctx, settings.Redis); jobs != nil {
		a.jobStore = jobs
	} else if config.FALLBACK_REDIS_TO_INTERNALSTORE {
		logger.Error("Redis job store offline, using in-memory store")
		a.jobStore = store.InitInMemoryJobStore()
	} else {
		return errRedisRequired
	}

	switch settings.Storage.MessageStore {
	case config.MessageStoreSqlite:
		sqlite, err := store.NewSQLiteMessageStore(settings.Storage.SqlitePath)
		if err != nil {
			return fmt.Errorf("open transcript db: %w", err)
		}
		a.messageStore = sqlite
		a.closers = append(a.closers, sqlite.Close)
	case config.MessageStoreMemory:
		a.messageStore = store.InitMessageStore()
	default:
		if messages := store.GetRedisMessageStore(ctx, settings.Redis); messages != nil {
			a.messageStore = messages
		} else if config.FALLBACK_REDIS_TO_INTERNALSTORE {
			logger.Error("Redis message store offline, using in-memory store")
			a.messageStore = store.InitMessageStore()
		} else {
			return errRedisRequired
		}
	}
	return nil
}

func (a *app) close(logger *logger_i.Logger) {
	for _, c := range a.closers {
		if err := c(); err != nil {
			logger.Error("Error closing store", "error", err)
		}
	}
}

// newEmbedder wraps the semantic embedder so that any failure falls back to the hash embedder.
func newEmbedder(ctx context.Context, settings *config.Settings, logger *logger_i.Logger) embedding.Embedder {
	fallback := hashEmbedding.New(settings.Embedding.Dimension)

	var primary embedding.Embedder
	switch settings.Embedding.Provider {
	case config.ProviderGoogle:
		primary = googleEmbedding.GetGoogleEmbeddingClient(ctx, settings.Embedding.Model, settings.GoogleAPIKey, settings.Embedding.Dimension)
	case config.ProviderOpenAI:
		primary = openaiEmbedding.GetOpenAIEmbeddingClient(settings.Embedding.Model, settings.OpenAIAPIKey, settings.Embedding.Dimension)
	}
	if primary == nil {
		logger.Warn("Using deterministic embeddings only", "provider", settings.Embedding.Provider)
		return fallback
	}
	return embedding.WithFallback(primary, fallback)
}

// newLLM returns nil when no model is configured; handlers then answer without generation.
func newLLM(ctx context.Context, settings *config.Settings, logger *logger_i.Logger) llm.Provider {
	switch settings.LLM.Provider {
	case config.ProviderGoogle:
		return gemini.GetGeminiClient(ctx, settings.LLM.Model, settings.GoogleAPIKey, settings.LLM.Temperature)
	case config.ProviderOpenAI:
		return openaiLLM.GetOpenAIClient(settings.LLM.Model, settings.OpenAIAPIKey, settings.LLM.Temperature)
	}
	logger.Warn("No language model configured", "provider", settings.LLM.Provider)
	return nil
}
