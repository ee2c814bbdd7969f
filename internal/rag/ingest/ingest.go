// Package ingest turns a stored file into chunks and a vector index ready to
// publish in the document store.
package ingest

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/domain/qaModel"
	"github.com/akolanti/DocQA/internal/metrics"
	"github.com/akolanti/DocQA/internal/rag/embedding"
	"github.com/akolanti/DocQA/internal/rag/vectorDB/flatIndex"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

var logger = logger_i.NewLogger("Document Ingestion")

// Source is one file on local disk waiting to be ingested.
type Source struct {
	Path       string
	Filename   string
	SizeBytes  int64
	UploadTime time.Time
}

type Result struct {
	Chunks   []string
	Pages    []string
	Index    *flatIndex.Index
	Metadata commonModels.DocumentMetadata
}

type Ingestor struct {
	embedder  embedding.Embedder
	chunkSize int
	overlap   int
	batchSize int
}

// New expects an embedder that already carries its deterministic fallback.
func New(embedder embedding.Embedder) *Ingestor {
	return &Ingestor{
		embedder:  embedder,
		chunkSize: config.ChunkSize,
		overlap:   config.ChunkOverlap,
		batchSize: config.EmbedBatchSize,
	}
}

// Build extracts, chunks and embeds src. Nothing is published.
func (in *Ingestor) Build(ctx context.Context, src Source) (Result, error) {
	log := logger.WithTrace(ctx).With("filename", src.Filename)
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	docType := commonModels.DocTypeFromName(src.Filename)
	if docType == commonModels.ERR {
		return Result{}, fmt.Errorf("%w: %s", qaModel.ErrUnsupportedDocument, src.Filename)
	}

	pages, err := extractText(ctx, src.Path, docType)
	if err != nil {
		return Result{}, err
	}
	log.Debug("extracted document", "pages", len(pages))

	chunks := splitTextIntoChunks(strings.Join(pages, "\n"), in.chunkSize, in.overlap)
	if len(chunks) == 0 {
		return Result{}, qaModel.ErrEmptyDocument
	}
	log.Debug("chunked document", "chunks", len(chunks))

	vectors, err := in.BatchIngest(ctx, chunks)
	if err != nil {
		return Result{}, err
	}
	index, err := flatIndex.Build(vectors)
	if err != nil {
		return Result{}, fmt.Errorf("build index: %w", err)
	}

	return Result{
		Chunks: chunks,
		Pages:  pages,
		Index:  index,
		Metadata: commonModels.DocumentMetadata{
			Filename:    src.Filename,
			PagesCount:  len(pages),
			UploadTime:  src.UploadTime,
			FileSizeKB:  math.Round(float64(src.SizeBytes)/1024*100) / 100,
			ContentType: docType,
		},
	}, nil
}

// BatchIngest embeds chunks in fixed-size batches, keeping chunk order.
func (in *Ingestor) BatchIngest(ctx context.Context, chunks []string) ([][]float32, error) {
	layered, ok := in.embedder.(embedding.Layered)
	if !ok {
		return embedBatches(ctx, in.embedder, chunks, in.batchSize)
	}

	// one tier per document, so its vectors all share a space
	vectors, err := embedBatches(ctx, layered.Primary(), chunks, in.batchSize)
	if err == nil {
		return vectors, nil
	}
	logger.WithTrace(ctx).Warn("semantic embedding failed mid-document, re-embedding with deterministic embedder", "error", err, "chunks", len(chunks))
	metrics.IncrementEmbeddingFallback("document")
	return embedBatches(ctx, layered.Fallback(), chunks, in.batchSize)
}

func embedBatches(ctx context.Context, e embedding.Embedder, chunks []string, batchSize int) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))
	for i := 0; i < len(chunks); i += batchSize {
		end := min(i+batchSize, len(chunks))
		batch := chunks[i:end]
		vecs, err := e.BatchEmbedding(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("embedding batch failed: %w", err)
		}
		if err := embedding.ValidateBatch(vecs, len(batch)); err != nil {
			return nil, fmt.Errorf("embedding batch invalid: %w", err)
		}
		vectors = append(vectors, vecs...)
	}
	return vectors, nil
}
