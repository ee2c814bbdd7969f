package rag

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/akolanti/DocQA/internal/data/blobStore"
	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/domain/qaModel"
	"github.com/akolanti/DocQA/internal/metrics"
	"github.com/akolanti/DocQA/internal/rag/ingest"
	"github.com/google/uuid"
)

// StageUpload checks the file type, assigns a document id and saves the raw bytes.
// The document is not visible until IngestStaged publishes it.
func (e *Engine) StageUpload(filename string, r io.Reader) (docId, handle string, err error) {
	if commonModels.DocTypeFromName(filename) == commonModels.ERR {
		e.monitor.RecordError(endpointUpload, "unsupported_type")
		return "", "", fmt.Errorf("%w: %s", qaModel.ErrUnsupportedDocument, filename)
	}
	docId = uuid.NewString()
	handle, _, err = e.blobs.Save(docId, filename, r)
	if err != nil {
		e.monitor.RecordError(endpointUpload, "storage")
		return "", "", err
	}
	return docId, handle, nil
}

// IngestStaged builds and publishes a staged upload, then records it for restarts.
// A document that fails to build is discarded along with its blob.
func (e *Engine) IngestStaged(ctx context.Context, docId, filename, handle string, uploadTime time.Time) (commonModels.DocumentSummary, error) {
	start := e.monitor.StartTimer(endpointUpload)
	defer e.monitor.EndTimer(endpointUpload, start)
	log := e.logger.WithTrace(ctx).With("docId", docId)

	if uploadTime.IsZero() {
		uploadTime = e.now()
	}
	metadata, chunks, err := e.buildAndPublish(ctx, docId, filename, handle, uploadTime)
	if err != nil {
		e.monitor.RecordError(endpointUpload, uploadErrorKind(err))
		if rmErr := e.blobs.Remove(handle); rmErr != nil && !errors.Is(rmErr, blobStore.ErrBlobNotFound) {
			log.Warn("could not remove rejected upload", "error", rmErr)
		}
		return commonModels.DocumentSummary{}, err
	}

	record := commonModels.DocumentRecord{DocId: docId, Metadata: metadata, BlobHandle: handle}
	if e.records != nil {
		if err := e.records.SaveRecord(ctx, record); err != nil {
			// the document is served from memory; it just won't survive a restart
			log.Error("failed to persist document record", "error", err)
		}
	}
	log.Info("document ingested", "filename", filename, "chunks", chunks, "pages", metadata.PagesCount)

	return commonModels.DocumentSummary{
		DocId:      docId,
		Filename:   metadata.Filename,
		Pages:      metadata.PagesCount,
		UploadTime: metadata.UploadTime,
		FileSizeKB: metadata.FileSizeKB,
		Chunks:     chunks,
	}, nil
}

// Ingest stages and publishes in one call.
func (e *Engine) Ingest(ctx context.Context, filename string, r io.Reader) (commonModels.DocumentSummary, error) {
	docId, handle, err := e.StageUpload(filename, r)
	if err != nil {
		return commonModels.DocumentSummary{}, err
	}
	return e.IngestStaged(ctx, docId, filename, handle, e.now())
}

// Restore rebuilds every recorded document from its blob under its original id.
// Documents that fail to rebuild are logged and skipped.
func (e *Engine) Restore(ctx context.Context) (int, error) {
	if e.records == nil {
		return 0, nil
	}
	records, err := e.records.ListRecords(ctx)
	if err != nil {
		return 0, fmt.Errorf("list document records: %w", err)
	}

	restored := 0
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return restored, err
		}
		_, _, err := e.buildAndPublish(ctx, rec.DocId, rec.Metadata.Filename, rec.BlobHandle, rec.Metadata.UploadTime)
		if err != nil {
			e.logger.Warn("skipping document on restore", "docId", rec.DocId, "filename", rec.Metadata.Filename, "error", err)
			if errors.Is(err, blobStore.ErrBlobNotFound) {
				// the raw file is gone for good
				if delErr := e.records.DeleteRecord(ctx, rec.DocId); delErr != nil {
					e.logger.Error("failed to drop stale document record", "docId", rec.DocId, "error", delErr)
				}
			}
			continue
		}
		restored++
	}
	e.logger.Info("documents restored", "restored", restored, "recorded", len(records))
	return restored, nil
}

// DocumentFile returns the local path and original filename of a document's raw upload.
func (e *Engine) DocumentFile(docId string) (path, filename string, err error) {
	metadata, err := e.docs.GetMetadata(docId)
	if err != nil {
		return "", "", err
	}
	e.handleMu.RLock()
	handle, ok := e.handles[docId]
	e.handleMu.RUnlock()
	if !ok {
		return "", "", qaModel.ErrDocumentNotFound
	}
	path, err = e.blobs.Path(handle)
	if err != nil {
		return "", "", err
	}
	return path, metadata.Filename, nil
}

func (e *Engine) buildAndPublish(ctx context.Context, docId, filename, handle string, uploadTime time.Time) (commonModels.DocumentMetadata, int, error) {
	path, err := e.blobs.Path(handle)
	if err != nil {
		return commonModels.DocumentMetadata{}, 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return commonModels.DocumentMetadata{}, 0, err
	}

	res, err := e.ingestor.Build(ctx, ingest.Source{
		Path:       path,
		Filename:   filename,
		SizeBytes:  info.Size(),
		UploadTime: uploadTime,
	})
	if err != nil {
		return commonModels.DocumentMetadata{}, 0, err
	}
	if err := e.docs.IngestDocument(docId, res.Chunks, res.Index, res.Metadata, res.Pages); err != nil {
		return commonModels.DocumentMetadata{}, 0, err
	}

	e.handleMu.Lock()
	e.handles[docId] = handle
	e.handleMu.Unlock()
	metrics.SetDocumentsLoaded(e.docs.Count())
	return res.Metadata, len(res.Chunks), nil
}

func uploadErrorKind(err error) string {
	switch {
	case errors.Is(err, qaModel.ErrEmptyDocument):
		return "empty_document"
	case errors.Is(err, qaModel.ErrUnsupportedDocument):
		return "unsupported_type"
	case errors.Is(err, blobStore.ErrBlobNotFound):
		return "storage"
	}
	return "processing"
}
