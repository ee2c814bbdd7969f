package rag

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/jobModel"
	"github.com/akolanti/DocQA/internal/domain/qaModel"
	"github.com/akolanti/DocQA/internal/metrics"
)

func (e *Engine) ProcessRequest(ctx context.Context, job jobModel.Job) jobModel.Job {
	job.CurrentStep = jobModel.QACall
	resp, err := e.Ask(ctx, job.JobPayload.Request)
	if err != nil {
		switch {
		case qaModel.IsNotFound(err):
			return e.jobError(ctx, job, err, "target vanished before the job ran", http.StatusNotFound, false)
		case errors.Is(err, qaModel.ErrEmptyQuestion):
			return e.jobError(ctx, job, err, "empty question", http.StatusBadRequest, false)
		}
		return e.jobError(ctx, job, err, "QA_FAILURE", http.StatusInternalServerError, true)
	}
	return returnOutput(job, resp)
}

func (e *Engine) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	job.CurrentStep = jobModel.IngestProcessing
	p := job.JobPayload
	summary, err := e.IngestStaged(ctx, p.IngestDocId, p.IngestFileName, p.IngestURL, job.CreatedTime)
	if err != nil {
		if errors.Is(err, qaModel.ErrEmptyDocument) || errors.Is(err, qaModel.ErrUnsupportedDocument) {
			return e.jobError(ctx, job, err, "document rejected", http.StatusUnprocessableEntity, false)
		}
		return e.jobError(ctx, job, err, "INGESTION_FAILURE", http.StatusInternalServerError, true)
	}
	job.JobPayload.IngestSummary = &summary
	job.CurrentStep = jobModel.Complete
	return job
}

func returnOutput(job jobModel.Job, resp qaModel.Response) jobModel.Job {
	job.JobPayload.Response = &resp
	job.CurrentStep = jobModel.Complete
	return job
}

func (e *Engine) jobError(ctx context.Context, job jobModel.Job, err error, message string, code int, canRetry bool) jobModel.Job {
	e.logger.WithTrace(ctx).Error(message, "jobId", job.Id, "error", err)

	public := "Internal Server Error"
	if code != http.StatusInternalServerError {
		public = err.Error()
	}
	job.Error = jobModel.JobError{
		Code:    code,
		Message: public,
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusError
	job.CurrentStep = jobModel.Error
	return job
}

func (e *Engine) semanticEligible(req qaModel.ChatRequest, c qaModel.Classification) bool {
	return req.EnableCache && e.semantic != nil && c.Category == qaModel.PDFContent && req.Target().Id() != ""
}

// embedQuestion returns nil when even the fallback embedder fails; the semantic tier is then skipped.
func (e *Engine) embedQuestion(ctx context.Context, question string) []float32 {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	vec, err := e.embedder.GetEmbedding(ctx, question)
	if err != nil {
		e.logger.WithTrace(ctx).Warn("question embedding failed, skipping semantic cache", "error", err)
		return nil
	}
	return vec
}

func (e *Engine) semanticLookup(ctx context.Context, targetId string, vec []float32) (qaModel.Response, bool) {
	if vec == nil {
		return qaModel.Response{}, false
	}
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	resp, found, err := e.semantic.GetCachedAnswer(ctx, targetId, vec)
	if err != nil {
		e.logger.WithTrace(ctx).Warn("semantic cache lookup failed", "error", err)
		return qaModel.Response{}, false
	}
	return resp, found
}

// semanticSave runs in the background and outlives the request.
func (e *Engine) semanticSave(ctx context.Context, targetId string, vec []float32, resp qaModel.Response) {
	snapshot := resp.Clone()
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.QdrantConnectionTimeout)
	go func() {
		defer cancel()
		if err := e.semantic.SaveToCache(saveCtx, targetId, vec, snapshot); err != nil {
			e.logger.WithTrace(saveCtx).Error("Failed to save to semantic cache", "error", err)
		}
	}()
}
