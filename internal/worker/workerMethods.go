package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/DocQA/internal/config"
	jobmodel "github.com/akolanti/DocQA/internal/domain/jobModel"
	"github.com/akolanti/DocQA/internal/metrics"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		// Record total time at the end
		metrics.CaptureJobMetrics(string(job.JobType)+"_"+string(job.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, jobTimeout)
	defer cancel()
	log := logger.WithTrace(ctx).With("job Id", job.Id, "type", job.JobType)
	log.Debug("Processing job")

	saveJobState(ctx, job, jobmodel.JobStatusRunning, log)

	if job.JobType == jobmodel.JobTypeIngest {
		job = ingestDocument(job, ctx, log)
	} else {
		job = processQuery(job, ctx, log)
	}

	job.EndTime = time.Now()
	if job.Status != jobmodel.JobStatusError {
		job.Status = jobmodel.JobStatusComplete
	}
	// the final state must land even when the job ran out of time
	saveJobState(context.WithoutCancel(ctx), job, job.Status, log)
	log.Info("Job finished", "status", job.Status, "elapsed", time.Since(start))
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	count := atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", count)
	metrics.DecrementActiveWorkerCount()

}

func ingestDocument(job jobmodel.Job, ctx context.Context, log *logger_i.Logger) jobmodel.Job {
	job = _ragService.IngestDocument(ctx, job)
	if job.JobPayload.IngestSummary != nil {
		log.Debug("Document ingested", "docId", job.JobPayload.IngestSummary.DocId)
	}
	return job
}

// processQuery answers the question and appends the exchange to the chat transcript.
func processQuery(job jobmodel.Job, ctx context.Context, log *logger_i.Logger) jobmodel.Job {
	job = _ragService.ProcessRequest(ctx, job)
	if job.Status == jobmodel.JobStatusError || job.JobPayload.Response == nil || job.ChatId == "" {
		return job
	}
	job.CurrentStep = jobmodel.RedisCall
	entry := jobmodel.NewTranscriptEntry(job.JobPayload.Request, *job.JobPayload.Response)
	if err := _jobService.MessageStore.TrySaveChat(ctx, job.ChatId, entry); err != nil {
		// the answer is still delivered through the job status
		log.Error("Failed to save chat history", "err", err)
	}
	job.CurrentStep = jobmodel.Complete
	return job
}

func saveJobState(ctx context.Context, job jobmodel.Job, jobStatus jobmodel.JobStatus, log *logger_i.Logger) {
	job.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		log.Error("Failed to update job state", "err", err)
	}
}
