package handlers

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/DocQA/internal/api"
	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/domain/jobModel"
	"github.com/akolanti/DocQA/internal/domain/qaModel"
	"github.com/akolanti/DocQA/internal/job"
	"github.com/akolanti/DocQA/internal/metrics"
	"github.com/akolanti/DocQA/internal/rag"
	"github.com/akolanti/DocQA/internal/rag/collection"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

// QAEngine is the synchronous side of the engine: target checks, upload staging and listings.
// Questions and ingestion themselves run on the worker pool.
type QAEngine interface {
	ValidateTarget(target qaModel.Target) error
	StageUpload(filename string, r io.Reader) (docId, handle string, err error)
	ListDocuments() []commonModels.DocumentSummary
	DocumentFile(docId string) (path, filename string, err error)
	CreateCollection(ctx context.Context, name string, docIds []string) (collection.Info, error)
	GetCollection(id string) (collection.Info, error)
	ListCollections() []collection.Info
	Performance() rag.PerformanceReport
	ClearCache() int
}

type JobHandler struct {
	service *job.Service
	engine  QAEngine
}

func InitJobHandler(jobService *job.Service, engine QAEngine) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService, engine: engine}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})

}

// CreateNewJob opens the chat first when needed so the worker can always append to it.
func CreateNewJob(newJob newJobData) (jobModel.Job, error) {
	log := logJH.With("traceId", newJob.traceId, "job id", newJob.id)
	log.Info("To create new job")
	if newJob.isNewChat {
		log.Info("Create new chat", "chatId", newJob.chatId)
		if err := handlerInstance.initNewChat(newJob.chatId, newJob.traceId); err != nil {
			return jobModel.Job{}, err
		}
	}
	return handlerInstance.pushToJobChannel(newJob, log), nil
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

func ValidateChatRequest(chatReq api.ChatRequest) bool {
	if handlerInstance == nil {
		return false
	}
	logJH.Debug(" Validating chat id ", "chatId :", chatReq.ChatID)
	if strings.TrimSpace(chatReq.Question) == "" {
		return false
	}
	if chatReq.MaxSources < 0 {
		return false
	}
	if chatReq.ChatID == "" {
		return true
	}
	return handlerInstance.service.MessageStore.ValidateChatId(context.Background(), chatReq.ChatID)
}

func engine() QAEngine {
	return handlerInstance.engine
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData, log *logger_i.Logger) jobModel.Job {

	_job := jobModel.Job{}
	_job.Id = newJob.id
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.Status = jobModel.JobStatusQueued

	if newJob.isDocumentIngest {
		_job.CurrentStep = jobModel.IngestInit
		_job.JobType = jobModel.JobTypeIngest
		_job.JobPayload.IngestFileName = newJob.documentName
		_job.JobPayload.IngestDocId = newJob.docId
		_job.JobPayload.IngestURL = newJob.blobHandle

	} else {
		_job.JobType = jobModel.JobTypeQuery
		_job.ChatId = newJob.chatId
		_job.JobPayload.Request = newJob.request
		_job.CurrentStep = jobModel.UserQueryInit
	}

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, newJob.traceId)
	if err := h.service.JobStore.SaveJob(ctx, _job); err != nil {
		// the worker saves it again once it starts
		log.Warn("Could not store queued job", "err", err)
	}

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //this is a blocking send to prevent the system from being overwhelmed
	log.Info("Created new job")

	//idle workers retire, so most of the time only the minimum pool is running
	accurateCount := h.service.CountRequest()
	if job.WantsWorker(accurateCount, _job.JobType) {
		log.Debug("Worker count ", "requests", accurateCount)
		if h.service.RequestWorker() {
			metrics.StartDispatcherSignalCount() //metrics
		}
	}
	return _job
}

func (h *JobHandler) initNewChat(chatId string, traceId string) error {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	err := h.service.MessageStore.InitNewChat(ctxC, chatId)
	if err != nil {
		logJH.Error("Error initiating new chat", "chatId", chatId, "err", err)
	}
	return err
}
