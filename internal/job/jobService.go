package job

import (
	"sync/atomic"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/jobModel"
)

// Service is the queue shared by the HTTP handlers and the worker pool,
// together with the stores both sides read and write.
type Service struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	MessageStore      jobModel.MessageStore
}

type ServiceConfig struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	MessageStore      jobModel.MessageStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
		MessageStore:      cfg.MessageStore,
	}
}

// CountRequest records one queued job and returns the running total.
func (s *Service) CountRequest() int64 {
	return atomic.AddInt64(&s.RequestCount, 1)
}

// WantsWorker reports whether a queued job should ask the dispatcher for another worker.
// Every RequestsPerNewWorkerCount-th request does, and so does every ingest, since
// embedding a whole document keeps a worker busy for much longer than a question.
func WantsWorker(count int64, jobType jobModel.JobType) bool {
	return jobType == jobModel.JobTypeIngest || count%config.RequestsPerNewWorkerCount == 0
}

// RequestWorker signals the dispatcher without blocking. It returns false when a
// signal is already pending.
func (s *Service) RequestWorker() bool {
	select {
	case s.DispatcherChannel <- true:
		return true
	default:
		return false
	}
}
