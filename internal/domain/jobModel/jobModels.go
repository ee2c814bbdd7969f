package jobModel

import (
	"context"
	"time"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/domain/qaModel"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	UserQueryInit InternalStatus = "Init"
	QACall        InternalStatus = "QA"
	RedisCall     InternalStatus = "Redis"

	IngestInit       InternalStatus = "IngestInit"
	IngestProcessing InternalStatus = "IngestProcessing"
	Error            InternalStatus = "Error"

	Complete InternalStatus = "Complete"

	JobTypeQuery  JobType = "Query"
	JobTypeIngest JobType = "Ingest"
)

type Job struct {
	Id          string         `json:"id"`
	ChatId      string         `json:"chat_id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

// JobPayload carries a chat request in and its response out, or an ingest request.
type JobPayload struct {
	Request  qaModel.ChatRequest `json:"request,omitempty"`
	Response *qaModel.Response   `json:"response,omitempty"`

	IngestFileName string                        `json:"ingest_file_name,omitempty"`
	IngestURL      string                        `json:"ingest_url,omitempty"`
	IngestDocId    string                        `json:"ingest_doc_id,omitempty"`
	IngestSummary  *commonModels.DocumentSummary `json:"ingest_summary,omitempty"`
}

// TranscriptEntry is one completed question and answer in a chat.
type TranscriptEntry struct {
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	ResponseType string    `json:"response_type"`
	Sources      []string  `json:"sources,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewTranscriptEntry(req qaModel.ChatRequest, resp qaModel.Response) TranscriptEntry {
	return TranscriptEntry{
		Question:     req.Question,
		Answer:       resp.Answer,
		ResponseType: resp.ResponseType,
		Sources:      resp.Sources,
		Timestamp:    resp.Timestamp,
	}
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

type MessageStore interface {
	ValidateChatId(ctx context.Context, id string) bool
	TrySaveChat(ctx context.Context, id string, entry TranscriptEntry) error
	InitNewChat(ctx context.Context, id string) error
	// GetMessageHistory returns the last five entries, newest first.
	GetMessageHistory(ctx context.Context, chatId string) ([]TranscriptEntry, error)
}

type DocumentRecordStore interface {
	SaveRecord(ctx context.Context, record commonModels.DocumentRecord) error
	ListRecords(ctx context.Context) ([]commonModels.DocumentRecord, error)
	DeleteRecord(ctx context.Context, docId string) error
}
