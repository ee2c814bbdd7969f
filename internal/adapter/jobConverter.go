package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/DocQA/internal/api"
	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/jobModel"
	"github.com/akolanti/DocQA/internal/domain/qaModel"
	"github.com/akolanti/DocQA/internal/rag/collection"
)

func ToInitJobResponse(job jobModel.Job) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        job.Id,
		ChatId:    job.ChatId,
		DocId:     job.JobPayload.IngestDocId,
		StatusURL: fmt.Sprintf("status/%s", job.Id), //pass "status/job.Id"
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:              string(job.Status),
		Step:                string(job.CurrentStep),
		RAGExternalResponse: ToRAGExternalStatus(job.JobPayload),
		Document:            job.JobPayload.IngestSummary,
	}

	return api.JobResponse{
		Id:        job.Id,
		ChatId:    job.ChatId,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func ToRAGExternalStatus(ragData jobModel.JobPayload) *api.RAGResponse {
	if ragData.Response == nil {
		return nil
	}

	return &api.RAGResponse{
		Question: ragData.Request.Question,
		Response: ragData.Response,
	}
}

// ToChatRequest fills in the request defaults: cache on, DefaultMaxSources sources.
func ToChatRequest(req api.ChatRequest) qaModel.ChatRequest {
	enableCache := true
	if req.EnableCache != nil {
		enableCache = *req.EnableCache
	}
	maxSources := req.MaxSources
	if maxSources <= 0 {
		maxSources = config.DefaultMaxSources
	}
	return qaModel.ChatRequest{
		Question:     req.Question,
		DocId:        req.DocId,
		CollectionId: req.CollectionId,
		SessionId:    req.SessionId,
		EnableCache:  enableCache,
		MaxSources:   maxSources,
	}
}

func ToCollectionResponse(info collection.Info) api.CollectionResponse {
	return api.CollectionResponse{
		Id:          info.Id,
		Name:        info.Name,
		DocIds:      info.DocIds,
		VectorCount: info.VectorCount,
		Searchable:  info.Searchable,
		CreatedAt:   info.CreatedAt,
	}
}

func ToHistoryResponse(chatId string, entries []jobModel.TranscriptEntry) api.HistoryResponse {
	out := make([]api.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, api.HistoryEntry{
			Question:     e.Question,
			Answer:       e.Answer,
			ResponseType: e.ResponseType,
			Sources:      e.Sources,
			Timestamp:    e.Timestamp,
		})
	}
	return api.HistoryResponse{ChatId: chatId, Entries: out}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		ChatId:    "",
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
