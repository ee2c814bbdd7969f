package adapter

import (
	"testing"
	"time"

	"github.com/akolanti/DocQA/internal/api"
	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/jobModel"
	"github.com/akolanti/DocQA/internal/domain/qaModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToChatRequest_Defaults(t *testing.T) {
	req := ToChatRequest(api.ChatRequest{Question: "q", DocId: "d"})
	assert.True(t, req.EnableCache)
	assert.Equal(t, config.DefaultMaxSources, req.MaxSources)
	assert.Equal(t, "d", req.DocId)

	off := false
	req = ToChatRequest(api.ChatRequest{Question: "q", EnableCache: &off, MaxSources: 2, SessionId: "s"})
	assert.False(t, req.EnableCache)
	assert.Equal(t, 2, req.MaxSources)
	assert.Equal(t, "s", req.SessionId)
}

func TestToAPIResponse(t *testing.T) {
	created := time.Now()
	job := jobModel.Job{
		Id:          "job",
		ChatId:      "chat",
		Status:      jobModel.JobStatusComplete,
		CurrentStep: jobModel.Complete,
		CreatedTime: created,
	}

	res := ToAPIResponse(job)
	assert.Nil(t, res.Error)
	assert.Nil(t, res.Result.RAGExternalResponse, "no answer yet")
	assert.Equal(t, "COMPLETE", res.Result.Status)

	job.JobPayload.Request.Question = "why?"
	job.JobPayload.Response = &qaModel.Response{Answer: "because", ResponseType: qaModel.TypeGeneral}
	res = ToAPIResponse(job)
	require.NotNil(t, res.Result.RAGExternalResponse)
	assert.Equal(t, "why?", res.Result.RAGExternalResponse.Question)
	assert.Equal(t, "because", res.Result.RAGExternalResponse.Response.Answer)

	job.Status = jobModel.JobStatusError
	job.Error = jobModel.JobError{Code: 500, Message: "boom", Retry: true}
	res = ToAPIResponse(job)
	require.NotNil(t, res.Error)
	assert.Equal(t, 500, res.Error.Code)
	assert.True(t, res.Error.Retry)
}

func TestToInitJobResponse(t *testing.T) {
	res := ToInitJobResponse(jobModel.Job{Id: "abc", JobPayload: jobModel.JobPayload{IngestDocId: "doc"}})
	assert.Equal(t, "status/abc", res.StatusURL)
	assert.Equal(t, "doc", res.DocId)
}

func TestToHistoryResponse(t *testing.T) {
	res := ToHistoryResponse("chat", []jobModel.TranscriptEntry{{Question: "q2"}, {Question: "q1"}})
	require.Len(t, res.Entries, 2)
	assert.Equal(t, "q2", res.Entries[0].Question)

	empty := ToHistoryResponse("chat", nil)
	assert.NotNil(t, empty.Entries)
}
