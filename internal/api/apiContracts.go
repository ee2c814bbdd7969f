package api

import (
	"time"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/domain/qaModel"
)

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	ChatId    string            `json:"chat_id" example:"chat_550"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type RAGResponse struct {
	Question string            `json:"question"`
	Response *qaModel.Response `json:"response"`
}

type Result struct {
	Status              string                        `json:"status"`
	Step                string                        `json:"step,omitempty"`
	RAGExternalResponse *RAGResponse                  `json:"rag_response,omitempty"`
	Document            *commonModels.DocumentSummary `json:"document,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	ChatId    string `json:"chat_id,omitempty"`
	DocId     string `json:"doc_id,omitempty"`
	StatusURL string `json:"status_url"`
}

type DocumentListResponse struct {
	Documents []commonModels.DocumentSummary `json:"documents"`
	Count     int                            `json:"count"`
}

type CollectionResponse struct {
	Id          string    `json:"collection_id"`
	Name        string    `json:"name"`
	DocIds      []string  `json:"doc_ids"`
	VectorCount int       `json:"vector_count"`
	Searchable  bool      `json:"searchable"`
	CreatedAt   time.Time `json:"created_at"`
}

type HistoryEntry struct {
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	ResponseType string    `json:"response_type"`
	Sources      []string  `json:"sources,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

type HistoryResponse struct {
	ChatId  string         `json:"chat_id"`
	Entries []HistoryEntry `json:"entries"`
}

type CacheClearResponse struct {
	Cleared int `json:"cleared"`
}

// requests---------------------

type ChatRequest struct {
	Question     string `json:"question" validate:"required" example:"What does the report say about revenue?"`
	ChatID       string `json:"chatID,omitempty"`
	DocId        string `json:"doc_id,omitempty"`
	CollectionId string `json:"collection_id,omitempty"`
	SessionId    string `json:"session_id,omitempty"`
	// nil means enabled
	EnableCache *bool `json:"enable_cache,omitempty"`
	MaxSources  int   `json:"max_sources,omitempty" example:"5"`
}

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}

type CollectionRequest struct {
	Name   string   `json:"name" validate:"required" example:"quarterly reports"`
	DocIds []string `json:"doc_ids" validate:"required"`
}
