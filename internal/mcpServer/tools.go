package mcpServer

import (
	"context"
	"strings"
	"time"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/qaModel"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type AskInput struct {
	Question     string `json:"question" jsonschema:"the question to answer"`
	DocId        string `json:"doc_id,omitempty" jsonschema:"document to answer from"`
	CollectionId string `json:"collection_id,omitempty" jsonschema:"collection to answer from, ignored when doc_id is set"`
	SessionId    string `json:"session_id,omitempty" jsonschema:"conversation session, defaults to the target id"`
	EnableCache  *bool  `json:"enable_cache,omitempty" jsonschema:"reuse cached answers (default true)"`
	MaxSources   int    `json:"max_sources,omitempty" jsonschema:"maximum number of source passages returned (default 5)"`
}

type CitationOutput struct {
	Text  string  `json:"text"`
	Page  int     `json:"page"`
	Score float64 `json:"relevance_score"`
}

type AskOutput struct {
	Answer           string           `json:"answer"`
	ResponseType     string           `json:"response_type"`
	Sources          []string         `json:"sources,omitempty"`
	Suggestion       string           `json:"suggestion,omitempty"`
	Category         string           `json:"category,omitempty"`
	Confidence       float64          `json:"confidence,omitempty"`
	SessionId        string           `json:"session_id"`
	FollowUp         bool             `json:"follow_up_detected"`
	ConversationTurn int              `json:"conversation_turn"`
	Cached           bool             `json:"cached"`
	Citations        []CitationOutput `json:"citations,omitempty"`
}

type ListDocumentsInput struct{}

type DocumentOutput struct {
	DocId      string  `json:"doc_id"`
	Filename   string  `json:"filename"`
	Pages      int     `json:"pages"`
	Chunks     int     `json:"chunks"`
	FileSizeKB float64 `json:"file_size_kb"`
	UploadTime string  `json:"upload_time"`
}

type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

type CreateCollectionInput struct {
	Name   string   `json:"name" jsonschema:"display name of the collection"`
	DocIds []string `json:"doc_ids" jsonschema:"ordered ids of the member documents"`
}

type CollectionOutput struct {
	CollectionId string   `json:"collection_id"`
	Name         string   `json:"name"`
	DocIds       []string `json:"doc_ids"`
	VectorCount  int      `json:"vector_count"`
	Searchable   bool     `json:"searchable"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_question",
		Description: "Answer a question about an uploaded document, a collection, or in general",
	}, s.handleAsk)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List uploaded documents with page and chunk counts",
	}, s.handleListDocuments)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_collection",
		Description: "Group documents into a collection for cross-document questions",
	}, s.handleCreateCollection)
}

func (s *Server) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, AskOutput, error) {
	enableCache := true
	if input.EnableCache != nil {
		enableCache = *input.EnableCache
	}
	maxSources := input.MaxSources
	if maxSources <= 0 {
		maxSources = config.DefaultMaxSources
	}
	resp, err := s.engine.Ask(ctx, qaModel.ChatRequest{
		Question:     input.Question,
		DocId:        strings.TrimSpace(input.DocId),
		CollectionId: strings.TrimSpace(input.CollectionId),
		SessionId:    input.SessionId,
		EnableCache:  enableCache,
		MaxSources:   maxSources,
	})
	if err != nil {
		s.logger.WithTrace(ctx).Warn("ask_question rejected", "error", err)
		return nil, AskOutput{}, err
	}
	return nil, toAskOutput(resp), nil
}

func toAskOutput(resp qaModel.Response) AskOutput {
	out := AskOutput{
		Answer:           resp.Answer,
		ResponseType:     resp.ResponseType,
		Sources:          resp.Sources,
		Suggestion:       resp.Suggestion,
		SessionId:        resp.SessionId,
		FollowUp:         resp.FollowUpDetected,
		ConversationTurn: resp.ConversationTurn,
		Cached:           resp.Cached,
	}
	if resp.Classification != nil {
		out.Category = string(resp.Classification.Category)
		out.Confidence = resp.Classification.Confidence
	}
	for _, c := range resp.EnhancedCitations {
		out.Citations = append(out.Citations, CitationOutput{Text: c.Text, Page: c.Page, Score: c.RelevanceScore})
	}
	return out
}

func (s *Server) handleListDocuments(_ context.Context, _ *mcp.CallToolRequest, _ ListDocumentsInput) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs := s.engine.ListDocuments()
	out := ListDocumentsOutput{Documents: make([]DocumentOutput, len(docs)), Count: len(docs)}
	for i, d := range docs {
		out.Documents[i] = DocumentOutput{
			DocId:      d.DocId,
			Filename:   d.Filename,
			Pages:      d.Pages,
			Chunks:     d.Chunks,
			FileSizeKB: d.FileSizeKB,
			UploadTime: d.UploadTime.Format(time.RFC3339),
		}
	}
	return nil, out, nil
}

func (s *Server) handleCreateCollection(ctx context.Context, _ *mcp.CallToolRequest, input CreateCollectionInput) (*mcp.CallToolResult, CollectionOutput, error) {
	info, err := s.engine.CreateCollection(ctx, input.Name, input.DocIds)
	if err != nil {
		return nil, CollectionOutput{}, err
	}
	return nil, CollectionOutput{
		CollectionId: info.Id,
		Name:         info.Name,
		DocIds:       info.DocIds,
		VectorCount:  info.VectorCount,
		Searchable:   info.Searchable,
	}, nil
}
