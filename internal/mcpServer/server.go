// Package mcpServer exposes the question-answering engine as MCP tools over stdio.
package mcpServer

import (
	"context"
	"errors"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/domain/qaModel"
	"github.com/akolanti/DocQA/internal/rag/collection"
	"github.com/akolanti/DocQA/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const Version = "1.0.0"

var ErrMissingEngine = errors.New("mcp: engine is required")

// Engine is the part of the engine the tools call.
type Engine interface {
	Ask(ctx context.Context, req qaModel.ChatRequest) (qaModel.Response, error)
	ListDocuments() []commonModels.DocumentSummary
	CreateCollection(ctx context.Context, name string, docIds []string) (collection.Info, error)
}

type Server struct {
	engine Engine
	server *mcp.Server
	logger *logger_i.Logger
}

func NewServer(engine Engine) (*Server, error) {
	if engine == nil {
		return nil, ErrMissingEngine
	}
	s := &Server{
		engine: engine,
		server: mcp.NewServer(&mcp.Implementation{Name: "docqa", Version: Version}, nil),
		logger: logger_i.NewLogger("MCP"),
	}
	s.registerTools()
	return s, nil
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("MCP server ready on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
