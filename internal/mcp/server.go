package mcp

import (
	"context"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"textintel/internal/service"
)

// Server exposes the text service as MCP tools.
type Server struct {
	mcp *gomcp.Server
	svc *service.TextService
}

// NewServer creates an MCP server with the analysis and search tools.
func NewServer(svc *service.TextService) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("text service is required")
	}
	info := svc.Info()
	mcpServer := gomcp.NewServer(
		&gomcp.Implementation{
			Name:    "textintel",
			Version: info.Version,
		},
		nil,
	)
	s := &Server{mcp: mcpServer, svc: svc}
	s.registerTools()
	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &gomcp.StdioTransport{})
}
