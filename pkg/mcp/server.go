// Package mcp exposes the import rewriter as MCP tools, so agents can
// rewrite and audit code without a project checkout.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/uiimport/pkg/mcplog"
	"github.com/gnana997/uiimport/pkg/pipeline"
)

const serverVersion = "0.1.0-dev"

// Server implements the MCP server for uiimport.
type Server struct {
	mcpServer *server.MCPServer
	pipeline  *pipeline.Pipeline

	// baseDir resolves Starlark module paths in per-call rule documents.
	baseDir string

	logger *mcplog.Logger // nil disables call logging
}

// NewServer creates a server transforming with p's rules by default.
func NewServer(p *pipeline.Pipeline, baseDir string, logger *mcplog.Logger) *Server {
	s := &Server{pipeline: p, baseDir: baseDir, logger: logger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}
	s.mcpServer = server.NewMCPServer("uiimport", serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: transformCodeTool(), Handler: s.handleTransformCode},
		server.ServerTool{Tool: listLibrariesTool(), Handler: s.handleListLibraries},
		server.ServerTool{Tool: scanCodeTool(), Handler: s.handleScanCode},
	)

	return s
}

// MCPServer returns the underlying server, for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
