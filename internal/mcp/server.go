// Package mcp exposes the Dynatrace environments as MCP tools over stdio.
package mcp

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kubiyabot/dynatrace-mcp/internal/config"
	"github.com/kubiyabot/dynatrace-mcp/internal/dynatrace"
	"github.com/kubiyabot/dynatrace-mcp/internal/mcp/middleware"
	"github.com/kubiyabot/dynatrace-mcp/internal/pterm"
	"github.com/kubiyabot/dynatrace-mcp/internal/version"
)

// ServerName is announced to MCP clients
const ServerName = "Dynatrace MCP Server"

// Server wraps the environment manager and provides MCP tools
type Server struct {
	manager   *dynatrace.Manager
	config    *config.Config
	logger    *pterm.Logger
	mcpServer *server.MCPServer
	rateLimit *middleware.RateLimitMiddleware

	// handlers holds every tool handler wrapped in the middleware chain,
	// keyed by tool name
	handlers map[string]middleware.ToolHandler
}

// NewServer builds the MCP server and registers its tools, resources and
// prompts. The manager should already be established.
func NewServer(manager *dynatrace.Manager, cfg *config.Config, logger *pterm.Logger) *Server {
	s := &Server{
		manager:   manager,
		config:    cfg,
		logger:    logger,
		rateLimit: middleware.NewRateLimitMiddleware(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		handlers:  make(map[string]middleware.ToolHandler),
	}

	hooks := &server.Hooks{}
	hooks.AddOnUnregisterSession(func(ctx context.Context, session server.ClientSession) {
		s.rateLimit.Cleanup(session.SessionID())
	})

	s.mcpServer = server.NewMCPServer(
		ServerName,
		version.Version,
		server.WithToolCapabilities(true),
		server.WithPromptCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithHooks(hooks),
	)

	s.addTools()
	s.addResources()
	s.addPrompts()
	return s
}

// middlewareChain wraps a handler: recovery outermost so that a panic in any
// layer is contained.
func (s *Server) middlewareChain() middleware.Middleware {
	return middleware.Chain(
		middleware.NewErrorRecoveryMiddleware(s.logger).Apply,
		middleware.NewLoggingMiddleware(s.logger).Apply,
		s.rateLimit.Apply,
		middleware.NewTimeoutMiddleware(s.config.ToolTimeout()).Apply,
	)
}

func (s *Server) addTool(tool mcp.Tool, handler middleware.ToolHandler) {
	wrapped := s.middlewareChain()(handler)
	s.handlers[tool.Name] = wrapped
	s.mcpServer.AddTool(tool, server.ToolHandlerFunc(wrapped))
}

// Start serves MCP over stdin/stdout until ctx is done or stdin closes.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting Dynatrace MCP Server",
		"environments", s.manager.Usable(),
		"tools", len(s.handlers))

	stdio := server.NewStdioServer(s.mcpServer)
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

// CallTool invokes a registered tool through its middleware chain.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	handler, ok := s.handlers[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", name)
	}
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return handler(ctx, req)
}

// ToolNames lists the registered tools.
func (s *Server) ToolNames() []string {
	names := make([]string, 0, len(s.handlers))
	for _, t := range toolOrder {
		if _, ok := s.handlers[t]; ok {
			names = append(names, t)
		}
	}
	return names
}
