// Package mcp exposes the conversions as Model Context Protocol tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/viewmig/internal/service"
	"github.com/aretw0/viewmig/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// AttrsResult is the structured output of convert_attrs.
type AttrsResult struct {
	Attributes map[string]string `json:"attributes" jsonschema_description:"Expression per attribute (invisible, required, readonly, column_invisible)"`
}

// DomainResult is the structured output of convert_domain.
type DomainResult struct {
	Expression string `json:"expression" jsonschema_description:"The converted boolean expression"`
}

// StatesResult is the structured output of combine_states.
type StatesResult struct {
	Invisible string `json:"invisible" jsonschema_description:"The invisible expression including the states condition"`
}

// Server wraps a Converter and exposes it as an MCP Server.
type Server struct {
	conv      *service.Converter
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(conv *service.Converter, version string) *Server {
	s := &Server{
		conv:      conv,
		mcpServer: server.NewMCPServer("viewmig-mcp", version),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and shuts it down
// when ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	attrsTool := mcp.NewTool("convert_attrs",
		mcp.WithDescription("Convert an Odoo view attrs dictionary into one Python expression per attribute."),
		mcp.WithString("attrs", mcp.Required(), mcp.Description("The attrs attribute text, e.g. {'invisible': [('state', '=', 'draft')]}")),
		mcp.WithOutputSchema[AttrsResult](),
	)
	s.mcpServer.AddTool(attrsTool, mcp.NewStructuredToolHandler(s.handleConvertAttrs))

	domainTool := mcp.NewTool("convert_domain",
		mcp.WithDescription("Convert a single Odoo domain, in Polish notation, into a Python expression."),
		mcp.WithString("domain", mcp.Required(), mcp.Description("The domain text, e.g. ['|', ('a', '=', 1), ('b', '=', 2)]")),
		mcp.WithOutputSchema[DomainResult](),
	)
	s.mcpServer.AddTool(domainTool, mcp.NewStructuredToolHandler(s.handleConvertDomain))

	statesTool := mcp.NewTool("combine_states",
		mcp.WithDescription("Fold a legacy states list into an invisible expression."),
		mcp.WithString("states", mcp.Required(), mcp.Description("Comma separated states, e.g. draft,sent")),
		mcp.WithString("invisible", mcp.Description("Existing invisible expression (optional)")),
		mcp.WithOutputSchema[StatesResult](),
	)
	s.mcpServer.AddTool(statesTool, mcp.NewStructuredToolHandler(s.handleCombineStates))
}

func (s *Server) handleConvertAttrs(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (AttrsResult, error) {
	raw, _ := args["attrs"].(string)
	set, err := s.conv.Attrs(raw)
	if err != nil {
		slog.Warn("MCP convert_attrs failed", "kind", domain.ErrorKind(err), "error", err)
		return AttrsResult{}, fmt.Errorf("convert attrs: %w", err)
	}
	return AttrsResult{Attributes: set.Map()}, nil
}

func (s *Server) handleConvertDomain(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (DomainResult, error) {
	text, _ := args["domain"].(string)
	expr, err := s.conv.Domain(text)
	if err != nil {
		slog.Warn("MCP convert_domain failed", "kind", domain.ErrorKind(err), "error", err)
		return DomainResult{}, fmt.Errorf("convert domain: %w", err)
	}
	return DomainResult{Expression: expr}, nil
}

func (s *Server) handleCombineStates(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StatesResult, error) {
	states, _ := args["states"].(string)
	invisible, _ := args["invisible"].(string)
	return StatesResult{Invisible: s.conv.States(states, invisible)}, nil
}
