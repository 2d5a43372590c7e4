// Package mcpserver exposes the five tool-surface entry points
// (index_codebase, search_code, clear_index, get_indexing_status,
// has_index) over MCP, as a thin translation layer around indexcore.Core.
package mcpserver

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
)

// Server manages the MCP server lifecycle, lazily building one
// indexcore.Core per codebase path as tools are called against it.
type Server struct {
	registry *coreRegistry
	mcp      *server.MCPServer
}

// New creates an MCP server and registers the codectx tool surface.
func New() *Server {
	registry := newCoreRegistry()

	mcpServer := server.NewMCPServer(
		"codectx-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s := &Server{registry: registry, mcp: mcpServer}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting codectx MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		cancel()
		return s.Close()
	case err := <-errCh:
		cancel()
		s.Close()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases every codebase's open store and embedding provider.
func (s *Server) Close() error {
	return s.registry.closeAll()
}
