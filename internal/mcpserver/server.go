// Package mcpserver exposes the beacon schemas and store as MCP tools so an
// agent or a server process can revalidate and create beacons.
package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/mark3labs/beacon/internal/logger"
	"github.com/mark3labs/beacon/internal/store"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "beacon-tools"
	serverVersion = "1.0.0"
)

// Server wraps an MCP server with the beacon tools. It can serve over stdio
// or over streamable HTTP on a loopback port.
type Server struct {
	store  *store.Store
	author string

	mcpServer  *server.MCPServer
	stdServer  *http.Server
	port       int
	mu         sync.Mutex
}

// New creates a server. The store may be nil, in which case only the schema
// and validation tools are registered.
func New(st *store.Store, author string) *Server {
	s := &Server{store: st, author: author}
	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the tools over stdin/stdout until the input closes.
func (s *Server) ServeStdio() error {
	logger.Debug("Serving MCP tools over stdio")
	return server.ServeStdio(s.mcpServer)
}

// Start serves the tools over HTTP on a random loopback port and returns the
// port.
func (s *Server) Start(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer != nil {
		return 0, fmt.Errorf("server already started")
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("failed to find available port: %w", err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mux.Handle("/mcp", server.NewStreamableHTTPServer(s.mcpServer, server.WithStateLess(true)))
	s.stdServer = &http.Server{Handler: mux}

	stdServer := s.stdServer
	go func() {
		if err := stdServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("MCP server error: %v", err)
		}
	}()

	logger.Debug("MCP server ready on port %d", s.port)
	return s.port, nil
}

// Stop shuts the HTTP server down.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer == nil {
		return nil
	}
	if err := s.stdServer.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	s.stdServer = nil
	return nil
}

// URL returns the HTTP endpoint of a started server.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://localhost:%d/mcp", s.port)
}
