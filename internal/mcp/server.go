package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/partscope/internal/catalog"
	"github.com/ziadkadry99/partscope/internal/history"
	"github.com/ziadkadry99/partscope/internal/notify"
	"github.com/ziadkadry99/partscope/internal/render"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Dispatcher answers a free-text question.
type Dispatcher interface {
	Dispatch(ctx context.Context, question string, sink notify.Sink) catalog.QueryResult
}

// Characteristics fetches the curve of one component.
type Characteristics interface {
	Characteristics(ctx context.Context, id string) (*catalog.SearchResult, error)
}

// History lists recently asked questions.
type History interface {
	List(ctx context.Context, limit int) []history.Entry
}

// Server wraps an MCP server that exposes the catalog to agents.
type Server struct {
	dispatcher Dispatcher
	curves     Characteristics
	history    History
	renderer   *render.Renderer
	mcp        *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies. curves
// and hist may be nil; their tools then report that they are unavailable.
func NewServer(dispatcher Dispatcher, curves Characteristics, hist History, renderer *render.Renderer) *Server {
	if renderer == nil {
		renderer = render.New(render.Options{})
	}
	s := &Server{
		dispatcher: dispatcher,
		curves:     curves,
		history:    hist,
		renderer:   renderer,
	}

	s.mcp = server.NewMCPServer(
		"partscope",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(classifyQueryTool, s.handleClassifyQuery)
	s.mcp.AddTool(askCatalogTool, s.handleAskCatalog)
	s.mcp.AddTool(getCharacteristicsTool, s.handleGetCharacteristics)
	s.mcp.AddTool(recentQueriesTool, s.handleRecentQueries)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
