package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jonwraymond/boardops/businessmap"
	"github.com/jonwraymond/boardops/observe"
)

// ErrNilFactory is returned when a server is built without a client
// factory.
var ErrNilFactory = errors.New("tool: client factory required")

// Config configures a Server.
type Config struct {
	// Factory resolves instance names to API clients. Required.
	Factory *businessmap.Factory

	// Middleware wraps every tool call with tracing, metrics, and
	// logging.
	// Default: observe.NoopMiddleware()
	Middleware *observe.Middleware

	// DefaultInstance is used when a call omits the "instance" argument.
	// Empty means the configuration document's own default.
	DefaultInstance string

	// Name is the MCP server name advertised during initialization.
	// Default: "boardops"
	Name string

	// Version is the advertised server version.
	// Default: "dev"
	Version string

	// Instructions is an optional usage hint sent to clients.
	Instructions string
}

// Server is the MCP tool surface over board operations.
type Server struct {
	factory         *businessmap.Factory
	mw              *observe.Middleware
	defaultInstance string
	mcp             *server.MCPServer
}

// NewServer creates an MCP server with every board tool registered.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Factory == nil {
		return nil, ErrNilFactory
	}
	if cfg.Middleware == nil {
		cfg.Middleware = observe.NoopMiddleware()
	}
	if cfg.Name == "" {
		cfg.Name = "boardops"
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	opts := []server.ServerOption{
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	}
	if cfg.Instructions != "" {
		opts = append(opts, server.WithInstructions(cfg.Instructions))
	}

	s := &Server{
		factory:         cfg.Factory,
		mw:              cfg.Middleware,
		defaultInstance: cfg.DefaultInstance,
		mcp:             server.NewMCPServer(cfg.Name, cfg.Version, opts...),
	}
	s.registerTools()
	return s, nil
}

// MCPServer returns the underlying MCP server, for custom transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves MCP over stdin/stdout until the stream closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// StreamableHandler returns an MCP streamable-HTTP handler for this
// server, for callers that mount it on their own mux.
func (s *Server) StreamableHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp)
}

func (s *Server) registerTools() {
	// Reads
	s.mcp.AddTool(listWorkspacesTool(), s.handle("list_workspaces", false, s.listWorkspaces))
	s.mcp.AddTool(listBoardsTool(), s.handle("list_boards", false, s.listBoards))
	s.mcp.AddTool(getBoardTool(), s.handle("get_board", false, s.getBoard))
	s.mcp.AddTool(listColumnsTool(), s.handle("list_columns", false, s.listColumns))
	s.mcp.AddTool(listLanesTool(), s.handle("list_lanes", false, s.listLanes))
	s.mcp.AddTool(listCardsTool(), s.handle("list_cards", false, s.listCards))
	s.mcp.AddTool(getCardTool(), s.handle("get_card", false, s.getCard))
	s.mcp.AddTool(listCommentsTool(), s.handle("list_comments", false, s.listComments))

	// Mutations
	s.mcp.AddTool(createCardTool(), s.handle("create_card", true, s.createCard))
	s.mcp.AddTool(updateCardTool(), s.handle("update_card", true, s.updateCard))
	s.mcp.AddTool(moveCardTool(), s.handle("move_card", true, s.moveCard))
	s.mcp.AddTool(deleteCardTool(), s.handle("delete_card", true, s.deleteCard))
	s.mcp.AddTool(addCommentTool(), s.handle("add_comment", true, s.addComment))

	// Cache administration
	s.mcp.AddTool(cacheStatsTool(), s.handle("cache_stats", false, s.cacheStats))
	s.mcp.AddTool(clearCacheTool(), s.handle("clear_cache", false, s.clearCache))
}

// toolHandler is the domain half of a tool: it gets a resolved client and
// returns a value to serialize.
type toolHandler func(ctx context.Context, c *businessmap.Client, req mcp.CallToolRequest) (any, error)

// handle adapts a toolHandler into an MCP handler: resolve the client,
// reject mutations on read-only instances, run the call under the observe
// middleware, and render the result as JSON text. Domain failures become
// tool error results, not protocol errors.
func (s *Server) handle(name string, mutating bool, fn toolHandler) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		instance := req.GetString("instance", "")
		if instance == "" {
			instance = s.defaultInstance
		}
		client, err := s.factory.ClientFor(instance)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if mutating && client.ReadOnly() {
			return mcp.NewToolResultError(businessmap.ErrReadOnly.Error()), nil
		}

		meta := observe.CallMeta{
			Tool:     name,
			Instance: client.Instance(),
			ReadOnly: client.ReadOnly(),
		}
		call := s.mw.Wrap(func(ctx context.Context, _ observe.CallMeta, _ any) (any, error) {
			return fn(ctx, client, req)
		})

		out, err := call(ctx, meta, req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(out)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("tool: encoding result: %v", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// withInstance is the shared optional argument selecting the backend.
func withInstance() mcp.ToolOption {
	return mcp.WithString("instance",
		mcp.Description("Configured instance name. Omit to use the default instance."),
	)
}
