package mcp

import (
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/bancs-mcp/internal/bancs"
	"github.com/bobmcallan/bancs-mcp/internal/common"
	"github.com/bobmcallan/bancs-mcp/internal/dispatch"
)

// ServerName is advertised during MCP initialization.
const ServerName = "bancs-mcp"

// NewServer builds the MCP server with the generic catalog tools, the typed
// BaNCS wrappers and get_version.
func NewServer(d *dispatch.Dispatcher, c *bancs.Client, baseURL string, logger *common.Logger) *mcpserver.MCPServer {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	s := mcpserver.NewMCPServer(
		ServerName,
		common.GetVersion(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)

	generic := RegisterGenericTools(s, d, logger)
	typed := RegisterTypedTools(s, d.Catalog(), c, logger)
	s.AddTool(VersionTool(), VersionToolHandler(baseURL, d.Catalog().Len()))

	logger.Info().
		Int("generic_tools", generic).
		Int("typed_tools", typed).
		Int("endpoints", d.Catalog().Len()).
		Str("base_url", baseURL).
		Msg("MCP server initialized")
	return s
}

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer in stateless mode.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
}

// NewHandler exposes s over streamable HTTP.
func NewHandler(s *mcpserver.MCPServer, logger *common.Logger) *Handler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Handler{
		streamable: mcpserver.NewStreamableHTTPServer(s, mcpserver.WithStateLess(true)),
		logger:     logger,
	}
}

// ServeHTTP delegates to the streamable server.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}
