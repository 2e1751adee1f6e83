package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/bancs-mcp/internal/common"
)

// ToolVersion reports build metadata and the upstream target.
const ToolVersion = "get_version"

// versionInfo is the get_version payload.
type versionInfo struct {
	Version   string `json:"version"`
	Build     string `json:"build"`
	Commit    string `json:"commit"`
	BaseURL   string `json:"base_url"`
	Endpoints int    `json:"endpoints"`
}

// VersionTool returns the mcp.Tool definition for get_version.
func VersionTool() mcp.Tool {
	return mcp.NewTool(ToolVersion,
		mcp.WithDescription("Get the BaNCS MCP server version, the upstream base URL and the number of catalogued endpoints. Use this to verify connectivity."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

// VersionToolHandler answers from local state only; the upstream is not contacted.
func VersionToolHandler(baseURL string, endpoints int) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(versionInfo{
			Version:   common.GetVersion(),
			Build:     common.GetBuild(),
			Commit:    common.GetGitCommit(),
			BaseURL:   baseURL,
			Endpoints: endpoints,
		}), nil
	}
}
