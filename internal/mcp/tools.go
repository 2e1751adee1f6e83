package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/bancs-mcp/internal/common"
	"github.com/bobmcallan/bancs-mcp/internal/dispatch"
	"github.com/bobmcallan/bancs-mcp/internal/result"
)

// Generic tool names.
const (
	ToolListEndpoints = "list_api_endpoints"
	ToolGetSchema     = "get_api_endpoint_schema"
	ToolInvoke        = "invoke_api_endpoint"
)

// ListEndpointsTool returns the discovery tool definition.
func ListEndpointsTool() mcp.Tool {
	return mcp.NewTool(ToolListEndpoints,
		mcp.WithDescription("Search and list available API endpoints. Without a tag filter, results are grouped by tag together with the list of known tags; with a tag filter, or when nothing matches, a flat list is returned along with the applied search criteria."),
		mcp.WithString("search_query", mcp.Description("Text to search in names, descriptions, paths or tags")),
		mcp.WithString("tag", mcp.Description("Filter by API domain/tag (e.g. \"accountmanagement\")")),
		mcp.WithString("method", mcp.Description("Filter by HTTP method (GET, POST, PUT, DELETE, PATCH)")),
		mcp.WithBoolean("include_deprecated", mcp.Description("Include deprecated endpoints")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

// GetSchemaTool returns the schema introspection tool definition.
func GetSchemaTool() mcp.Tool {
	return mcp.NewTool(ToolGetSchema,
		mcp.WithDescription("Get the detailed schema for one API endpoint, by endpoint name (from list_api_endpoints) or by its OpenAPI operationId. Returns parameter locations, types, requirements and an example call."),
		mcp.WithString("endpoint_name", mcp.Description("Endpoint name from list_api_endpoints")),
		mcp.WithString("operation_id", mcp.Description("OpenAPI operationId, used instead of endpoint_name")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

// InvokeTool returns the generic invocation tool definition.
func InvokeTool() mcp.Tool {
	return mcp.NewTool(ToolInvoke,
		mcp.WithDescription("Invoke any API endpoint by name or operationId. Parameters are validated against the endpoint schema (use get_api_endpoint_schema for requirements) and sent as path, query, header or body values."),
		mcp.WithString("endpoint_name", mcp.Description("Endpoint name from list_api_endpoints")),
		mcp.WithString("operation_id", mcp.Description("OpenAPI operationId, used instead of endpoint_name")),
		mcp.WithObject("params", mcp.Description("Parameter name to value")),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

// ListEndpointsHandler serves list_api_endpoints.
func ListEndpointsHandler(d *dispatch.Dispatcher, logger *common.Logger) server.ToolHandlerFunc {
	return withCorrelation(ToolListEndpoints, logger, func(_ context.Context, r mcp.CallToolRequest, log *common.Logger) *mcp.CallToolResult {
		opts := dispatch.ListOptions{
			Query:             r.GetString("search_query", ""),
			Tag:               r.GetString("tag", ""),
			Method:            r.GetString("method", ""),
			IncludeDeprecated: r.GetBool("include_deprecated", false),
		}
		listing := d.ListEndpoints(opts)
		log.Debug().Str("tag", opts.Tag).Str("query", opts.Query).Int("total", listing.TotalEndpoints).Msg("list endpoints")
		return jsonResult(listing)
	})
}

// GetSchemaHandler serves get_api_endpoint_schema.
func GetSchemaHandler(d *dispatch.Dispatcher, logger *common.Logger) server.ToolHandlerFunc {
	return withCorrelation(ToolGetSchema, logger, func(_ context.Context, r mcp.CallToolRequest, _ *common.Logger) *mcp.CallToolResult {
		schema, rerr := d.GetEndpointSchema(refFrom(r))
		if rerr != nil {
			return toolResult(result.Fail(rerr))
		}
		return jsonResult(schema)
	})
}

// InvokeHandler serves invoke_api_endpoint.
func InvokeHandler(d *dispatch.Dispatcher, logger *common.Logger) server.ToolHandlerFunc {
	return withCorrelation(ToolInvoke, logger, func(ctx context.Context, r mcp.CallToolRequest, log *common.Logger) *mcp.CallToolResult {
		params, err := argumentMap(r, "params")
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err))
		}
		ref := refFrom(r)
		log.Debug().Str("endpoint", ref.String()).Int("params", len(params)).Msg("invoke endpoint")
		return toolResult(d.Invoke(ctx, ref, params))
	})
}

func refFrom(r mcp.CallToolRequest) dispatch.Ref {
	return dispatch.Ref{
		EndpointID:  r.GetString("endpoint_name", ""),
		OperationID: r.GetString("operation_id", ""),
	}
}

// RegisterGenericTools registers discovery, schema and invoke.
func RegisterGenericTools(s *server.MCPServer, d *dispatch.Dispatcher, logger *common.Logger) int {
	s.AddTool(ListEndpointsTool(), ListEndpointsHandler(d, logger))
	s.AddTool(GetSchemaTool(), GetSchemaHandler(d, logger))
	s.AddTool(InvokeTool(), InvokeHandler(d, logger))
	return 3
}
