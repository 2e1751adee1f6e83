package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/bancs-mcp/internal/common"
	"github.com/bobmcallan/bancs-mcp/internal/result"
)

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// jsonResult renders v as a JSON text result.
func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.Marshal(v)
	if err != nil {
		return errorResult(fmt.Sprintf("Error: failed to marshal result: %v", err))
	}
	return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(string(out))}}
}

// toolResult renders a normalized result. Error results keep their JSON
// body so the caller can inspect the structured fields.
func toolResult(r result.Result) *mcp.CallToolResult {
	res := jsonResult(r)
	if r.IsError() {
		res.IsError = true
	}
	return res
}

// withCorrelation tags each call with a fresh correlation id and logs its
// duration and outcome.
func withCorrelation(name string, logger *common.Logger, next func(context.Context, mcp.CallToolRequest, *common.Logger) *mcp.CallToolResult) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := logger.WithCorrelationId(uuid.New().String())
		start := time.Now()

		res := next(ctx, r, log)

		log.Info().
			Str("tool", name).
			Bool("is_error", res.IsError).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("tool call")
		return res, nil
	}
}

// argumentMap reads an object argument. JSON-encoded strings are accepted
// for clients that cannot send nested objects.
func argumentMap(r mcp.CallToolRequest, key string) (map[string]any, error) {
	v, ok := r.GetArguments()[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case map[string]any:
		return t, nil
	case string:
		if t == "" {
			return nil, nil
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(t), &m); err != nil {
			return nil, fmt.Errorf("%s must be a JSON object: %w", key, err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%s must be an object, got %T", key, v)
	}
}

// optionalString returns nil when key is absent or null.
func optionalString(r mcp.CallToolRequest, key string) *string {
	v, ok := r.GetArguments()[key]
	if !ok || v == nil {
		return nil
	}
	s := r.GetString(key, fmt.Sprint(v))
	return &s
}

// optionalInt returns nil when key is absent or null.
func optionalInt(r mcp.CallToolRequest, key string) (*int, error) {
	v, ok := r.GetArguments()[key]
	if !ok || v == nil {
		return nil, nil
	}
	var i int
	switch t := v.(type) {
	case float64:
		if t != math.Trunc(t) {
			return nil, fmt.Errorf("%s must be an integer, got %v", key, t)
		}
		i = int(t)
	case int:
		i = t
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer, got %q", key, t)
		}
		i = n
	default:
		return nil, fmt.Errorf("%s must be an integer, got %T", key, v)
	}
	return &i, nil
}
