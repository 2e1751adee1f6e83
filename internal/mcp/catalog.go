package mcp

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/bancs-mcp/internal/bancs"
	"github.com/bobmcallan/bancs-mcp/internal/catalog"
	"github.com/bobmcallan/bancs-mcp/internal/common"
)

var nonArgNameRe = regexp.MustCompile(`[^a-z0-9_]`)

// ArgumentName converts a declared parameter name into a tool argument
// name: Co-Relationid becomes co_relationid.
func ArgumentName(name string) string {
	name = strings.NewReplacer(" ", "_", "-", "_").Replace(name)
	name = nonArgNameRe.ReplaceAllString(strings.ToLower(name), "")
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "param_" + name
	}
	return name
}

// BuildMCPTool converts a catalog endpoint into an mcp.Tool whose arguments
// mirror the endpoint's parameters.
func BuildMCPTool(e *catalog.EndpointSpec) mcp.Tool {
	desc := e.Description
	if desc == "" {
		desc = fmt.Sprintf("%s %s", e.Method, e.Path)
	}
	opts := []mcp.ToolOption{mcp.WithDescription(fmt.Sprintf("%s\n\n%s %s", desc, e.Method, e.Path))}
	for _, p := range e.Parameters {
		opts = append(opts, buildParamOption(p))
	}
	if e.Method == catalog.MethodGet {
		opts = append(opts, mcp.WithReadOnlyHintAnnotation(true))
	}
	return mcp.NewTool(e.ID, opts...)
}

// buildParamOption maps a ParameterSpec to the appropriate mcp-go tool option.
func buildParamOption(p catalog.ParameterSpec) mcp.ToolOption {
	var opts []mcp.PropertyOption
	desc := p.Description
	if p.Location == catalog.InHeader {
		desc = strings.TrimSpace(fmt.Sprintf("%s (header %s)", desc, p.Name))
	}
	if desc != "" {
		opts = append(opts, mcp.Description(desc))
	}
	if p.Required {
		opts = append(opts, mcp.Required())
	}

	name := ArgumentName(p.Name)
	switch p.Type {
	case "integer", "number":
		return mcp.WithNumber(name, opts...)
	case "boolean":
		return mcp.WithBoolean(name, opts...)
	case "any", "object":
		return mcp.WithObject(name, opts...)
	default:
		return mcp.WithString(name, opts...)
	}
}

// CreateAccountHandler serves the typed create account tool.
func CreateAccountHandler(c *bancs.Client, logger *common.Logger) server.ToolHandlerFunc {
	return withCorrelation(catalog.CreateAccountID, logger, func(ctx context.Context, r mcp.CallToolRequest, _ *common.Logger) *mcp.CallToolResult {
		body, err := argumentMap(r, "request_body")
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err))
		}
		p := bancs.CreateAccountParams{
			Entity: optionalString(r, "entity"),
		}
		if body != nil {
			p.RequestBody = body
		}
		if p.LanguageCode, err = optionalInt(r, "languagecode"); err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err))
		}
		if p.UserID, err = optionalInt(r, "userid"); err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err))
		}
		return toolResult(c.CreateAccount(ctx, p))
	})
}

// AccountBalanceHandler serves the typed balance enquiry tool.
func AccountBalanceHandler(c *bancs.Client, logger *common.Logger) server.ToolHandlerFunc {
	return withCorrelation(catalog.AccountBalanceID, logger, func(ctx context.Context, r mcp.CallToolRequest, _ *common.Logger) *mcp.CallToolResult {
		p := bancs.AccountBalanceParams{
			AccountReference: r.GetString("accountreference", ""),
			AccessToken:      optionalString(r, "accesstoken"),
			InitiatingSystem: optionalString(r, "initiatingsystem"),
			Entity:           optionalString(r, "entity"),
			ReferenceID:      optionalString(r, "referenceid"),
		}
		ints := []struct {
			arg string
			dst **int
		}{
			{"channeltype", &p.ChannelType},
			{"co_relationid", &p.CoRelationID},
			{"servicemode", &p.ServiceMode},
			{"uuidseqno", &p.UUIDSeqNo},
			{"languagecode", &p.LanguageCode},
			{"userid", &p.UserID},
		}
		for _, f := range ints {
			v, err := optionalInt(r, f.arg)
			if err != nil {
				return errorResult(fmt.Sprintf("Error: %v", err))
			}
			*f.dst = v
		}
		return toolResult(c.GetAccountBalance(ctx, p))
	})
}

// RegisterTypedTools registers the hand-written BaNCS wrappers, taking each
// tool's argument schema from its catalog entry. Entries missing from the
// catalog are skipped.
func RegisterTypedTools(s *server.MCPServer, cat *catalog.Catalog, c *bancs.Client, logger *common.Logger) int {
	handlers := []struct {
		id      string
		handler server.ToolHandlerFunc
	}{
		{catalog.CreateAccountID, CreateAccountHandler(c, logger)},
		{catalog.AccountBalanceID, AccountBalanceHandler(c, logger)},
	}
	n := 0
	for _, h := range handlers {
		e, ok := cat.Lookup(h.id)
		if !ok {
			logger.Warn().Str("endpoint", h.id).Msg("typed tool has no catalog entry, skipping")
			continue
		}
		s.AddTool(BuildMCPTool(e), h.handler)
		n++
	}
	return n
}
