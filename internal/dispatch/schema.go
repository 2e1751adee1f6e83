package dispatch

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/bobmcallan/bancs-mcp/internal/catalog"
	"github.com/bobmcallan/bancs-mcp/internal/result"
)

const (
	maxSuggestions       = 5
	maxFallbackSuggested = 10
)

// ParameterDetail describes one parameter in a schema response.
type ParameterDetail struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Location    string `json:"location"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
	Pattern     string `json:"pattern,omitempty"`
	Example     any    `json:"example,omitempty"`
}

// ExampleUsage is a ready-to-edit invocation payload.
type ExampleUsage struct {
	Endpoint string         `json:"endpoint"`
	Params   map[string]any `json:"params"`
}

// EndpointSchema is the full description of one endpoint.
type EndpointSchema struct {
	EndpointName string            `json:"endpoint_name"`
	OperationID  string            `json:"operation_id"`
	Method       string            `json:"method"`
	Path         string            `json:"path"`
	Description  string            `json:"description"`
	Tags         []string          `json:"tags"`
	Deprecated   bool              `json:"deprecated"`
	AuthRequired bool              `json:"auth_required"`
	Parameters   []ParameterDetail `json:"parameters"`
	ExampleUsage ExampleUsage      `json:"example_usage"`
}

// ParameterSchema is attached to validation errors so the caller can
// correct the call.
type ParameterSchema struct {
	Method     string            `json:"method"`
	Path       string            `json:"path"`
	Parameters []ParameterDetail `json:"parameters"`
}

// GetEndpointSchema describes the referenced endpoint, or returns a
// not-found error with suggestions.
func (d *Dispatcher) GetEndpointSchema(ref Ref) (*EndpointSchema, *result.Error) {
	e, ok := d.resolve(ref)
	if !ok {
		return nil, result.NotFound(ref.String(), d.suggest(ref.String()))
	}
	return describe(e), nil
}

// suggest returns up to five ids containing needle, or the first ten ids
// when nothing matches.
func (d *Dispatcher) suggest(needle string) []string {
	ids := d.catalog.IDs()
	if needle != "" {
		lower := strings.ToLower(needle)
		matches := lo.Filter(ids, func(id string, _ int) bool {
			return strings.Contains(strings.ToLower(id), lower)
		})
		if len(matches) > 0 {
			return lo.Subset(matches, 0, maxSuggestions)
		}
	}
	return lo.Subset(ids, 0, maxFallbackSuggested)
}

func describe(e *catalog.EndpointSpec) *EndpointSchema {
	params := details(e)
	example := make(map[string]any)
	for _, p := range e.Parameters {
		switch {
		case p.Example != nil:
			example[p.Name] = p.Example
		case p.Required:
			example[p.Name] = fmt.Sprintf("<%s>", p.Type)
		}
	}

	return &EndpointSchema{
		EndpointName: e.ID,
		OperationID:  e.OperationID,
		Method:       string(e.Method),
		Path:         e.Path,
		Description:  e.Description,
		Tags:         append([]string(nil), e.Tags...),
		Deprecated:   e.Deprecated,
		AuthRequired: e.AuthRequired,
		Parameters:   params,
		ExampleUsage: ExampleUsage{Endpoint: e.ID, Params: example},
	}
}

func parameterSchema(e *catalog.EndpointSpec) *ParameterSchema {
	return &ParameterSchema{
		Method:     string(e.Method),
		Path:       e.Path,
		Parameters: details(e),
	}
}

func details(e *catalog.EndpointSpec) []ParameterDetail {
	return lo.Map(e.Parameters, func(p catalog.ParameterSpec, _ int) ParameterDetail {
		return ParameterDetail{
			Name:        p.Name,
			Type:        p.Type,
			Location:    string(p.Location),
			Required:    p.Required,
			Description: p.Description,
			Pattern:     p.Pattern,
			Example:     p.Example,
		}
	})
}
