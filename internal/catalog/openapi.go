package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-yaml"
)

// RequestBodyParam names the synthetic body parameter created from an
// operation's request body.
const RequestBodyParam = "request_body"

var (
	camelBoundaryRe = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	nonIdentRe      = regexp.MustCompile(`[^a-z0-9]+`)
)

// LoadOpenAPIFile reads and converts an API description from disk.
func LoadOpenAPIFile(path string) ([]EndpointSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read API description %s: %w", path, err)
	}
	specs, err := LoadOpenAPI(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return specs, nil
}

// LoadOpenAPI converts a Swagger 2.0 or OpenAPI 3.x document (JSON or YAML)
// into endpoint specs, ordered by path then method.
func LoadOpenAPI(data []byte) ([]EndpointSpec, error) {
	doc, err := parseDocument(data)
	if err != nil {
		return nil, err
	}

	docSecured := len(doc.Security) > 0
	paths := doc.Paths.Map()
	keys := make([]string, 0, len(paths))
	for k := range paths {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var specs []EndpointSpec
	for _, path := range keys {
		item := paths[path]
		ops := item.Operations()
		methods := make([]string, 0, len(ops))
		for m := range ops {
			if Method(m).Valid() {
				methods = append(methods, m)
			}
		}
		sort.Strings(methods)

		for _, m := range methods {
			op := ops[m]
			spec := EndpointSpec{
				ID:           EndpointID(op.OperationID, m, path),
				Method:       Method(m),
				Path:         path,
				Description:  firstNonEmpty(op.Summary, op.Description),
				Tags:         op.Tags,
				Deprecated:   op.Deprecated,
				AuthRequired: docSecured,
				OperationID:  op.OperationID,
			}
			if op.Security != nil {
				spec.AuthRequired = len(*op.Security) > 0
			}
			spec.Parameters = convertParameters(item.Parameters, op)
			specs = append(specs, spec)
		}
	}
	return specs, nil
}

func parseDocument(data []byte) (*openapi3.T, error) {
	raw, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse API description: %w", err)
	}
	var probe struct {
		Swagger string `json:"swagger"`
		OpenAPI string `json:"openapi"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse API description: %w", err)
	}

	switch {
	case strings.HasPrefix(probe.Swagger, "2"):
		var doc2 openapi2.T
		if err := json.Unmarshal(raw, &doc2); err != nil {
			return nil, fmt.Errorf("failed to parse swagger 2.0 document: %w", err)
		}
		doc, err := openapi2conv.ToV3(&doc2)
		if err != nil {
			return nil, fmt.Errorf("failed to convert swagger 2.0 document: %w", err)
		}
		return doc, nil
	case strings.HasPrefix(probe.OpenAPI, "3"):
		doc, err := openapi3.NewLoader().LoadFromData(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to load openapi document: %w", err)
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("unsupported API description: no swagger or openapi version field")
	}
}

// convertParameters merges path-level and operation-level parameters,
// letting the operation override by (name, in). Cookie parameters are dropped.
func convertParameters(pathLevel openapi3.Parameters, op *openapi3.Operation) []ParameterSpec {
	type key struct{ name, in string }
	var order []key
	byKey := make(map[key]*openapi3.Parameter)
	for _, list := range []openapi3.Parameters{pathLevel, op.Parameters} {
		for _, ref := range list {
			if ref == nil || ref.Value == nil {
				continue
			}
			k := key{ref.Value.Name, ref.Value.In}
			if _, seen := byKey[k]; !seen {
				order = append(order, k)
			}
			byKey[k] = ref.Value
		}
	}

	var params []ParameterSpec
	for _, k := range order {
		p := byKey[k]
		loc := Location(p.In)
		if !loc.Valid() {
			continue
		}
		spec := ParameterSpec{
			Name:        p.Name,
			Type:        "string",
			Location:    loc,
			Required:    p.Required || loc == InPath,
			Description: p.Description,
			Example:     p.Example,
		}
		if s := schemaOf(p.Schema); s != nil {
			spec.Type = schemaType(s)
			if loc == InPath {
				spec.Pattern = s.Pattern
			}
			if spec.Example == nil {
				spec.Example = s.Example
			}
		}
		params = append(params, spec)
	}

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		body := op.RequestBody.Value
		spec := ParameterSpec{
			Name:        RequestBodyParam,
			Type:        "any",
			Location:    InBody,
			Required:    body.Required,
			Description: firstNonEmpty(body.Description, "request body"),
		}
		if mt := body.Content.Get("application/json"); mt != nil {
			spec.Example = mt.Example
			if spec.Example == nil {
				if s := schemaOf(mt.Schema); s != nil {
					spec.Example = s.Example
				}
			}
		}
		params = append(params, spec)
	}
	return params
}

func schemaOf(ref *openapi3.SchemaRef) *openapi3.Schema {
	if ref == nil {
		return nil
	}
	return ref.Value
}

func schemaType(s *openapi3.Schema) string {
	if s.Type == nil || len(*s.Type) == 0 {
		return "any"
	}
	return (*s.Type)[0]
}

// EndpointID derives a catalog id from an operation id, splitting only at
// lower-to-upper boundaries: CBPETGetAccountBalanceUsingGET becomes
// cbpetget_account_balance_using_get. Without an operation id the method and
// path are used instead.
func EndpointID(operationID, method, path string) string {
	src := operationID
	if strings.TrimSpace(src) == "" {
		src = method + "_" + path
	}
	id := camelBoundaryRe.ReplaceAllString(src, "${1}_${2}")
	id = nonIdentRe.ReplaceAllString(strings.ToLower(id), "_")
	return strings.Trim(id, "_")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
