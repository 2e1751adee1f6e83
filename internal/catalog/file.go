package catalog

import (
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-yaml"
)

// LoadFile reads a YAML or JSON list of endpoint specs.
func LoadFile(path string) ([]EndpointSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	var specs []EndpointSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	return specs, nil
}

// Examples maps endpoint id to parameter name to example value,
// e.g. {"create_acnt_actv_using_post": {"request_body": {...}}}.
type Examples map[string]map[string]any

// LoadExamples reads an examples file (YAML or JSON).
func LoadExamples(path string) (Examples, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read examples file %s: %w", path, err)
	}
	var ex Examples
	if err := yaml.Unmarshal(data, &ex); err != nil {
		return nil, fmt.Errorf("failed to parse examples file %s: %w", path, err)
	}
	return ex, nil
}

// ApplyExamples attaches examples to matching parameters before the catalog
// is built. Unknown endpoints and parameters are skipped and reported.
func ApplyExamples(specs []EndpointSpec, ex Examples) (out []EndpointSpec, unmatched []string) {
	out = make([]EndpointSpec, len(specs))
	applied := make(map[string]bool)
	for i, spec := range specs {
		params := append([]ParameterSpec(nil), spec.Parameters...)
		for j := range params {
			if v, ok := ex[spec.ID][params[j].Name]; ok {
				params[j].Example = v
				applied[spec.ID+"."+params[j].Name] = true
			}
		}
		spec.Parameters = params
		out[i] = spec
	}
	for id, params := range ex {
		for name := range params {
			if !applied[id+"."+name] {
				unmatched = append(unmatched, id+"."+name)
			}
		}
	}
	sort.Strings(unmatched)
	return out, unmatched
}
