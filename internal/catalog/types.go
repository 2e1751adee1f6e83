package catalog

import (
	"regexp"
	"strings"
)

// Method is an HTTP verb accepted in the catalog.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
	MethodPatch  Method = "PATCH"
)

// Valid reports whether m is one of the supported verbs.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch:
		return true
	}
	return false
}

// Location says where a parameter travels in the request.
type Location string

const (
	InPath   Location = "path"
	InQuery  Location = "query"
	InBody   Location = "body"
	InHeader Location = "header"
)

// Valid reports whether l is a known location.
func (l Location) Valid() bool {
	switch l {
	case InPath, InQuery, InBody, InHeader:
		return true
	}
	return false
}

// UntaggedTag is assigned to endpoints declared without tags.
const UntaggedTag = "untagged"

// EndpointSpec describes one remote operation.
type EndpointSpec struct {
	ID           string          `json:"id"`
	Method       Method          `json:"method"`
	Path         string          `json:"path"`
	Description  string          `json:"description"`
	Tags         []string        `json:"tags"`
	Deprecated   bool            `json:"deprecated"`
	AuthRequired bool            `json:"auth_required"`
	OperationID  string          `json:"operation_id,omitempty"`
	Parameters   []ParameterSpec `json:"parameters"`
}

// Parameter returns the declared parameter with the given name.
func (e *EndpointSpec) Parameter(name string) (*ParameterSpec, bool) {
	for i := range e.Parameters {
		if e.Parameters[i].Name == name {
			return &e.Parameters[i], true
		}
	}
	return nil, false
}

// ParameterSpec describes one parameter of an endpoint.
// Type is informational; only presence and Pattern are enforced.
type ParameterSpec struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Location    Location `json:"location"`
	Required    bool     `json:"required"`
	Description string   `json:"description"`
	// Pattern applies to path parameters only.
	Pattern string `json:"pattern,omitempty"`
	Example any    `json:"example,omitempty"`

	pattern *regexp.Regexp
}

// MatchPattern reports whether value satisfies the declared pattern.
// Like the upstream contract, the match is anchored at the start only.
func (p *ParameterSpec) MatchPattern(value string) bool {
	if p.Pattern == "" {
		return true
	}
	re := p.pattern
	if re == nil {
		var err error
		if re, err = compilePattern(p.Pattern); err != nil {
			return false
		}
	}
	return re.MatchString(value)
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if strings.HasPrefix(pattern, "^") {
		return regexp.Compile(pattern)
	}
	return regexp.Compile("^(?:" + pattern + ")")
}
