// Package catalog holds the static table of upstream REST operations and the
// lookup indexes derived from it. A Catalog is immutable once built and safe
// for concurrent use.
package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"
)

var placeholderRe = regexp.MustCompile(`\{([^{}]+)\}`)

// Catalog is the validated endpoint table plus its tag and operation-id indexes.
type Catalog struct {
	ids       []string
	endpoints map[string]*EndpointSpec
	byTag     map[string][]string
	byOpID    map[string]string
}

// New validates specs and builds the indexes in a single pass.
// Any invariant violation is returned as an error; callers treat it as fatal.
// Specs are copied, and their order becomes the catalog order.
func New(specs []EndpointSpec) (*Catalog, error) {
	c := &Catalog{
		ids:       make([]string, 0, len(specs)),
		endpoints: make(map[string]*EndpointSpec, len(specs)),
		byTag:     make(map[string][]string),
		byOpID:    make(map[string]string),
	}

	var errs []error
	for i := range specs {
		spec, err := normalize(specs[i])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := c.endpoints[spec.ID]; dup {
			errs = append(errs, fmt.Errorf("endpoint %q: duplicate id", spec.ID))
			continue
		}
		if spec.OperationID != "" {
			if other, dup := c.byOpID[spec.OperationID]; dup {
				errs = append(errs, fmt.Errorf("endpoint %q: operation id %q already used by %q", spec.ID, spec.OperationID, other))
				continue
			}
			c.byOpID[spec.OperationID] = spec.ID
		}

		c.ids = append(c.ids, spec.ID)
		c.endpoints[spec.ID] = spec
		for _, tag := range lo.Uniq(lo.Map(spec.Tags, func(t string, _ int) string { return strings.ToLower(t) })) {
			c.byTag[tag] = append(c.byTag[tag], spec.ID)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid catalog: %w", errors.Join(errs...))
	}
	return c, nil
}

// MustNew is New for static tables known to be valid.
func MustNew(specs []EndpointSpec) *Catalog {
	c, err := New(specs)
	if err != nil {
		panic(err)
	}
	return c
}

func normalize(in EndpointSpec) (*EndpointSpec, error) {
	spec := in
	if spec.ID == "" {
		return nil, fmt.Errorf("endpoint with path %q has empty id", spec.Path)
	}
	spec.Method = Method(strings.ToUpper(string(spec.Method)))
	if !spec.Method.Valid() {
		return nil, fmt.Errorf("endpoint %q: unsupported method %q", spec.ID, in.Method)
	}
	if !strings.HasPrefix(spec.Path, "/") {
		return nil, fmt.Errorf("endpoint %q: path %q must start with /", spec.ID, spec.Path)
	}

	spec.Tags = lo.Compact(spec.Tags)
	if len(spec.Tags) == 0 {
		spec.Tags = []string{UntaggedTag}
	} else {
		spec.Tags = append([]string(nil), spec.Tags...)
	}

	spec.Parameters = append([]ParameterSpec(nil), in.Parameters...)
	seen := make(map[string]bool, len(spec.Parameters))
	pathParams := make(map[string]int)
	for i := range spec.Parameters {
		p := &spec.Parameters[i]
		if p.Name == "" {
			return nil, fmt.Errorf("endpoint %q: parameter %d has empty name", spec.ID, i)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("endpoint %q: duplicate parameter %q", spec.ID, p.Name)
		}
		seen[p.Name] = true
		if !p.Location.Valid() {
			return nil, fmt.Errorf("endpoint %q: parameter %q has unsupported location %q", spec.ID, p.Name, p.Location)
		}
		if p.Type == "" {
			p.Type = "string"
		}
		if p.Location == InPath {
			// A placeholder cannot be left unfilled.
			p.Required = true
			pathParams[p.Name]++
			if p.Pattern != "" {
				re, err := compilePattern(p.Pattern)
				if err != nil {
					return nil, fmt.Errorf("endpoint %q: parameter %q has invalid pattern: %w", spec.ID, p.Name, err)
				}
				p.pattern = re
			}
		}
	}

	for _, name := range Placeholders(spec.Path) {
		if pathParams[name] != 1 {
			return nil, fmt.Errorf("endpoint %q: placeholder {%s} has no path parameter", spec.ID, name)
		}
	}
	return &spec, nil
}

// Placeholders returns the {name} placeholders of a path template in order.
func Placeholders(path string) []string {
	matches := placeholderRe.FindAllStringSubmatch(path, -1)
	return lo.Map(matches, func(m []string, _ int) string { return m[1] })
}

// Lookup returns the endpoint with the given id.
func (c *Catalog) Lookup(id string) (*EndpointSpec, bool) {
	e, ok := c.endpoints[id]
	return e, ok
}

// LookupByOperationID resolves an external operation id.
func (c *Catalog) LookupByOperationID(opID string) (*EndpointSpec, bool) {
	id, ok := c.byOpID[opID]
	if !ok {
		return nil, false
	}
	return c.Lookup(id)
}

// ListByTag returns endpoint ids carrying tag, compared case-insensitively.
func (c *Catalog) ListByTag(tag string) []string {
	return append([]string(nil), c.byTag[strings.ToLower(tag)]...)
}

// AllTags returns every lower-cased tag, sorted.
func (c *Catalog) AllTags() []string {
	tags := lo.Keys(c.byTag)
	sort.Strings(tags)
	return tags
}

// IDs returns endpoint ids in catalog order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.ids...)
}

// Endpoints returns the endpoints in catalog order.
func (c *Catalog) Endpoints() []*EndpointSpec {
	return lo.Map(c.ids, func(id string, _ int) *EndpointSpec { return c.endpoints[id] })
}

// Len returns the number of endpoints.
func (c *Catalog) Len() int {
	return len(c.ids)
}
