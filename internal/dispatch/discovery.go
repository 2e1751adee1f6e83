package dispatch

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/bobmcallan/bancs-mcp/internal/catalog"
)

// ListOptions filters discovery. Empty fields do not filter.
type ListOptions struct {
	Query             string
	Tag               string
	Method            string
	IncludeDeprecated bool
}

// EndpointSummary is one discovery hit.
type EndpointSummary struct {
	Name           string   `json:"name"`
	Method         string   `json:"method"`
	Path           string   `json:"path"`
	Description    string   `json:"description"`
	Tags           []string `json:"tags"`
	Deprecated     bool     `json:"deprecated"`
	AuthRequired   bool     `json:"auth_required"`
	ParameterCount int      `json:"parameter_count"`
}

// SearchCriteria echoes the applied filters in the flat listing.
type SearchCriteria struct {
	Query             string `json:"query"`
	Tag               string `json:"tag"`
	Method            string `json:"method"`
	IncludeDeprecated bool   `json:"include_deprecated"`
}

// Listing is the discovery result. It has one of two shapes: grouped
// (EndpointsByTag and AvailableTags set) when no tag filter was given and
// something matched, flat (Endpoints and SearchCriteria set) otherwise.
type Listing struct {
	TotalEndpoints int `json:"total_endpoints"`

	EndpointsByTag map[string][]EndpointSummary `json:"endpoints_by_tag,omitempty"`
	AvailableTags  []string                     `json:"available_tags,omitempty"`

	Endpoints      []EndpointSummary `json:"endpoints"`
	SearchCriteria *SearchCriteria   `json:"search_criteria,omitempty"`
}

// Grouped reports whether the listing uses the grouped shape.
func (l *Listing) Grouped() bool {
	return l.EndpointsByTag != nil
}

// MarshalJSON drops the field set belonging to the other shape.
func (l Listing) MarshalJSON() ([]byte, error) {
	if l.Grouped() {
		return json.Marshal(struct {
			TotalEndpoints int                          `json:"total_endpoints"`
			EndpointsByTag map[string][]EndpointSummary `json:"endpoints_by_tag"`
			AvailableTags  []string                     `json:"available_tags"`
		}{l.TotalEndpoints, l.EndpointsByTag, l.AvailableTags})
	}
	endpoints := l.Endpoints
	if endpoints == nil {
		endpoints = []EndpointSummary{}
	}
	return json.Marshal(struct {
		TotalEndpoints int               `json:"total_endpoints"`
		Endpoints      []EndpointSummary `json:"endpoints"`
		SearchCriteria *SearchCriteria   `json:"search_criteria"`
	}{l.TotalEndpoints, endpoints, l.SearchCriteria})
}

// ListEndpoints searches the catalog.
func (d *Dispatcher) ListEndpoints(opts ListOptions) *Listing {
	var candidates []*catalog.EndpointSpec
	if opts.Tag != "" {
		candidates = lo.FilterMap(d.catalog.ListByTag(opts.Tag), func(id string, _ int) (*catalog.EndpointSpec, bool) {
			return d.catalog.Lookup(id)
		})
	} else {
		candidates = d.catalog.Endpoints()
	}

	query := strings.ToLower(opts.Query)
	hits := lo.Filter(candidates, func(e *catalog.EndpointSpec, _ int) bool {
		if e.Deprecated && !opts.IncludeDeprecated {
			return false
		}
		if opts.Method != "" && !strings.EqualFold(string(e.Method), opts.Method) {
			return false
		}
		if query != "" {
			haystack := []string{e.ID, e.Description, e.Path, strings.Join(e.Tags, " ")}
			if !lo.ContainsBy(haystack, func(s string) bool { return strings.Contains(strings.ToLower(s), query) }) {
				return false
			}
		}
		return true
	})

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Deprecated != hits[j].Deprecated {
			return !hits[i].Deprecated
		}
		return hits[i].ID < hits[j].ID
	})
	summaries := lo.Map(hits, func(e *catalog.EndpointSpec, _ int) EndpointSummary { return summarize(e) })

	if opts.Tag == "" && len(summaries) > 0 {
		byTag := make(map[string][]EndpointSummary)
		for _, s := range summaries {
			for _, tag := range lo.Uniq(s.Tags) {
				byTag[tag] = append(byTag[tag], s)
			}
		}
		return &Listing{
			TotalEndpoints: len(summaries),
			EndpointsByTag: byTag,
			AvailableTags:  d.catalog.AllTags(),
		}
	}

	return &Listing{
		TotalEndpoints: len(summaries),
		Endpoints:      summaries,
		SearchCriteria: &SearchCriteria{
			Query:             opts.Query,
			Tag:               opts.Tag,
			Method:            opts.Method,
			IncludeDeprecated: opts.IncludeDeprecated,
		},
	}
}

func summarize(e *catalog.EndpointSpec) EndpointSummary {
	return EndpointSummary{
		Name:           e.ID,
		Method:         string(e.Method),
		Path:           e.Path,
		Description:    e.Description,
		Tags:           append([]string(nil), e.Tags...),
		Deprecated:     e.Deprecated,
		AuthRequired:   e.AuthRequired,
		ParameterCount: len(e.Parameters),
	}
}
