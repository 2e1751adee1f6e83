package dispatch

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"github.com/bobmcallan/bancs-mcp/internal/catalog"
	"github.com/bobmcallan/bancs-mcp/internal/executor"
	"github.com/bobmcallan/bancs-mcp/internal/result"
)

// DiscoveryHint is attached to not-found errors from Invoke.
const DiscoveryHint = "Use list_api_endpoints to discover available endpoints"

const outcomeOK = "ok"

// Invoke validates params against the referenced endpoint and executes it.
// Validation failures return before any request is made. Parameters the
// endpoint does not declare are ignored.
func (d *Dispatcher) Invoke(ctx context.Context, ref Ref, params map[string]any) result.Result {
	e, ok := d.resolve(ref)
	if !ok {
		notFound := result.NotFound(ref.String(), d.suggest(ref.String()))
		notFound.Hint = DiscoveryHint
		d.metrics.ObserveInvocation("unknown", string(result.KindNotFound))
		return result.Fail(notFound)
	}

	d.logger.Debug().Str("endpoint", e.ID).Int("params", len(params)).Msg("invoke endpoint")

	supplied := bindParameters(e, params)

	var missing []string
	for _, p := range e.Parameters {
		if _, ok := supplied[p.Name]; p.Required && !ok {
			missing = append(missing, p.Name)
		}
	}
	if len(missing) > 0 {
		d.logger.Info().Str("endpoint", e.ID).Strs("missing", missing).Msg("invoke rejected: missing required parameters")
		d.metrics.ObserveInvocation(e.ID, string(result.KindValidation))
		return result.Fail(result.MissingParameters(missing, parameterSchema(e)))
	}

	req := executor.Request{Method: string(e.Method)}
	pathValues := make(map[string]string)
	for _, p := range e.Parameters {
		value, ok := supplied[p.Name]
		if !ok {
			continue
		}
		switch p.Location {
		case catalog.InPath:
			s := executor.Stringify(value)
			if !p.MatchPattern(s) {
				d.logger.Info().Str("endpoint", e.ID).Str("parameter", p.Name).Str("pattern", p.Pattern).Msg("invoke rejected: pattern mismatch")
				d.metrics.ObserveInvocation(e.ID, string(result.KindValidation))
				return result.Fail(result.PatternMismatch(p.Name, p.Pattern, s, parameterSchema(e)))
			}
			pathValues[p.Name] = s
		case catalog.InQuery:
			if req.Query == nil {
				req.Query = make(map[string]any)
			}
			req.Query[p.Name] = value
		case catalog.InBody:
			body, _ := req.Body.(map[string]any)
			if body == nil {
				body = make(map[string]any)
			}
			body[p.Name] = value
			req.Body = body
		case catalog.InHeader:
			if req.Headers == nil {
				req.Headers = make(map[string]string)
			}
			req.Headers[p.Name] = executor.Stringify(value)
		}
	}
	req.Path = substitutePath(e.Path, pathValues)

	res := d.exec.Execute(ctx, req)
	outcome := outcomeOK
	if res.IsError() {
		outcome = string(res.Err.Kind)
	}
	d.metrics.ObserveInvocation(e.ID, outcome)
	return res
}

// bindParameters maps supplied names onto declared ones. An exact name wins;
// otherwise the first supplied key (in sorted order) equal under case folding
// is used.
func bindParameters(e *catalog.EndpointSpec, params map[string]any) map[string]any {
	bound := make(map[string]any, len(params))
	if len(params) == 0 {
		return bound
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, p := range e.Parameters {
		if v, ok := params[p.Name]; ok {
			bound[p.Name] = v
			continue
		}
		for _, k := range keys {
			if strings.EqualFold(k, p.Name) {
				bound[p.Name] = params[k]
				break
			}
		}
	}
	return bound
}

func substitutePath(template string, values map[string]string) string {
	path := template
	for name, v := range values {
		path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(v))
	}
	return path
}
