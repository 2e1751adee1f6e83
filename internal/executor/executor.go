// Package executor performs the single HTTP call behind every tool and turns
// the response into a result.Result. It never returns a Go error.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/bobmcallan/bancs-mcp/internal/common"
	"github.com/bobmcallan/bancs-mcp/internal/metrics"
	"github.com/bobmcallan/bancs-mcp/internal/result"
)

// maxResponseSize caps the response body to prevent OOM from unexpectedly large responses.
const maxResponseSize = 50 << 20 // 50MB

// DefaultTimeout applies when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Request is one upstream call. Empty maps and a nil Body are omitted.
type Request struct {
	Method  string
	Path    string
	Query   map[string]any
	Body    any
	Headers map[string]string
}

// Options configures an Executor.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// DebugErrors echoes the outgoing headers, query and body on upstream errors.
	DebugErrors bool
	Metrics     *metrics.Metrics
}

// Executor sends requests to the upstream base URL through one shared client.
type Executor struct {
	baseURL     string
	httpClient  *http.Client
	logger      *common.Logger
	metrics     *metrics.Metrics
	debugErrors bool
}

// New creates an Executor. The base URL's trailing slash is dropped.
func New(opts Options, logger *common.Logger) *Executor {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	client := &http.Client{
		Timeout: timeout,
		// Redirects come back to the caller as upstream errors.
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &Executor{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		httpClient:  client,
		logger:      logger,
		metrics:     opts.Metrics,
		debugErrors: opts.DebugErrors,
	}
}

// BaseURL returns the configured upstream base URL.
func (e *Executor) BaseURL() string {
	return e.baseURL
}

// Execute performs req and normalizes the outcome.
func (e *Executor) Execute(ctx context.Context, req Request) result.Result {
	method := strings.ToUpper(req.Method)
	target := e.baseURL + req.Path

	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	for k, v := range req.Headers {
		for d := range headers {
			if d != k && strings.EqualFold(d, k) {
				delete(headers, d)
			}
		}
		headers[k] = v
	}

	e.logger.Debug().Str("method", method).Str("url", target).Int("query_params", len(req.Query)).Int("headers", len(headers)).Bool("body", req.Body != nil).Msg("upstream request")

	httpReq, err := e.newRequest(ctx, method, target, req, headers)
	if err != nil {
		e.logger.Error().Str("method", method).Str("url", target).Str("error", err.Error()).Msg("upstream request failed")
		return result.Fail(result.Transport(err.Error()))
	}

	start := time.Now()
	resp, err := e.httpClient.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		e.metrics.ObserveUpstream(method, 0, duration)
		e.logger.Error().Str("method", method).Str("url", target).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("upstream request failed")
		return result.Fail(result.Transport(err.Error()))
	}
	defer resp.Body.Close()
	e.metrics.ObserveUpstream(method, resp.StatusCode, duration)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return result.Fail(result.Transport(fmt.Sprintf("failed to read response: %v", err)))
	}

	e.logger.Debug().Str("method", method).Str("url", target).Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("upstream response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e.logger.Error().Int("status", resp.StatusCode).Str("method", method).Str("url", target).Str("body", truncate(string(body), 512)).Msg("upstream error")
		upErr := parseErrorResponse(resp.StatusCode, method, target, body)
		if e.debugErrors {
			upErr.Request = map[string]any{
				"headers": headers,
				"params":  req.Query,
				"data":    req.Body,
			}
		}
		return result.Fail(upErr)
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(contentType, "application/json") {
		return result.Text(string(body), contentType)
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return result.Fail(result.Transport(fmt.Sprintf("failed to decode response: %v", err)))
	}
	return result.OK(data)
}

func (e *Executor) newRequest(ctx context.Context, method, target string, req Request, headers map[string]string) (*http.Request, error) {
	var bodyReader io.Reader
	if req.Body != nil {
		jsonData, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	if len(req.Query) > 0 {
		target += "?" + encodeQuery(req.Query)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, err
	}
	// BaNCS header names are sent as the catalog spells them, not canonicalized.
	for k, v := range headers {
		httpReq.Header[k] = []string{v}
	}
	return httpReq, nil
}

// encodeQuery renders values with fmt; slices become repeated keys.
func encodeQuery(q map[string]any) string {
	values := make(url.Values, len(q))
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := q[k].(type) {
		case []any:
			for _, item := range v {
				values.Add(k, Stringify(item))
			}
		case []string:
			for _, item := range v {
				values.Add(k, item)
			}
		default:
			values.Set(k, Stringify(v))
		}
	}
	return values.Encode()
}

// Stringify renders a parameter value for a URL or header. Whole floats,
// as produced by JSON decoding, print without a fraction.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// parseErrorResponse extracts a meaningful message from an HTTP error
// response: the JSON "message" field, then "error", then the whole document;
// non-JSON bodies are used verbatim.
func parseErrorResponse(statusCode int, method, target string, body []byte) *result.Error {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		msg := string(body)
		if msg == "" {
			msg = fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode))
		}
		return result.Upstream(statusCode, method, target, msg)
	}

	msg := string(body)
	for _, key := range []string{"message", "error"} {
		if v, ok := doc[key]; ok && v != nil {
			msg = Stringify(v)
			break
		}
	}
	upErr := result.Upstream(statusCode, method, target, msg)
	upErr.ErrorDetails = doc
	return upErr
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
