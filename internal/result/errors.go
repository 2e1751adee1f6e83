package result

import (
	"encoding/json"
	"fmt"
)

// Kind classifies a failure.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindValidation   Kind = "validation"
	KindUpstreamHTTP Kind = "upstream_http"
	KindTransport    Kind = "transport"
)

// Error is a failure returned as data. Only the fields relevant to Kind are set.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`

	// not_found
	Suggestions []string `json:"suggestions,omitempty"`
	Hint        string   `json:"hint,omitempty"`

	// validation
	MissingParameters []string `json:"missing_parameters,omitempty"`
	Parameter         string   `json:"parameter,omitempty"`
	Pattern           string   `json:"pattern,omitempty"`
	Value             string   `json:"value,omitempty"`
	EndpointSchema    any      `json:"endpoint_schema,omitempty"`

	// upstream_http
	StatusCode   int    `json:"status_code,omitempty"`
	Method       string `json:"method,omitempty"`
	URL          string `json:"url,omitempty"`
	ErrorDetails any    `json:"error_details,omitempty"`
	Request      any    `json:"request,omitempty"`
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
	}
	return e.Message
}

// MarshalJSON adds the "error": true marker callers key on.
func (e *Error) MarshalJSON() ([]byte, error) {
	type plain Error
	return json.Marshal(struct {
		Error bool `json:"error"`
		*plain
	}{true, (*plain)(e)})
}

// NotFound reports an unresolved endpoint reference.
func NotFound(ref string, suggestions []string) *Error {
	return &Error{
		Kind:        KindNotFound,
		Message:     fmt.Sprintf("Endpoint '%s' not found", ref),
		Suggestions: suggestions,
	}
}

// MissingParameters reports required parameters absent from the call.
func MissingParameters(names []string, schema any) *Error {
	return &Error{
		Kind:              KindValidation,
		Message:           "Missing required parameters",
		MissingParameters: names,
		EndpointSchema:    schema,
	}
}

// PatternMismatch reports a path parameter whose value fails its pattern.
func PatternMismatch(param, pattern, value string, schema any) *Error {
	return &Error{
		Kind:           KindValidation,
		Message:        fmt.Sprintf("Path parameter '%s' does not match required pattern", param),
		Parameter:      param,
		Pattern:        pattern,
		Value:          value,
		EndpointSchema: schema,
	}
}

// Upstream reports a non-2xx response from the remote API.
func Upstream(statusCode int, method, url, message string) *Error {
	return &Error{
		Kind:       KindUpstreamHTTP,
		Message:    message,
		StatusCode: statusCode,
		Method:     method,
		URL:        url,
	}
}

// Transport reports a call that never produced a response.
func Transport(message string) *Error {
	return &Error{Kind: KindTransport, Message: message}
}
