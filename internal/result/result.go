// Package result defines the uniform shape returned by every tool: either the
// upstream payload or a structured error marked with "error": true.
package result

import "encoding/json"

// Result is the normalized outcome of a dispatcher or executor call.
// Exactly one of Err or Data is meaningful.
type Result struct {
	// Data holds the decoded JSON body, or the text of a Raw response.
	Data any
	// ContentType is the upstream content type of a Raw response. It may be empty.
	ContentType string
	// Raw marks a non-JSON passthrough body.
	Raw bool
	Err *Error
}

// OK wraps a decoded JSON payload.
func OK(data any) Result {
	return Result{Data: data}
}

// Text wraps a non-JSON payload together with its content type.
func Text(body, contentType string) Result {
	return Result{Data: body, ContentType: contentType, Raw: true}
}

// Fail wraps a structured error.
func Fail(err *Error) Result {
	return Result{Err: err}
}

// IsError reports whether the result carries an error.
func (r Result) IsError() bool {
	return r.Err != nil
}

// MarshalJSON renders the result the way callers see it:
// the error object, {data, content_type} for text, or the JSON payload as-is.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(r.Err)
	}
	if r.Raw {
		return json.Marshal(struct {
			Data        any    `json:"data"`
			ContentType string `json:"content_type"`
		}{r.Data, r.ContentType})
	}
	return json.Marshal(r.Data)
}
