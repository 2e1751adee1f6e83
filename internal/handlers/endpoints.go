package handlers

import (
	"net/http"
	"strconv"

	"github.com/bobmcallan/bancs-mcp/internal/common"
	"github.com/bobmcallan/bancs-mcp/internal/dispatch"
	"github.com/bobmcallan/bancs-mcp/internal/result"
)

// EndpointsHandler exposes discovery and schema lookups as read-only REST.
type EndpointsHandler struct {
	dispatcher *dispatch.Dispatcher
	logger     *common.Logger
}

// NewEndpointsHandler creates a new endpoints handler.
func NewEndpointsHandler(d *dispatch.Dispatcher, logger *common.Logger) *EndpointsHandler {
	return &EndpointsHandler{dispatcher: d, logger: logger}
}

// List handles GET /api/endpoints?search_query=&tag=&method=&include_deprecated=.
func (h *EndpointsHandler) List(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	q := r.URL.Query()
	includeDeprecated, _ := strconv.ParseBool(q.Get("include_deprecated"))
	WriteJSON(w, http.StatusOK, h.dispatcher.ListEndpoints(dispatch.ListOptions{
		Query:             q.Get("search_query"),
		Tag:               q.Get("tag"),
		Method:            q.Get("method"),
		IncludeDeprecated: includeDeprecated,
	}))
}

// Schema handles GET /api/endpoints/{name}. The name may also be an
// operationId.
func (h *EndpointsHandler) Schema(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	name := r.PathValue("name")
	schema, rerr := h.dispatcher.GetEndpointSchema(dispatch.Ref{EndpointID: name, OperationID: name})
	if rerr != nil {
		WriteJSON(w, statusFor(rerr), rerr)
		return
	}
	WriteJSON(w, http.StatusOK, schema)
}

func statusFor(e *result.Error) int {
	switch e.Kind {
	case result.KindNotFound:
		return http.StatusNotFound
	case result.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
