// Package dispatch implements the three generic tools over the endpoint
// catalog: discovery, schema introspection and invocation by name.
// A Dispatcher holds no mutable state and is safe for concurrent use.
package dispatch

import (
	"context"

	"github.com/bobmcallan/bancs-mcp/internal/catalog"
	"github.com/bobmcallan/bancs-mcp/internal/common"
	"github.com/bobmcallan/bancs-mcp/internal/executor"
	"github.com/bobmcallan/bancs-mcp/internal/metrics"
	"github.com/bobmcallan/bancs-mcp/internal/result"
)

// Executor performs one upstream call. *executor.Executor satisfies it.
type Executor interface {
	Execute(ctx context.Context, req executor.Request) result.Result
}

// Ref names an endpoint by catalog id, operation id, or both.
// A resolvable OperationID wins over EndpointID.
type Ref struct {
	EndpointID  string
	OperationID string
}

// String returns the identifier shown in not-found messages.
func (r Ref) String() string {
	if r.EndpointID != "" {
		return r.EndpointID
	}
	return r.OperationID
}

// Dispatcher resolves endpoint references against a catalog and hands
// validated requests to an Executor.
type Dispatcher struct {
	catalog *catalog.Catalog
	exec    Executor
	logger  *common.Logger
	metrics *metrics.Metrics
}

// New creates a Dispatcher. m may be nil.
func New(c *catalog.Catalog, exec Executor, logger *common.Logger, m *metrics.Metrics) *Dispatcher {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Dispatcher{catalog: c, exec: exec, logger: logger, metrics: m}
}

// Catalog returns the catalog the dispatcher serves.
func (d *Dispatcher) Catalog() *catalog.Catalog {
	return d.catalog
}

func (d *Dispatcher) resolve(ref Ref) (*catalog.EndpointSpec, bool) {
	if ref.OperationID != "" {
		if e, ok := d.catalog.LookupByOperationID(ref.OperationID); ok {
			return e, true
		}
	}
	if ref.EndpointID == "" {
		return nil, false
	}
	return d.catalog.Lookup(ref.EndpointID)
}
