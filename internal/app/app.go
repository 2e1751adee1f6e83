// Package app wires the catalog, executor, dispatcher and transports
// together from a loaded configuration.
package app

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/bancs-mcp/internal/bancs"
	"github.com/bobmcallan/bancs-mcp/internal/catalog"
	"github.com/bobmcallan/bancs-mcp/internal/common"
	"github.com/bobmcallan/bancs-mcp/internal/config"
	"github.com/bobmcallan/bancs-mcp/internal/dispatch"
	"github.com/bobmcallan/bancs-mcp/internal/executor"
	"github.com/bobmcallan/bancs-mcp/internal/handlers"
	"github.com/bobmcallan/bancs-mcp/internal/mcp"
	"github.com/bobmcallan/bancs-mcp/internal/metrics"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Catalog    *catalog.Catalog
	Metrics    *metrics.Metrics
	Executor   *executor.Executor
	Dispatcher *dispatch.Dispatcher
	Client     *bancs.Client
	MCPServer  *mcpserver.MCPServer

	// HTTP handlers
	MCPHandler       *mcp.Handler
	HealthHandler    *handlers.HealthHandler
	VersionHandler   *handlers.VersionHandler
	EndpointsHandler *handlers.EndpointsHandler
}

// New initializes the application with all dependencies. A catalog that
// violates its invariants aborts startup.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	cat, err := LoadCatalog(cfg.Catalog, logger)
	if err != nil {
		return nil, err
	}
	a.Catalog = cat

	if cfg.API.Key != "" {
		// The key is accepted for compatibility; requests go out without it.
		logger.Info().Msg("API key configured; it is not attached to upstream requests")
	}

	a.Metrics = metrics.New()
	a.Executor = executor.New(executor.Options{
		BaseURL:     cfg.API.BaseURL,
		Timeout:     cfg.API.Timeout.Std(),
		DebugErrors: cfg.API.DebugErrors,
		Metrics:     a.Metrics,
	}, logger)
	a.Dispatcher = dispatch.New(cat, a.Executor, logger, a.Metrics)
	a.Client = bancs.NewClient(a.Executor, logger)
	a.MCPServer = mcp.NewServer(a.Dispatcher, a.Client, a.Executor.BaseURL(), logger)

	a.initHandlers()

	logger.Info().
		Int("endpoints", cat.Len()).
		Str("base_url", a.Executor.BaseURL()).
		Msg("application initialization complete")

	return a, nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.MCPHandler = mcp.NewHandler(a.MCPServer, a.Logger)
	a.HealthHandler = handlers.NewHealthHandler(a.Logger, a.Catalog.Len(), a.Executor.BaseURL())
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.EndpointsHandler = handlers.NewEndpointsHandler(a.Dispatcher, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// LoadCatalog builds the endpoint catalog from the configured source: an
// OpenAPI document, a catalog file, or the builtin BaNCS endpoints.
// Examples, when configured, are attached before validation.
func LoadCatalog(cfg config.CatalogConfig, logger *common.Logger) (*catalog.Catalog, error) {
	var (
		specs  []catalog.EndpointSpec
		source string
		err    error
	)
	switch {
	case cfg.OpenAPIPath != "":
		source = cfg.OpenAPIPath
		specs, err = catalog.LoadOpenAPIFile(cfg.OpenAPIPath)
	case cfg.File != "":
		source = cfg.File
		specs, err = catalog.LoadFile(cfg.File)
	default:
		source = "builtin"
		specs = catalog.Builtin()
	}
	if err != nil {
		return nil, err
	}

	if cfg.ExamplesPath != "" {
		ex, err := catalog.LoadExamples(cfg.ExamplesPath)
		if err != nil {
			return nil, err
		}
		var unmatched []string
		specs, unmatched = catalog.ApplyExamples(specs, ex)
		if len(unmatched) > 0 {
			logger.Warn().Strs("unmatched", unmatched).Msg("examples reference unknown endpoints or parameters")
		}
	}

	cat, err := catalog.New(specs)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog from %s: %w", source, err)
	}
	logger.Info().Str("source", source).Int("endpoints", cat.Len()).Msg("catalog loaded")
	return cat, nil
}

// Close closes all application resources.
func (a *App) Close() error {
	return nil
}
