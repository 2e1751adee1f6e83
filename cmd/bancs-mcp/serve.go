package main

import (
	"context"
	"fmt"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/bobmcallan/bancs-mcp/internal/app"
	"github.com/bobmcallan/bancs-mcp/internal/config"
	"github.com/bobmcallan/bancs-mcp/internal/server"
)

func newServeCmd(c *cli) *cobra.Command {
	var (
		stdio bool
		port  int
		host  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over streamable HTTP or stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.load(config.Overrides{Port: port, Host: host}); err != nil {
				return err
			}
			application, err := app.New(c.cfg, c.logger)
			if err != nil {
				c.logger.Error().Err(err).Msg("failed to initialize application")
				return err
			}
			defer application.Close()

			if stdio {
				c.logger.Info().Msg("serving MCP over stdio")
				if err := mcpserver.ServeStdio(application.MCPServer); err != nil {
					return fmt.Errorf("stdio server error: %w", err)
				}
				return nil
			}
			return serveHTTP(cmd.Context(), application)
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false, "use stdio transport (for desktop MCP clients)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "server port (overrides config)")
	cmd.Flags().StringVar(&host, "host", "", "server host (overrides config)")
	return cmd
}

// serveHTTP runs the HTTP server until ctx is cancelled, then shuts down.
func serveHTTP(ctx context.Context, application *app.App) error {
	logger := application.Logger
	srv := server.New(application)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}
