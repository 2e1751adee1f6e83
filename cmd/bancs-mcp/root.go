package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/bancs-mcp/internal/app"
	"github.com/bobmcallan/bancs-mcp/internal/common"
	"github.com/bobmcallan/bancs-mcp/internal/config"
)

// cli carries flag values and the loaded state shared by subcommands.
type cli struct {
	configFiles []string
	envFile     string
	baseURL     string
	logLevel    string

	cfg    *config.Config
	logger *common.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "bancs-mcp",
		Short: "BaNCS banking API catalog exposed as MCP tools",
		Long: `bancs-mcp exposes the TCS BaNCS core banking REST API as a catalog of
endpoints. MCP clients discover endpoints, read their schemas and invoke them
by name; the same operations are available from the command line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringSliceVarP(&c.configFiles, "config", "c", nil, "configuration file path (repeatable, later files win)")
	pf.StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded into the environment before configuration")
	pf.StringVar(&c.baseURL, "base-url", "", "upstream API base URL (overrides config)")
	pf.StringVar(&c.logLevel, "log-level", "", "log level (overrides config)")

	root.AddCommand(
		newServeCmd(c),
		newEndpointsCmd(c),
		newSchemaCmd(c),
		newInvokeCmd(c),
		newVersionCmd(),
	)
	return root
}

// load resolves configuration: defaults, TOML files, .env, environment, flags.
func (c *cli) load(o config.Overrides) error {
	common.LoadVersionFromFile()

	if err := config.LoadEnvFile(c.envFile); err != nil {
		return err
	}

	files := c.configFiles
	if len(files) == 0 {
		for _, path := range configSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				files = append(files, path)
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(files...)
	if err != nil {
		return err
	}
	o.BaseURL = c.baseURL
	o.LogLevel = c.logLevel
	config.ApplyFlagOverrides(cfg, o)

	if err := cfg.Validate(); err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = common.NewLogger(cfg.Logging)
	c.logger.Debug().
		Strs("config_files", files).
		Str("base_url", cfg.API.BaseURL).
		Msg("configuration loaded")
	return nil
}

// application loads configuration and builds the app. One-shot commands
// log at warn unless --log-level says otherwise, keeping stderr quiet.
func (c *cli) application(quiet bool) (*app.App, error) {
	if quiet && c.logLevel == "" {
		c.logLevel = "warn"
	}
	if err := c.load(config.Overrides{}); err != nil {
		return nil, err
	}
	return app.New(c.cfg, c.logger)
}

// configSearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths are tried first, then the working directory.
func configSearchPaths() []string {
	candidates := []string{
		"bancs-mcp.toml",
		filepath.Join("config", "bancs-mcp.toml"),
	}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)

	paths := []string{
		filepath.Join(binDir, "bancs-mcp.toml"),
		filepath.Join(binDir, "config", "bancs-mcp.toml"),
	}
	paths = append(paths, candidates...)

	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		deduped = append(deduped, p)
	}
	return deduped
}

// printJSON writes v indented to w.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
