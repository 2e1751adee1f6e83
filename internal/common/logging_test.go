package common

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/phuslu/log"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/writers"
)

func TestNewLogger_ReturnsNonNil(t *testing.T) {
	logger := NewLogger(LoggingConfig{Level: "info"})
	if logger == nil {
		t.Fatal("NewLogger returned nil")
	}
}

func TestNewLogger_FluentAPI(t *testing.T) {
	logger := NewLogger(LoggingConfig{Level: "error"})
	logger.Info().Str("key", "value").Msg("test message")
	logger.Warn().Int("count", 42).Msg("warning")
	logger.Error().Err(nil).Msg("error message")
	logger.Debug().Bool("ok", true).Msg("debug")
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bancs.log")
	logger := NewLogger(LoggingConfig{Level: "info", Outputs: []string{"file"}, FilePath: path})
	if logger == nil {
		t.Fatal("NewLogger returned nil")
	}
	logger.Info().Str("endpoint", "cbpetget_account_balance_using_get").Msg("file output")
}

func TestNewLogger_DoesNotWriteToStdout(t *testing.T) {
	// stdout is the MCP stdio channel.
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	logger := NewLogger(LoggingConfig{Level: "info"})
	logger.Info().Str("tool", "list_api_endpoints").Msg("this must not go to stdout")
	logger.Error().Msg("neither should this")

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	r.Close()

	if buf.Len() > 0 {
		t.Errorf("Logger wrote %d bytes to stdout: %s", buf.Len(), buf.String())
	}
}

type captureWriter struct{ buf *bytes.Buffer }

func (w *captureWriter) Write(p []byte) (int, error)           { return w.buf.Write(p) }
func (w *captureWriter) WithLevel(_ log.Level) writers.IWriter { return w }
func (w *captureWriter) GetFilePath() string                   { return "" }
func (w *captureWriter) Close() error                          { return nil }

func TestNewSilentLogger_DoesNotWriteToGlobalWriters(t *testing.T) {
	var buf bytes.Buffer
	arbor.RegisterWriter(arbor.WRITER_CONSOLE, &captureWriter{buf: &buf})

	silent := NewSilentLogger()
	silent.Info().Str("key", "value").Msg("this should NOT appear")
	silent.Error().Msg("this should NOT appear either")

	if buf.Len() > 0 {
		t.Errorf("Silent logger wrote %d bytes to global writer: %s", buf.Len(), buf.String())
	}
}

func TestWithCorrelationId_ReturnsNewLogger(t *testing.T) {
	logger := NewLogger(LoggingConfig{Level: "error"})
	correlated := logger.WithCorrelationId("req-123")

	if correlated == nil {
		t.Fatal("WithCorrelationId returned nil")
	}
	if correlated == logger {
		t.Error("WithCorrelationId should return a new Logger instance")
	}
	correlated.Info().Str("tool", "invoke_api_endpoint").Msg("handler start")
}

func TestLoadVersionFrom(t *testing.T) {
	oldVersion, oldBuild, oldCommit := Version, Build, GitCommit
	t.Cleanup(func() { Version, Build, GitCommit = oldVersion, oldBuild, oldCommit })
	Version, Build, GitCommit = "dev", "unknown", "unknown"

	path := filepath.Join(t.TempDir(), ".version")
	content := "# generated\nversion: 1.2.3\nbuild: 2026-10-01\ncommit: abc1234\nbogus line\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	loadVersionFrom(path)

	if Version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %s", Version)
	}
	if Build != "2026-10-01" {
		t.Errorf("expected build 2026-10-01, got %s", Build)
	}
	if GitCommit != "abc1234" {
		t.Errorf("expected commit abc1234, got %s", GitCommit)
	}
	if GetFullVersion() != "1.2.3 (build: 2026-10-01, commit: abc1234)" {
		t.Errorf("unexpected full version %q", GetFullVersion())
	}
}

func TestLoadVersionFrom_KeepsLdflags(t *testing.T) {
	oldVersion := Version
	t.Cleanup(func() { Version = oldVersion })
	Version = "9.9.9"

	path := filepath.Join(t.TempDir(), ".version")
	os.WriteFile(path, []byte("version: 1.0.0\n"), 0644)

	loadVersionFrom(path)

	if Version != "9.9.9" {
		t.Errorf("ldflags version overwritten: got %s", Version)
	}
}
