package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/bancs-mcp/internal/catalog"
)

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--env-file", "", "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

type seen struct {
	method, path, channel, body string
}

func newUpstream(t *testing.T, status int, body string) (*httptest.Server, *seen) {
	t.Helper()
	s := &seen{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		s.method = r.Method
		s.path = r.URL.EscapedPath()
		s.channel = r.Header.Get("ChannelType")
		s.body = string(data)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, s
}

func TestParseParams(t *testing.T) {
	params, err := parseParams(`{"accountReference":"ACC1","entity":"X"}`, []string{
		"ChannelType=2",
		"accountReference=00123",
		"detail=true",
		"note=a=b",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"accountReference": "00123",
		"entity":           "X",
		"ChannelType":      float64(2),
		"detail":           true,
		"note":             "a=b",
	}, params)
}

func TestParseParams_Errors(t *testing.T) {
	_, err := parseParams(`[1,2]`, nil)
	assert.Error(t, err)

	_, err = parseParams("", []string{"novalue"})
	assert.Error(t, err)

	_, err = parseParams("", []string{"=x"})
	assert.Error(t, err)
}

func TestEndpointsCmd(t *testing.T) {
	out, err := run(t, "endpoints", "--tag", "accountmanagement", "--method", "GET")
	require.NoError(t, err)

	var listing map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &listing))
	assert.Equal(t, float64(1), listing["total_endpoints"])
	endpoints := listing["endpoints"].([]any)
	assert.Equal(t, catalog.AccountBalanceID, endpoints[0].(map[string]any)["name"])
}

func TestSchemaCmd(t *testing.T) {
	out, err := run(t, "schema", "--operation-id", "CBPETGetAccountBalanceUsingGET")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Equal(t, catalog.AccountBalanceID, schema["endpoint_name"])
}

func TestSchemaCmd_NotFound(t *testing.T) {
	out, err := run(t, "schema", "balance")
	require.ErrorIs(t, err, errFailedResult)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, true, body["error"])
	assert.Equal(t, "not_found", body["kind"])
}

func TestSchemaCmd_RequiresReference(t *testing.T) {
	_, err := run(t, "schema")
	assert.Error(t, err)
}

func TestInvokeCmd(t *testing.T) {
	upstream, s := newUpstream(t, http.StatusOK, `{"availableBalance":42}`)

	out, err := run(t, "--base-url", upstream.URL,
		"invoke", catalog.AccountBalanceID,
		"--param", "accountReference=ACC123",
		"--param", "ChannelType=2",
	)
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, s.method)
	assert.Equal(t, "/accountManagement/account/balanceDetails/ACC123", s.path)
	assert.Equal(t, "2", s.channel)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, float64(42), body["availableBalance"])
}

func TestInvokeCmd_ParamsJSON(t *testing.T) {
	upstream, s := newUpstream(t, http.StatusCreated, `{"accountReference":"SAV1"}`)

	_, err := run(t, "--base-url", upstream.URL,
		"invoke", catalog.CreateAccountID,
		"--params", `{"request_body":{"productCode":"SAV01"}}`,
	)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, s.method)
	assert.JSONEq(t, `{"request_body":{"productCode":"SAV01"}}`, s.body)
}

func TestInvokeCmd_UpstreamError(t *testing.T) {
	upstream, _ := newUpstream(t, http.StatusBadRequest, `{"message":"Invalid account"}`)

	out, err := run(t, "--base-url", upstream.URL,
		"invoke", catalog.AccountBalanceID, "--param", "accountReference=BAD",
	)
	require.ErrorIs(t, err, errFailedResult)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, "upstream_http", body["kind"])
	assert.Equal(t, float64(400), body["status_code"])
	assert.Equal(t, "Invalid account", body["message"])
}

func TestInvokeCmd_MissingParameter(t *testing.T) {
	out, err := run(t, "invoke", catalog.AccountBalanceID)
	require.ErrorIs(t, err, errFailedResult)
	assert.Contains(t, out, `"missing_parameters"`)
}

func TestConfigFileAndValidation(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[api]\nbase_url = \"ftp://nowhere\"\n"), 0644))

	_, err := run(t, "--config", bad, "endpoints")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "api.base_url"), err.Error())
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "bancs-mcp version "), out)
}

func TestExecute_PrintsErrorsToStderr(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := execute(context.Background(), []string{"--env-file", "", "--log-level", "error", "schema"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Equal(t, "Error: an endpoint name or --operation-id is required\n", stderr.String())
}

func TestExecute_FailedResultOnlyOnStdout(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := execute(context.Background(), []string{"--env-file", "", "--log-level", "error", "schema", "balance"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), `"not_found"`)
	assert.Empty(t, stderr.String())
}

func TestExecute_Success(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := execute(context.Background(), []string{"version"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(stdout.String(), "bancs-mcp version "), stdout.String())
	assert.Empty(t, stderr.String())
}
