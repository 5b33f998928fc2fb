package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AllValid(t *testing.T) {
	out, _, err := executeCommand("validate", queryOne, queryTwo)
	require.NoError(t, err)

	assert.Contains(t, out, "ok   "+queryOne)
	assert.Contains(t, out, "ok   "+queryTwo)
}

func TestValidate_ReportsFailures(t *testing.T) {
	out, _, err := executeCommand("validate",
		queryOne,
		"http://localhost:8983/solr/collection1/select",
		"http://localhost:8983/solr/collection1/select?q=1&q=2")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, out, "ok   "+queryOne)
	assert.Contains(t, out, "no q query parameter")
	assert.Contains(t, out, "multiple q query parameters")
}

func TestValidate_JSON(t *testing.T) {
	out, _, err := executeCommand("--format", "json", "validate", queryOne)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestValidate_JSONFailure(t *testing.T) {
	out, _, err := executeCommand("--format", "json", "validate",
		"http://localhost:8983/solr/collection1/select")
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeQuery, resp.Error.Code)
}

func TestValidate_FromManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chain.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"queries:\n  - "+queryOne+"\n  - "+queryTwo+"\n"), 0o644))

	out, _, err := executeCommand("validate", "--manifest", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok   "+queryOne)
	assert.Contains(t, out, "ok   "+queryTwo)
}

func TestValidate_BadManifest(t *testing.T) {
	_, _, err := executeCommand("validate", "--manifest",
		filepath.Join(t.TempDir(), "absent.cue"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidate_NoURLs(t *testing.T) {
	_, _, err := executeCommand("validate")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
