// Package main provides tests for the csvcollect CLI.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/csvcollect/internal/cli"
	"github.com/leapstack-labs/csvcollect/internal/cli/config"
	"github.com/leapstack-labs/csvcollect/internal/cli/output"
	"github.com/leapstack-labs/csvcollect/internal/collector"
	"github.com/leapstack-labs/csvcollect/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "csvcollect")
}

func TestHelpCommand(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)

	for _, expected := range []string{"collect", "watch", "history", "version", "completion"} {
		assert.Contains(t, out, expected)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, _, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "csvcollect")
}

func TestCollectCommand(t *testing.T) {
	source, target := testutil.SetupSourceRoot(t,
		testutil.Company{Name: "amazon", HasFile: true, Content: "amazon-data"},
		testutil.Company{Name: "google"},
	)
	statePath := filepath.Join(t.TempDir(), "state.db")

	out, _, err := execute(t, "collect", source, target, "--state", statePath, "-o", "markdown")
	require.NoError(t, err)

	amazonSrc := filepath.Join(source, "amazon", collector.FileName)
	amazonDst := filepath.Join(target, "amazon.csv")
	assert.Contains(t, out, fmt.Sprintf("moved %s to %s", amazonSrc, amazonDst))
	assert.Contains(t, out, "not found: "+filepath.Join(source, "google", collector.FileName))

	data, err := os.ReadFile(amazonDst)
	require.NoError(t, err)
	assert.Equal(t, "amazon-data", string(data))
	assert.NoFileExists(t, amazonSrc)
	assert.FileExists(t, statePath)
}

func TestCollectCommand_RootsFromFlags(t *testing.T) {
	source, target := testutil.SetupSourceRoot(t, testutil.Company{Name: "meta", HasFile: true})

	out, _, err := execute(t, "collect",
		"--source-dir", source,
		"--target-dir", target,
		"--no-state",
		"--manifest", collector.DefaultManifestName,
		"-o", "json",
	)
	require.NoError(t, err)

	var got output.CollectOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Empty(t, got.RunID, "journal disabled")
	assert.Equal(t, 1, got.Summary.Collected)
	require.NotNil(t, got.Manifest)
	assert.Equal(t, []string{"meta"}, got.Manifest.Companies)
	assert.FileExists(t, filepath.Join(target, collector.DefaultManifestName))
}

func TestCollectCommand_InvalidSource(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "data")
	require.NoError(t, os.MkdirAll(target, 0o755))
	statePath := filepath.Join(tmpDir, "state", "state.db")

	_, _, err := execute(t, "collect", filepath.Join(tmpDir, "missing"), target, "--state", statePath)
	require.Error(t, err)
	assert.True(t, errors.Is(err, collector.ErrConfiguration))
	assert.Equal(t, exitConfiguration, exitCode(err))

	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is created in the target")
	assert.NoFileExists(t, statePath)
}

func TestCollectCommand_MissingRoots(t *testing.T) {
	t.Setenv("CSVCOLLECT_SOURCE_DIR", "")
	t.Setenv("CSVCOLLECT_TARGET_DIR", "")
	t.Chdir(t.TempDir())

	_, _, err := execute(t, "collect", "--no-state")
	require.Error(t, err)
	assert.True(t, errors.Is(err, collector.ErrConfiguration))
	assert.Contains(t, err.Error(), "source directory is required")
}

func TestCollectCommand_InvalidOutputFormat(t *testing.T) {
	source, target := testutil.SetupSourceRoot(t)

	_, _, err := execute(t, "collect", source, target, "--no-state", "-o", "yaml")
	require.Error(t, err)
	assert.Equal(t, exitConfiguration, exitCode(err))
}

func TestHistoryCommand(t *testing.T) {
	source, target := testutil.SetupSourceRoot(t,
		testutil.Company{Name: "bank-of-america", HasFile: true},
		testutil.Company{Name: "google"},
	)
	statePath := filepath.Join(t.TempDir(), "state.db")

	_, _, err := execute(t, "collect", source, target, "--state", statePath, "-o", "markdown")
	require.NoError(t, err)

	out, _, err := execute(t, "history", "--state", statePath, "-o", "json")
	require.NoError(t, err)

	var history output.HistoryOutput
	require.NoError(t, json.Unmarshal([]byte(out), &history))
	require.Len(t, history.Runs, 1)
	run := history.Runs[0]
	assert.Equal(t, "completed", run.Status)
	assert.Equal(t, 1, run.Summary.Collected)
	assert.Equal(t, 1, run.Summary.NotFound)

	out, _, err = execute(t, "history", run.ID[:8], "--state", statePath, "-o", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "# Run "+run.ID)
	assert.Contains(t, out, "| Bank Of America | bank-of-america | moved |")
	assert.Contains(t, out, "not-found")

	out, _, err = execute(t, "history", run.ID, "--state", statePath, "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Status: completed")
	assert.NotContains(t, out, "**", "text mode has no markdown markup")
}

func TestHistoryCommand_NoRuns(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.db")

	out, _, err := execute(t, "history", "--state", statePath, "-o", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded yet")
	assert.NoFileExists(t, statePath)
}

func TestHistoryCommand_Disabled(t *testing.T) {
	_, _, err := execute(t, "history", "--no-state")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "run journal is disabled"))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, exitError, exitCode(errors.New("boom")))
	assert.Equal(t, exitConfiguration, exitCode(fmt.Errorf("wrapped: %w", collector.ErrConfiguration)))
}
