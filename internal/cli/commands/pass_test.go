package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/csvcollect/internal/cli/config"
	"github.com/leapstack-labs/csvcollect/internal/cli/output"
	clitestutil "github.com/leapstack-labs/csvcollect/internal/cli/testutil"
	"github.com/leapstack-labs/csvcollect/internal/collector"
	"github.com/leapstack-labs/csvcollect/internal/state"
	"github.com/leapstack-labs/csvcollect/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, cfg *config.Config, mode output.Mode) (*CommandContext, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	tr := clitestutil.NewTestRenderer(mode, false)
	return &CommandContext{
		Cfg:      cfg,
		Logger:   testutil.NewTestLogger(t),
		Renderer: tr.Renderer,
	}, tr.Out, tr.ErrOut
}

func runTestPass(t *testing.T) (*collector.Report, string) {
	t.Helper()
	source, target := testutil.SetupSourceRoot(t,
		testutil.Company{Name: "amazon", HasFile: true},
		testutil.Company{Name: "google"},
	)
	report, err := collector.New(nil).Run(context.Background(), collector.Options{
		SourceDir: source,
		TargetDir: target,
	})
	require.NoError(t, err)
	return report, target
}

func TestFinishPass_ManifestAndJournal(t *testing.T) {
	report, target := runTestPass(t)

	store, err := state.OpenSQLiteStore(state.MemoryPath, nil)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	cc, _, errOut := newTestContext(t, &config.Config{Manifest: collector.DefaultManifestName}, output.ModeMarkdown)
	pr := &passResult{Report: report, StartedAt: time.Now()}
	cc.finishPass(context.Background(), store, pr)

	assert.Empty(t, errOut.String(), "no warnings expected")
	require.NotNil(t, pr.Manifest)
	assert.Equal(t, []string{"amazon"}, pr.Manifest.Companies)

	data, err := os.ReadFile(filepath.Join(target, collector.DefaultManifestName))
	require.NoError(t, err)
	assert.Equal(t, "amazon\n", string(data))

	require.NotEmpty(t, pr.RunID)
	run, err := store.GetRun(context.Background(), pr.RunID)
	require.NoError(t, err)
	assert.Equal(t, 1, run.Collected)
	assert.Equal(t, 1, run.NotFound)
}

func TestFinishPass_InterruptedSkipsManifest(t *testing.T) {
	report, target := runTestPass(t)

	cc, _, _ := newTestContext(t, &config.Config{Manifest: collector.DefaultManifestName}, output.ModeMarkdown)
	pr := &passResult{Report: report, Err: context.Canceled, StartedAt: time.Now()}
	cc.finishPass(context.Background(), nil, pr)

	assert.Nil(t, pr.Manifest)
	assert.NoFileExists(t, filepath.Join(target, collector.DefaultManifestName))
	assert.Empty(t, pr.RunID)
}

func TestFinishPass_ManifestErrorIsWarning(t *testing.T) {
	report, _ := runTestPass(t)

	cc, _, errOut := newTestContext(t, &config.Config{Manifest: "nested/list.txt"}, output.ModeMarkdown)
	pr := &passResult{Report: report, StartedAt: time.Now()}
	cc.finishPass(context.Background(), nil, pr)

	assert.Nil(t, pr.Manifest)
	assert.Contains(t, errOut.String(), "manifest not written")
}

func TestRenderPass(t *testing.T) {
	report, _ := runTestPass(t)
	pr := &passResult{Report: report, RunID: "3f2a9c1e-0000-4000-8000-000000000000"}

	t.Run("markdown", func(t *testing.T) {
		cc, out, _ := newTestContext(t, &config.Config{}, output.ModeMarkdown)
		require.NoError(t, renderPass(cc.Renderer, pr))

		got := out.String()
		clitestutil.AssertValidMarkdown(t, got)
		clitestutil.AssertNoANSI(t, got)
		assert.Contains(t, got, "# Collect")
		assert.Contains(t, got, "- moved "+report.Results[0].Source+" to "+report.Results[0].Destination)
		assert.Contains(t, got, "- not found: "+report.Results[1].Source)
		assert.Contains(t, got, "| collected | 1 |")
		assert.Contains(t, got, "**Run:** "+pr.RunID)
	})

	t.Run("text", func(t *testing.T) {
		cc, out, _ := newTestContext(t, &config.Config{}, output.ModeText)
		require.NoError(t, renderPass(cc.Renderer, pr))

		got := out.String()
		assert.Contains(t, got, "Collecting "+report.SourceDir)
		assert.Contains(t, got, "not found: "+report.Results[1].Source)
		assert.Contains(t, got, "2 folders: 1 collected, 1 not found, 0 skipped, 0 failed")
		assert.Contains(t, got, "Run: 3f2a9c1e")
	})

	t.Run("json", func(t *testing.T) {
		cc, out, _ := newTestContext(t, &config.Config{}, output.ModeJSON)
		require.NoError(t, renderPass(cc.Renderer, pr))

		var got output.CollectOutput
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, pr.RunID, got.RunID)
		assert.Equal(t, 1, got.Summary.Collected)
		require.Len(t, got.Folders, 2)
		assert.Equal(t, "amazon", got.Folders[0].Folder)
		assert.Equal(t, "moved", got.Folders[0].Outcome)
		assert.Equal(t, "not-found", got.Folders[1].Outcome)
	})
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, output.StatusSuccess, statusOf(collector.OutcomeMoved))
	assert.Equal(t, output.StatusSuccess, statusOf(collector.OutcomeCopied))
	assert.Equal(t, output.StatusSkipped, statusOf(collector.OutcomeNotFound))
	assert.Equal(t, output.StatusSkipped, statusOf(collector.OutcomeSkipped))
	assert.Equal(t, output.StatusFailed, statusOf(collector.OutcomeFailed))
}

func TestCollectJSON_FailedFolder(t *testing.T) {
	pr := &passResult{Report: &collector.Report{
		Mode: collector.ModeMove,
		Results: []collector.Result{{
			Folder:  "meta",
			Outcome: collector.OutcomeFailed,
			Err:     errors.New("permission denied"),
		}},
	}}

	got := collectJSON(pr)
	require.Len(t, got.Folders, 1)
	assert.Equal(t, "permission denied", got.Folders[0].Error)
	assert.Equal(t, 1, got.Summary.Failed)
}
