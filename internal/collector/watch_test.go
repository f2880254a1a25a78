package collector

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/csvcollect/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForPass(t *testing.T, passes <-chan *Report) *Report {
	t.Helper()
	select {
	case report := <-passes:
		return report
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a collection pass")
		return nil
	}
}

func TestWatch_CollectsNewFiles(t *testing.T) {
	source, target := testutil.SetupSourceRoot(t,
		testutil.Company{Name: "amazon", HasFile: true},
		testutil.Company{Name: "google"},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	passes := make(chan *Report, 8)
	done := make(chan error, 1)
	go func() {
		done <- New(testutil.NewTestLogger(t)).Watch(ctx, Options{SourceDir: source, TargetDir: target}, WatchOptions{
			Debounce: 20 * time.Millisecond,
			OnPass: func(r *Report, err error) {
				assert.NoError(t, err)
				passes <- r
			},
		})
	}()

	first := waitForPass(t, passes)
	assert.Equal(t, 1, first.Count(OutcomeMoved))
	assert.FileExists(t, filepath.Join(target, "amazon.csv"))

	// Give the watcher a moment to register before producing events.
	time.Sleep(100 * time.Millisecond)
	testutil.WriteFile(t, filepath.Join(source, "google", "all.csv"), "google\n")

	require.Eventually(t, func() bool {
		select {
		case r := <-passes:
			return r.Count(OutcomeMoved) == 1
		default:
			_, err := os.Stat(filepath.Join(target, "google.csv"))
			return err == nil
		}
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

// startWatch runs Watch in the background and returns a channel of passes.
// The first pass has already been received when it returns.
func startWatch(t *testing.T, source, target string) (<-chan *Report, *Report) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	passes := make(chan *Report, 8)
	done := make(chan error, 1)
	go func() {
		done <- New(testutil.NewTestLogger(t)).Watch(ctx, Options{SourceDir: source, TargetDir: target}, WatchOptions{
			Debounce: 20 * time.Millisecond,
			OnPass: func(r *Report, err error) {
				assert.NoError(t, err)
				passes <- r
			},
		})
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watch did not stop after cancel")
		}
	})

	first := waitForPass(t, passes)
	// Give the watcher a moment to register before producing events.
	time.Sleep(100 * time.Millisecond)
	return passes, first
}

func TestWatch_NewCompanyFolder(t *testing.T) {
	source, target := testutil.SetupSourceRoot(t, testutil.Company{Name: "amazon"})
	passes, first := startWatch(t, source, target)
	assert.Equal(t, 1, first.Count(OutcomeNotFound))

	// A ready-made folder appears in one step, as with a rename or unzip.
	staged := filepath.Join(t.TempDir(), "stripe")
	testutil.WriteFile(t, filepath.Join(staged, FileName), "stripe\n")
	require.NoError(t, os.Rename(staged, filepath.Join(source, "stripe")))

	report := waitForPass(t, passes)
	assert.Equal(t, 1, report.Count(OutcomeMoved))
	assert.FileExists(t, filepath.Join(target, "stripe.csv"))
	assert.NoFileExists(t, filepath.Join(source, "stripe", FileName))
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	source, target := testutil.SetupSourceRoot(t, testutil.Company{Name: "google"})
	passes, _ := startWatch(t, source, target)

	testutil.WriteFile(t, filepath.Join(source, "google", "notes.txt"), "todo\n")
	testutil.WriteFile(t, filepath.Join(source, "google", "all.csv.bak"), "old\n")

	select {
	case <-passes:
		t.Fatal("a file other than all.csv should not trigger a pass")
	case <-time.After(300 * time.Millisecond):
	}
	assert.NoFileExists(t, filepath.Join(target, "google.csv"))
}

func TestWatch_InvalidSource(t *testing.T) {
	err := New(nil).Watch(context.Background(), Options{
		SourceDir: filepath.Join(t.TempDir(), "missing"),
		TargetDir: t.TempDir(),
	}, WatchOptions{})
	require.ErrorIs(t, err, ErrConfiguration)
}
