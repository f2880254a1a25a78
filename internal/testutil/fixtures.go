package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleCSV is the content written into fixture all.csv files.
const SampleCSV = "ID,Title,Difficulty\n1,Two Sum,Easy\n"

// Company describes one folder in a fixture source root.
type Company struct {
	Name    string
	HasFile bool
	Content string
}

// SetupSourceRoot creates a temporary source root with one folder per company
// and an empty target root next to it. It returns both paths.
func SetupSourceRoot(t testing.TB, companies ...Company) (source, target string) {
	t.Helper()

	tmpDir := t.TempDir()
	source = filepath.Join(tmpDir, "companies")
	target = filepath.Join(tmpDir, "data")

	for _, dir := range []string{source, target} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}

	for _, c := range companies {
		dir := filepath.Join(source, c.Name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create company folder %s: %v", dir, err)
		}
		if !c.HasFile {
			continue
		}
		content := c.Content
		if content == "" {
			content = SampleCSV
		}
		if err := os.WriteFile(filepath.Join(dir, "all.csv"), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write all.csv for %s: %v", c.Name, err)
		}
	}

	return source, target
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
