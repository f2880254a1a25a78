package collector

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultManifestName is the file the company directory page reads.
const DefaultManifestName = "company_list.txt"

// ValidateManifestName rejects names that are not a plain file name, and
// names ending in .csv, which the next manifest would list as a company.
func ValidateManifestName(name string) error {
	switch {
	case name == "" || name == "." || name == "..":
		return fmt.Errorf("%w: manifest must be a file name, got %q", ErrConfiguration, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: manifest must be a file name, got %q", ErrConfiguration, name)
	case strings.HasSuffix(strings.ToLower(name), ".csv"):
		return fmt.Errorf("%w: manifest %q would be listed as a company; use a name not ending in .csv", ErrConfiguration, name)
	}
	return nil
}

// WriteManifest writes one company name per line for every <name>.csv in
// targetDir, sorted. The manifest replaces any previous one atomically.
func WriteManifest(targetDir, name string) ([]string, error) {
	if name == "" {
		name = DefaultManifestName
	}
	if err := ValidateManifestName(name); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(targetDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list target directory: %w", err)
	}

	var companies []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if company, ok := strings.CutSuffix(entry.Name(), ".csv"); ok && company != "" {
			companies = append(companies, company)
		}
	}
	sort.Strings(companies)

	var b strings.Builder
	for _, company := range companies {
		b.WriteString(company)
		b.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(targetDir, "."+name+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create manifest: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(b.String()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil { //nolint:gosec // G302: manifest is served as a public asset
		_ = os.Remove(tmpName)
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(targetDir, name)); err != nil {
		_ = os.Remove(tmpName)
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}

	return companies, nil
}
