package output

import "time"

// Status drives the icon of a StatusLine.
type Status string

// Line statuses.
const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusWarning Status = "warning"
	StatusFailed  Status = "failed"
)

// CollectOutput is the JSON form of a collection pass.
type CollectOutput struct {
	RunID     string          `json:"run_id,omitempty"`
	SourceDir string          `json:"source_dir"`
	TargetDir string          `json:"target_dir"`
	Mode      string          `json:"mode"`
	Folders   []FolderResult  `json:"folders"`
	Summary   CollectSummary  `json:"summary"`
	Manifest  *ManifestOutput `json:"manifest,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// FolderResult is one company folder in CollectOutput.
type FolderResult struct {
	Folder      string `json:"folder"`
	Outcome     string `json:"outcome"`
	Source      string `json:"source"`
	Destination string `json:"destination,omitempty"`
	Error       string `json:"error,omitempty"`
}

// CollectSummary counts outcomes.
type CollectSummary struct {
	Folders   int `json:"folders"`
	Collected int `json:"collected"`
	NotFound  int `json:"not_found"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// ManifestOutput describes a written company list.
type ManifestOutput struct {
	Path      string   `json:"path"`
	Companies []string `json:"companies"`
}

// HistoryOutput is the JSON form of the run list.
type HistoryOutput struct {
	Runs []RunInfo `json:"runs"`
}

// RunInfo summarizes a journaled run.
type RunInfo struct {
	ID          string         `json:"id"`
	SourceDir   string         `json:"source_dir"`
	TargetDir   string         `json:"target_dir"`
	Mode        string         `json:"mode"`
	Status      string         `json:"status"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt time.Time      `json:"completed_at"`
	Summary     CollectSummary `json:"summary"`
	Error       string         `json:"error,omitempty"`
}

// RunDetailOutput is the JSON form of a single run with its folders.
type RunDetailOutput struct {
	Run     RunInfo        `json:"run"`
	Folders []FolderResult `json:"folders"`
}
