// Package collector gathers per-company all.csv files into a flat directory.
//
// A source root holds one folder per company. Each folder may contain a file
// named all.csv. A collection pass moves (or copies) every such file into the
// target root as <folder>.csv and reports one Result per folder.
package collector

import (
	"errors"
	"fmt"
	"strings"
)

// FileName is the per-folder file the collector looks for.
const FileName = "all.csv"

// Sentinel errors.
var (
	// ErrConfiguration marks a fatal problem with the source or target root.
	// No folder is processed when it is returned.
	ErrConfiguration = errors.New("configuration error")

	// ErrDestinationExists is reported when the conflict policy is "fail".
	ErrDestinationExists = errors.New("destination already exists")
)

// Mode selects whether the source file is kept.
type Mode string

// Supported modes.
const (
	ModeMove Mode = "move"
	ModeCopy Mode = "copy"
)

// ParseMode converts a config value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeMove, nil
	case ModeMove, ModeCopy:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q (expected move or copy)", ErrConfiguration, s)
	}
}

// ConflictPolicy decides what happens when <folder>.csv already exists in the target.
type ConflictPolicy string

// Supported conflict policies.
const (
	ConflictOverwrite ConflictPolicy = "overwrite"
	ConflictSkip      ConflictPolicy = "skip"
	ConflictFail      ConflictPolicy = "fail"
)

// ParseConflictPolicy converts a config value into a ConflictPolicy.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch p := ConflictPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return ConflictOverwrite, nil
	case ConflictOverwrite, ConflictSkip, ConflictFail:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown conflict policy %q (expected overwrite, skip or fail)", ErrConfiguration, s)
	}
}

// Outcome is the per-folder result of a pass.
type Outcome string

// Possible outcomes.
const (
	OutcomeMoved    Outcome = "moved"
	OutcomeCopied   Outcome = "copied"
	OutcomeNotFound Outcome = "not-found"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeFailed   Outcome = "failed"
)

// Result describes what happened to one company folder.
type Result struct {
	Folder      string
	Outcome     Outcome
	Source      string
	Destination string
	Err         error
}

// Line renders the result as a single log line.
func (r Result) Line() string {
	switch r.Outcome {
	case OutcomeMoved, OutcomeCopied:
		return fmt.Sprintf("%s %s to %s", r.Outcome, r.Source, r.Destination)
	case OutcomeNotFound:
		return "not found: " + r.Source
	case OutcomeSkipped:
		return fmt.Sprintf("skipped %s: %s exists", r.Source, r.Destination)
	default:
		return fmt.Sprintf("failed %s: %v", r.Source, r.Err)
	}
}

// Report is the ordered list of results of one pass.
type Report struct {
	SourceDir string
	TargetDir string
	Mode      Mode
	Results   []Result
}

// Count returns how many results have the given outcome.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Collected returns the number of files moved or copied.
func (r *Report) Collected() int {
	return r.Count(OutcomeMoved) + r.Count(OutcomeCopied)
}
