package commands

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/csvcollect/internal/cli/output"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func itoa(n int) string { return strconv.Itoa(n) }

func summaryLine(s output.CollectSummary) string {
	return fmt.Sprintf("%d folders: %d collected, %d not found, %d skipped, %d failed",
		s.Folders, s.Collected, s.NotFound, s.Skipped, s.Failed)
}

// shortID trims a UUID to its first block for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// displayName turns a folder name like "bank-of-america" into "Bank Of America".
// Only the first letter of each dash-separated word changes case.
func displayName(folder string) string {
	upper := cases.Upper(language.English)
	words := strings.Split(folder, "-")
	for i, w := range words {
		_, size := utf8.DecodeRuneInString(w)
		words[i] = upper.String(w[:size]) + w[size:]
	}
	return strings.Join(words, " ")
}
