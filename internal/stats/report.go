package stats

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"weasel/internal/model"
)

// The reference loop reports the best guess every bestInterval generations
// and the per-generation duration every durationInterval generations.
const (
	BestInterval     = 1000
	DurationInterval = 100
)

// FormatBestLine renders the periodic best-guess progress line.
func FormatBestLine(diag model.GenerationDiagnostics) string {
	return fmt.Sprintf("gen %s best=%g guess=%q", humanize.Comma(int64(diag.Generation)), diag.BestDiff, diag.BestGuess)
}

// FormatDurationLine renders the periodic generation-duration line.
func FormatDurationLine(diag model.GenerationDiagnostics) string {
	return fmt.Sprintf("gen %s duration=%dus", humanize.Comma(int64(diag.Generation)), diag.DurationMicros)
}

// FormatRunSummary renders the one-line closing summary of a run.
func FormatRunSummary(runID string, generations int, finalBestDiff float64, finalBestGuess string) string {
	return fmt.Sprintf("run %s finished after %s generations: best=%g guess=%q",
		runID, humanize.Comma(int64(generations)), finalBestDiff, finalBestGuess)
}
