package stats

import (
	"strings"
	"testing"

	"weasel/internal/model"
)

func TestFormatBestLine(t *testing.T) {
	line := FormatBestLine(model.GenerationDiagnostics{Generation: 12000, BestDiff: 512, BestGuess: "hexlo"})
	if !strings.Contains(line, "12,000") {
		t.Fatalf("generation not comma-grouped: %s", line)
	}
	if !strings.Contains(line, "512") || !strings.Contains(line, `"hexlo"`) {
		t.Fatalf("missing best score or guess: %s", line)
	}
}

func TestFormatDurationLine(t *testing.T) {
	line := FormatDurationLine(model.GenerationDiagnostics{Generation: 100, DurationMicros: 1234})
	if !strings.Contains(line, "1234us") {
		t.Fatalf("missing duration: %s", line)
	}
}

func TestFormatRunSummary(t *testing.T) {
	line := FormatRunSummary("run-1", 1000000, 0, "hello")
	if !strings.Contains(line, "1,000,000") || !strings.Contains(line, `"hello"`) {
		t.Fatalf("unexpected summary: %s", line)
	}
}
