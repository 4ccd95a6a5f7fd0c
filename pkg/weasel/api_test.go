package weasel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"weasel/internal/model"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	base := t.TempDir()
	client, err := New(Options{
		StoreKind:    "memory",
		ArtifactsDir: filepath.Join(base, "artifacts"),
		ExportsDir:   filepath.Join(base, "exports"),
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func TestClientRunRunsAndExport(t *testing.T) {
	client := newTestClient(t)

	var progressed int
	summary, err := client.Run(context.Background(), RunRequest{
		Target:         "ab",
		Seed:           42,
		Workers:        2,
		Generations:    3,
		GenerationSize: 20,
		EliteCount:     2,
		CrossOverCount: 5,
		MutatedCount:   5,
		MutationRate:   0.1,
		OnProgress: func(model.GenerationDiagnostics) {
			progressed++
		},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.RunID == "" {
		t.Fatal("expected run id")
	}
	if len(summary.BestByGeneration) != 3 {
		t.Fatalf("unexpected generation history length: %d", len(summary.BestByGeneration))
	}
	if progressed != 3 {
		t.Fatalf("expected 3 progress callbacks, got %d", progressed)
	}
	if summary.FinalBestGuess == "" {
		t.Fatal("expected final best guess")
	}

	runs, err := client.Runs(context.Background(), RunsRequest{Limit: 5})
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(runs) == 0 || runs[0].RunID != summary.RunID {
		t.Fatalf("expected latest run %s in runs list: %+v", summary.RunID, runs)
	}

	history, err := client.FitnessHistory(context.Background(), FitnessHistoryRequest{RunID: summary.RunID, Limit: 10})
	if err != nil {
		t.Fatalf("fitness history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("unexpected fitness history length: %d", len(history))
	}
	diagnostics, err := client.Diagnostics(context.Background(), DiagnosticsRequest{RunID: summary.RunID, Limit: 10})
	if err != nil {
		t.Fatalf("diagnostics: %v", err)
	}
	if len(diagnostics) != 3 {
		t.Fatalf("unexpected diagnostics length: %d", len(diagnostics))
	}
	top, err := client.TopIndividuals(context.Background(), TopIndividualsRequest{RunID: summary.RunID, Limit: 5})
	if err != nil {
		t.Fatalf("top individuals: %v", err)
	}
	if len(top) != 2 || top[0].Rank != 1 {
		t.Fatalf("unexpected top individuals: %+v", top)
	}

	exported, err := client.Export(context.Background(), ExportRequest{Latest: true})
	if err != nil {
		t.Fatalf("export latest: %v", err)
	}
	if exported.RunID != summary.RunID {
		t.Fatalf("exported run mismatch: got=%s want=%s", exported.RunID, summary.RunID)
	}
	for _, file := range []string{"config.json", "fitness_history.json", "generation_diagnostics.json", "top_individuals.json"} {
		if _, err := os.Stat(filepath.Join(exported.Directory, file)); err != nil {
			t.Fatalf("expected exported file %s: %v", file, err)
		}
	}
}

func TestClientRunRequiresTarget(t *testing.T) {
	client := newTestClient(t)

	if _, err := client.Run(context.Background(), RunRequest{}); err == nil {
		t.Fatal("expected target validation error")
	}
}

func TestClientRunRejectsNegativeCounts(t *testing.T) {
	client := newTestClient(t)

	_, err := client.Run(context.Background(), RunRequest{
		Target:     "ab",
		EliteCount: -1,
	})
	if err == nil {
		t.Fatal("expected breeding count validation error")
	}
}

func TestClientRunKeepsExplicitRunID(t *testing.T) {
	client := newTestClient(t)

	summary, err := client.Run(context.Background(), RunRequest{
		RunID:          "pinned-run",
		Target:         "ab",
		Seed:           7,
		Generations:    2,
		GenerationSize: 12,
		EliteCount:     2,
		CrossOverCount: 4,
		MutatedCount:   4,
		MutationRate:   0.1,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.RunID != "pinned-run" {
		t.Fatalf("expected pinned run id, got %s", summary.RunID)
	}
}

func TestClientRunsAreDeterministicForSameSeed(t *testing.T) {
	first := newTestClient(t)
	second := newTestClient(t)

	req := RunRequest{
		Target:         "abc",
		Seed:           99,
		Workers:        1,
		Generations:    5,
		GenerationSize: 30,
		EliteCount:     2,
		CrossOverCount: 8,
		MutatedCount:   8,
		MutationRate:   0.1,
	}
	a, err := first.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := second.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(a.BestByGeneration) != len(b.BestByGeneration) {
		t.Fatalf("history length mismatch: %d vs %d", len(a.BestByGeneration), len(b.BestByGeneration))
	}
	for i := range a.BestByGeneration {
		if a.BestByGeneration[i] != b.BestByGeneration[i] {
			t.Fatalf("history diverged at generation %d: %v vs %v", i, a.BestByGeneration[i], b.BestByGeneration[i])
		}
	}
	if a.FinalBestGuess != b.FinalBestGuess {
		t.Fatalf("final guesses diverged: %q vs %q", a.FinalBestGuess, b.FinalBestGuess)
	}
}

func TestClientQueriesRejectAmbiguousRunSelection(t *testing.T) {
	client := newTestClient(t)

	if _, err := client.FitnessHistory(context.Background(), FitnessHistoryRequest{RunID: "x", Latest: true}); err == nil {
		t.Fatal("expected run selection error")
	}
	if _, err := client.Diagnostics(context.Background(), DiagnosticsRequest{}); err == nil {
		t.Fatal("expected missing run selection error")
	}
	if _, err := client.TopIndividuals(context.Background(), TopIndividualsRequest{Latest: true}); err == nil {
		t.Fatal("expected no-runs error")
	}
	if _, err := client.Export(context.Background(), ExportRequest{}); err == nil {
		t.Fatal("expected export selection error")
	}
}
