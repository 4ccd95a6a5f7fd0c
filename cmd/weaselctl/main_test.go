package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"weasel/internal/stats"
)

func chdirTemp(t *testing.T) string {
	t.Helper()

	origWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	workdir := t.TempDir()
	if err := os.Chdir(workdir); err != nil {
		t.Fatalf("chdir tempdir: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(origWD)
	})
	return workdir
}

func TestRunCommandCreatesArtifacts(t *testing.T) {
	chdirTemp(t)

	args := []string{
		"run",
		"--store", "memory",
		"--target", "ab",
		"--gens", "2",
		"--generation-size", "20",
		"--elite", "2",
		"--crossover", "5",
		"--mutated", "5",
		"--seed", "11",
		"--workers", "2",
	}
	if err := run(context.Background(), args); err != nil {
		t.Fatalf("run command: %v", err)
	}

	entries, err := stats.ListRunIndex("artifacts")
	if err != nil {
		t.Fatalf("list run index: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected at least one indexed run")
	}

	runID := entries[0].RunID
	for _, file := range []string{"config.json", "fitness_history.json", "generation_diagnostics.json", "top_individuals.json"} {
		path := filepath.Join("artifacts", runID, file)
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected artifact %s: %v", path, err)
		}
	}

	exportArgs := []string{"export", "--latest"}
	if err := run(context.Background(), exportArgs); err != nil {
		t.Fatalf("export command: %v", err)
	}
	if _, err := os.Stat(filepath.Join("exports", runID, "config.json")); err != nil {
		t.Fatalf("expected exported config: %v", err)
	}
}

func TestRunCommandRequiresTarget(t *testing.T) {
	chdirTemp(t)

	if err := run(context.Background(), []string{"run", "--store", "memory"}); err == nil {
		t.Fatal("expected missing target error")
	}
}

func TestGuessCommandStopsOnMatch(t *testing.T) {
	args := []string{
		"guess",
		"--target", "ab",
		"--gens", "5000",
		"--generation-size", "60",
		"--elite", "2",
		"--crossover", "20",
		"--mutated", "20",
		"--mutation-rate", "0.1",
		"--seed", "42",
		"--workers", "2",
	}
	if err := run(context.Background(), args); err != nil {
		t.Fatalf("guess command: %v", err)
	}
}

func TestGuessCommandRejectsEmptyTarget(t *testing.T) {
	if err := run(context.Background(), []string{"guess", "--target", ""}); err == nil {
		t.Fatal("expected empty target error")
	}
}

func TestUnknownCommand(t *testing.T) {
	if err := run(context.Background(), []string{"bogus"}); err == nil {
		t.Fatal("expected unknown command error")
	}
	if err := run(context.Background(), nil); err == nil {
		t.Fatal("expected missing command error")
	}
}

func TestInitCommandMemoryStore(t *testing.T) {
	chdirTemp(t)

	if err := run(context.Background(), []string{"init", "--store", "memory"}); err != nil {
		t.Fatalf("init command: %v", err)
	}
}
