package storage

import (
	"context"
	"testing"

	"weasel/internal/model"
)

func testRun(id, createdAt string) model.Run {
	return model.Run{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: CurrentSchemaVersion,
			CodecVersion:  CurrentCodecVersion,
		},
		ID:             id,
		Target:         "hello",
		Seed:           42,
		Generations:    100,
		GenerationSize: 50,
		EliteCount:     2,
		CrossOverCount: 20,
		MutatedCount:   20,
		MutationRate:   0.05,
		IndividualSize: 10,
		CreatedAtUTC:   createdAt,
		FinalBestDiff:  123,
		FinalBestGuess: "hellp",
	}
}

func TestMemoryStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	run := testRun("run-1", "2026-01-02T00:00:00Z")
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}

	got, ok, err := store.GetRun(ctx, "run-1")
	if err != nil || !ok {
		t.Fatalf("get run: ok=%v err=%v", ok, err)
	}
	if got != run {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, run)
	}

	if _, ok, err := store.GetRun(ctx, "missing"); err != nil || ok {
		t.Fatalf("missing run: ok=%v err=%v", ok, err)
	}
}

func TestMemoryStoreListRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	for _, run := range []model.Run{
		testRun("older", "2026-01-01T00:00:00Z"),
		testRun("newer", "2026-01-03T00:00:00Z"),
		testRun("middle", "2026-01-02T00:00:00Z"),
	} {
		if err := store.SaveRun(ctx, run); err != nil {
			t.Fatalf("save run %s: %v", run.ID, err)
		}
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	want := []string{"newer", "middle", "older"}
	if len(runs) != len(want) {
		t.Fatalf("run count = %d, want %d", len(runs), len(want))
	}
	for i, id := range want {
		if runs[i].ID != id {
			t.Fatalf("runs[%d] = %s, want %s", i, runs[i].ID, id)
		}
	}
}

func TestMemoryStoreHistoryAndDiagnostics(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	history := []float64{300, 200, 100}
	if err := store.SaveFitnessHistory(ctx, "run-1", history); err != nil {
		t.Fatalf("save history: %v", err)
	}
	gotHistory, ok, err := store.GetFitnessHistory(ctx, "run-1")
	if err != nil || !ok {
		t.Fatalf("get history: ok=%v err=%v", ok, err)
	}
	// Stored copy must be isolated from caller mutation.
	history[0] = -1
	if gotHistory[0] != 300 {
		t.Fatalf("history aliases caller slice: %v", gotHistory)
	}

	diagnostics := []model.GenerationDiagnostics{
		{Generation: 0, BestDiff: 300, MeanDiff: 500, WorstDiff: 900, BestGuess: "aaa", BestLength: 3},
	}
	if err := store.SaveGenerationDiagnostics(ctx, "run-1", diagnostics); err != nil {
		t.Fatalf("save diagnostics: %v", err)
	}
	gotDiagnostics, ok, err := store.GetGenerationDiagnostics(ctx, "run-1")
	if err != nil || !ok {
		t.Fatalf("get diagnostics: ok=%v err=%v", ok, err)
	}
	if gotDiagnostics[0] != diagnostics[0] {
		t.Fatalf("diagnostics mismatch: %+v", gotDiagnostics[0])
	}

	if _, ok, err := store.GetFitnessHistory(ctx, "missing"); err != nil || ok {
		t.Fatalf("missing history: ok=%v err=%v", ok, err)
	}
}

func TestMemoryStoreTopIndividuals(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	top := []model.TopIndividualRecord{
		{
			VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
			Rank:            1,
			Diff:            0,
			Data:            "hello",
		},
	}
	if err := store.SaveTopIndividuals(ctx, "run-1", top); err != nil {
		t.Fatalf("save top: %v", err)
	}
	got, ok, err := store.GetTopIndividuals(ctx, "run-1")
	if err != nil || !ok {
		t.Fatalf("get top: ok=%v err=%v", ok, err)
	}
	if got[0] != top[0] {
		t.Fatalf("top mismatch: %+v", got[0])
	}
}
