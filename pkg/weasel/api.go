// Package weasel is the embeddable front door to the guessing-game search.
// It wires the evolutionary driver to a result store and on-disk artifacts so
// callers and the CLI share one code path.
package weasel

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"weasel/internal/evo"
	"weasel/internal/model"
	"weasel/internal/stats"
	"weasel/internal/storage"
)

const (
	defaultArtifactsDir = "artifacts"
	defaultExportsDir   = "exports"
	defaultDBPath       = "weasel.db"
)

type Options struct {
	StoreKind    string
	DBPath       string
	ArtifactsDir string
	ExportsDir   string
}

type Client struct {
	store storage.Store

	artifactsDir string
	exportsDir   string

	initialized bool
}

type RunRequest struct {
	RunID          string
	Target         string
	Seed           int64
	Workers        int
	Generations    int
	GenerationSize int
	EliteCount     int
	CrossOverCount int
	MutatedCount   int
	MutationRate   float64
	IndividualSize int

	// OnProgress, when set, receives every generation's diagnostics as the
	// run advances.
	OnProgress func(model.GenerationDiagnostics)
}

type RunSummary struct {
	RunID            string
	ArtifactsDir     string
	Target           string
	Generations      int
	BestByGeneration []float64
	FinalBestDiff    float64
	FinalBestGuess   string
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID          string
	CreatedAtUTC   string
	Target         string
	Seed           int64
	Generations    int
	GenerationSize int
	FinalBestDiff  float64
	FinalBestGuess string
}

type FitnessHistoryRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type DiagnosticsRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type TopIndividualsRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	artifactsDir := opts.ArtifactsDir
	if artifactsDir == "" {
		artifactsDir = defaultArtifactsDir
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:        store,
		artifactsDir: artifactsDir,
		exportsDir:   exportsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if req.Target == "" {
		return RunSummary{}, errors.New("target is required")
	}
	if req.Generations <= 0 {
		req.Generations = 100
	}
	if req.GenerationSize <= 0 {
		req.GenerationSize = 500
	}
	if req.EliteCount < 0 || req.CrossOverCount < 0 || req.MutatedCount < 0 {
		return RunSummary{}, errors.New("breeding counts must be >= 0")
	}
	if req.EliteCount == 0 && req.CrossOverCount == 0 && req.MutatedCount == 0 {
		req.EliteCount = 10
		req.CrossOverCount = 200
		req.MutatedCount = 200
	}
	if req.MutationRate == 0 {
		req.MutationRate = 0.05
	}
	if req.IndividualSize <= 0 {
		req.IndividualSize = 2 * len(req.Target)
	}

	if err := c.Init(ctx); err != nil {
		return RunSummary{}, err
	}

	driver, err := evo.NewDriver(evo.DriverConfig{
		Evaluator: evo.GuessEvaluator{Target: req.Target},
		Params: evo.Params{
			GenerationSize: req.GenerationSize,
			EliteCount:     req.EliteCount,
			CrossOverCount: req.CrossOverCount,
			MutatedCount:   req.MutatedCount,
			MutationRate:   req.MutationRate,
			IndividualSize: req.IndividualSize,
		},
		Seed:    req.Seed,
		Workers: req.Workers,
	})
	if err != nil {
		return RunSummary{}, err
	}

	result, err := driver.Run(ctx, req.Generations, req.OnProgress)
	if err != nil {
		return RunSummary{}, err
	}

	now := time.Now().UTC()
	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	run := model.Run{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		ID:             runID,
		Target:         req.Target,
		Seed:           req.Seed,
		Workers:        req.Workers,
		Generations:    req.Generations,
		GenerationSize: req.GenerationSize,
		EliteCount:     req.EliteCount,
		CrossOverCount: req.CrossOverCount,
		MutatedCount:   req.MutatedCount,
		MutationRate:   req.MutationRate,
		IndividualSize: req.IndividualSize,
		CreatedAtUTC:   now.Format(time.RFC3339Nano),
		FinalBestDiff:  result.FinalBest.Diff,
		FinalBestGuess: result.FinalBest.Data,
	}
	if err := c.saveRun(ctx, run, result); err != nil {
		return RunSummary{}, err
	}

	top := make([]stats.TopIndividual, 0, len(result.Top))
	for i, individual := range result.Top {
		top = append(top, stats.TopIndividual{Rank: i + 1, Diff: individual.Diff, Data: individual.Data})
	}
	runDir, err := stats.WriteRunArtifacts(c.artifactsDir, stats.RunArtifacts{
		Config: stats.RunConfig{
			RunID:          runID,
			Target:         req.Target,
			Seed:           req.Seed,
			Workers:        req.Workers,
			Generations:    req.Generations,
			GenerationSize: req.GenerationSize,
			EliteCount:     req.EliteCount,
			CrossOverCount: req.CrossOverCount,
			MutatedCount:   req.MutatedCount,
			MutationRate:   req.MutationRate,
			IndividualSize: req.IndividualSize,
			CreatedAtUTC:   run.CreatedAtUTC,
		},
		BestByGeneration:      result.BestByGeneration,
		GenerationDiagnostics: result.Diagnostics,
		TopIndividuals:        top,
		FinalBestDiff:         result.FinalBest.Diff,
		FinalBestGuess:        result.FinalBest.Data,
	})
	if err != nil {
		return RunSummary{}, err
	}
	if err := stats.AppendRunIndex(c.artifactsDir, stats.RunIndexEntry{
		RunID:          runID,
		Target:         req.Target,
		Seed:           req.Seed,
		Workers:        req.Workers,
		Generations:    req.Generations,
		GenerationSize: req.GenerationSize,
		EliteCount:     req.EliteCount,
		FinalBestDiff:  result.FinalBest.Diff,
		FinalBestGuess: result.FinalBest.Data,
		CreatedAtUTC:   run.CreatedAtUTC,
	}); err != nil {
		return RunSummary{}, err
	}

	return RunSummary{
		RunID:            runID,
		ArtifactsDir:     filepath.Clean(runDir),
		Target:           req.Target,
		Generations:      req.Generations,
		BestByGeneration: append([]float64(nil), result.BestByGeneration...),
		FinalBestDiff:    result.FinalBest.Diff,
		FinalBestGuess:   result.FinalBest.Data,
	}, nil
}

func (c *Client) saveRun(ctx context.Context, run model.Run, result evo.RunResult) error {
	if err := c.store.SaveRun(ctx, run); err != nil {
		return err
	}
	if err := c.store.SaveFitnessHistory(ctx, run.ID, result.BestByGeneration); err != nil {
		return err
	}
	if err := c.store.SaveGenerationDiagnostics(ctx, run.ID, result.Diagnostics); err != nil {
		return err
	}
	records := make([]model.TopIndividualRecord, 0, len(result.Top))
	for i, individual := range result.Top {
		records = append(records, model.TopIndividualRecord{
			VersionedRecord: run.VersionedRecord,
			Rank:            i + 1,
			Diff:            individual.Diff,
			Data:            individual.Data,
		})
	}
	return c.store.SaveTopIndividuals(ctx, run.ID, records)
}

func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}
	if err := c.Init(ctx); err != nil {
		return nil, err
	}

	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	if len(runs) > req.Limit {
		runs = runs[:req.Limit]
	}

	out := make([]RunItem, 0, len(runs))
	for _, run := range runs {
		out = append(out, RunItem{
			RunID:          run.ID,
			CreatedAtUTC:   run.CreatedAtUTC,
			Target:         run.Target,
			Seed:           run.Seed,
			Generations:    run.Generations,
			GenerationSize: run.GenerationSize,
			FinalBestDiff:  run.FinalBestDiff,
			FinalBestGuess: run.FinalBestGuess,
		})
	}
	return out, nil
}

func (c *Client) FitnessHistory(ctx context.Context, req FitnessHistoryRequest) ([]float64, error) {
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest, req.Limit)
	if err != nil {
		return nil, err
	}

	history, ok, err := c.store.GetFitnessHistory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("fitness history not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(history) > req.Limit {
		history = history[:req.Limit]
	}
	return append([]float64(nil), history...), nil
}

func (c *Client) Diagnostics(ctx context.Context, req DiagnosticsRequest) ([]model.GenerationDiagnostics, error) {
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest, req.Limit)
	if err != nil {
		return nil, err
	}

	diagnostics, ok, err := c.store.GetGenerationDiagnostics(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("diagnostics not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(diagnostics) > req.Limit {
		diagnostics = diagnostics[:req.Limit]
	}
	out := make([]model.GenerationDiagnostics, len(diagnostics))
	copy(out, diagnostics)
	return out, nil
}

func (c *Client) TopIndividuals(ctx context.Context, req TopIndividualsRequest) ([]model.TopIndividualRecord, error) {
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest, req.Limit)
	if err != nil {
		return nil, err
	}

	top, ok, err := c.store.GetTopIndividuals(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("top individuals not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(top) > req.Limit {
		top = top[:req.Limit]
	}
	out := make([]model.TopIndividualRecord, len(top))
	copy(out, top)
	return out, nil
}

func (c *Client) Export(ctx context.Context, req ExportRequest) (ExportSummary, error) {
	if req.RunID != "" && req.Latest {
		return ExportSummary{}, errors.New("use either run id or latest")
	}
	if req.RunID == "" && !req.Latest {
		return ExportSummary{}, errors.New("export requires run id or latest")
	}
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}

	runID := req.RunID
	if req.Latest {
		entries, err := stats.ListRunIndex(c.artifactsDir)
		if err != nil {
			return ExportSummary{}, err
		}
		if len(entries) == 0 {
			return ExportSummary{}, errors.New("no runs available to export")
		}
		runID = entries[0].RunID
	}

	exportedDir, err := stats.ExportRunArtifacts(c.artifactsDir, runID, req.OutDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: runID, Directory: filepath.Clean(exportedDir)}, nil
}

func (c *Client) resolveRunID(ctx context.Context, runID string, latest bool, limit int) (string, error) {
	if runID != "" && latest {
		return "", errors.New("use either run id or latest")
	}
	if limit < 0 {
		return "", errors.New("limit must be >= 0")
	}
	if err := c.Init(ctx); err != nil {
		return "", err
	}

	if latest {
		runs, err := c.store.ListRuns(ctx)
		if err != nil {
			return "", err
		}
		if len(runs) == 0 {
			return "", errors.New("no runs available")
		}
		return runs[0].ID, nil
	}
	if runID == "" {
		return "", errors.New("run id or latest is required")
	}
	return runID, nil
}
