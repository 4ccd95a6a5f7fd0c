package storage

import (
	"context"

	"weasel/internal/model"
)

// Store defines persistence operations for archived evolution runs.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.Run) error
	GetRun(ctx context.Context, id string) (model.Run, bool, error)
	ListRuns(ctx context.Context) ([]model.Run, error)
	SaveFitnessHistory(ctx context.Context, runID string, history []float64) error
	GetFitnessHistory(ctx context.Context, runID string) ([]float64, bool, error)
	SaveGenerationDiagnostics(ctx context.Context, runID string, diagnostics []model.GenerationDiagnostics) error
	GetGenerationDiagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, bool, error)
	SaveTopIndividuals(ctx context.Context, runID string, top []model.TopIndividualRecord) error
	GetTopIndividuals(ctx context.Context, runID string) ([]model.TopIndividualRecord, bool, error)
}
