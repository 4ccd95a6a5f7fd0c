package evo

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"weasel/internal/model"
)

// Params are the per-run knobs of the evolution loop.
type Params struct {
	GenerationSize int
	EliteCount     int
	CrossOverCount int
	MutatedCount   int
	MutationRate   float64
	IndividualSize int
}

// DriverConfig assembles everything one run needs. A zero Alphabet falls back
// to DefaultAlphabet; a non-positive Workers value means one ranking worker
// per available CPU.
type DriverConfig struct {
	Evaluator GuessEvaluator
	Params    Params
	Alphabet  Alphabet
	Seed      int64
	Workers   int
}

// Driver owns the current generation and the run's single random stream. All
// stochastic phases (selection, crossover, mutation, padding) run on the
// caller's goroutine so a fixed seed reproduces the exact draw sequence; only
// ranking fans out to workers.
type Driver struct {
	cfg        DriverConfig
	rng        *rand.Rand
	ranker     Ranker
	generation []model.Individual
	step       int
}

// RunResult collects the artifacts of a completed run.
type RunResult struct {
	BestByGeneration []float64
	Diagnostics      []model.GenerationDiagnostics
	FinalBest        model.Individual
	Top              []model.Individual
}

func NewDriver(cfg DriverConfig) (*Driver, error) {
	p := cfg.Params
	if p.GenerationSize <= 0 {
		return nil, fmt.Errorf("generation size must be > 0")
	}
	if p.EliteCount < 0 || p.CrossOverCount < 0 || p.MutatedCount < 0 {
		return nil, fmt.Errorf("elite, crossover and mutated counts must be >= 0")
	}
	if sum := p.EliteCount + p.CrossOverCount + p.MutatedCount; sum > p.GenerationSize {
		return nil, fmt.Errorf("elite+crossover+mutated (%d) exceeds generation size %d", sum, p.GenerationSize)
	}
	if p.MutatedCount > 0 && p.EliteCount+p.CrossOverCount == 0 {
		return nil, fmt.Errorf("mutated count requires elites or crossover children to draw from")
	}
	if p.MutationRate < 0 || p.MutationRate > 1 {
		return nil, fmt.Errorf("mutation rate must be in [0, 1]")
	}
	if p.IndividualSize < 1 {
		return nil, fmt.Errorf("individual size must be >= 1")
	}
	if len(cfg.Alphabet) == 0 {
		cfg.Alphabet = DefaultAlphabet()
	}

	d := &Driver{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		ranker: Ranker{Evaluator: cfg.Evaluator, Workers: cfg.Workers},
	}
	d.generation = make([]model.Individual, 0, p.GenerationSize)
	for i := 0; i < p.GenerationSize; i++ {
		d.generation = append(d.generation, RandomIndividual(d.rng, cfg.Alphabet))
	}
	return d, nil
}

// Generation returns the current population. The slice is owned by the driver
// and only valid until the next Step.
func (d *Driver) Generation() []model.Individual {
	return d.generation
}

// Step advances the loop by one generation: rank the current population,
// carry the elites unchanged, breed crossover children from the ranked
// population, mutate sources drawn from the elites and crossover children,
// pad with random individuals up to the generation size, then swap the new
// generation in. It returns the diagnostics of the generation that was
// ranked.
func (d *Driver) Step() (model.GenerationDiagnostics, error) {
	start := time.Now()
	p := d.cfg.Params

	d.ranker.Rank(d.generation)
	diag := summarizeGeneration(d.generation, d.step)

	next := make([]model.Individual, 0, p.GenerationSize)
	next = append(next, d.generation[:p.EliteCount]...)

	for i := 0; i < p.CrossOverCount; i++ {
		a := d.generation[d.rng.Intn(len(d.generation))]
		b := d.generation[d.rng.Intn(len(d.generation))]
		next = append(next, CrossOver(d.rng, a, b))
	}

	// Mutation sources come from the next generation as built so far, not
	// from the mutants appended below.
	built := len(next)
	for i := 0; i < p.MutatedCount; i++ {
		source := next[d.rng.Intn(built)]
		mutated, err := Mutate(d.rng, source, d.cfg.Alphabet, p.IndividualSize, p.MutationRate)
		if err != nil {
			return model.GenerationDiagnostics{}, err
		}
		next = append(next, mutated)
	}

	for len(next) < p.GenerationSize {
		next = append(next, RandomIndividual(d.rng, d.cfg.Alphabet))
	}

	d.generation = next
	d.step++
	diag.DurationMicros = time.Since(start).Microseconds()
	return diag, nil
}

// Run executes a fixed number of generations and accumulates run artifacts.
// onProgress, when non-nil, is invoked with each generation's diagnostics.
// Termination is purely budget driven; ctx cancellation is the only early
// exit.
func (d *Driver) Run(ctx context.Context, generations int, onProgress func(model.GenerationDiagnostics)) (RunResult, error) {
	if generations <= 0 {
		return RunResult{}, fmt.Errorf("generations must be > 0")
	}

	result := RunResult{
		BestByGeneration: make([]float64, 0, generations),
		Diagnostics:      make([]model.GenerationDiagnostics, 0, generations),
	}
	for gen := 0; gen < generations; gen++ {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}
		diag, err := d.Step()
		if err != nil {
			return RunResult{}, err
		}
		result.BestByGeneration = append(result.BestByGeneration, diag.BestDiff)
		result.Diagnostics = append(result.Diagnostics, diag)
		if onProgress != nil {
			onProgress(diag)
		}
	}

	d.ranker.Rank(d.generation)
	result.FinalBest = d.generation[0]
	topCount := d.cfg.Params.EliteCount
	if topCount <= 0 || topCount > len(d.generation) {
		topCount = len(d.generation)
	}
	result.Top = append([]model.Individual(nil), d.generation[:topCount]...)
	return result, nil
}

func summarizeGeneration(ranked []model.Individual, generation int) model.GenerationDiagnostics {
	if len(ranked) == 0 {
		return model.GenerationDiagnostics{Generation: generation}
	}

	total := 0.0
	for _, individual := range ranked {
		total += individual.Diff
	}
	best := ranked[0]
	return model.GenerationDiagnostics{
		Generation: generation,
		BestDiff:   best.Diff,
		MeanDiff:   total / float64(len(ranked)),
		WorstDiff:  ranked[len(ranked)-1].Diff,
		BestGuess:  best.Data,
		BestLength: len(best.Data),
	}
}
