package evo

import (
	"runtime"
	"sort"

	"github.com/sourcegraph/conc/pool"

	"weasel/internal/model"
)

// Ranker evaluates a whole population in parallel and orders it by ascending
// distance. A non-positive Workers value means one worker per available CPU.
type Ranker struct {
	Evaluator GuessEvaluator
	Workers   int
}

// Rank fills in Diff for every individual and sorts the population in place
// by non-decreasing distance. Evaluation is split into contiguous chunks, one
// worker task per chunk; chunks never overlap, so the workers share no
// mutable state, and all of them join before the sort. Ties may land in any
// order.
func (r Ranker) Rank(population []model.Individual) {
	if len(population) == 0 {
		return
	}

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(population) {
		workers = len(population)
	}

	chunkSize := (len(population) + workers - 1) / workers
	p := pool.New().WithMaxGoroutines(workers)
	for start := 0; start < len(population); start += chunkSize {
		end := start + chunkSize
		if end > len(population) {
			end = len(population)
		}
		chunk := population[start:end]
		p.Go(func() {
			for i := range chunk {
				chunk[i].Diff = r.Evaluator.Evaluate(chunk[i].Data)
			}
		})
	}
	p.Wait()

	sort.Slice(population, func(i, j int) bool {
		return population[i].Diff < population[j].Diff
	})
}
