package evo

import (
	"math/rand"
	"sort"
	"testing"

	"weasel/internal/model"
)

func testPopulation(size int, seed int64) []model.Individual {
	rng := rand.New(rand.NewSource(seed))
	alphabet := DefaultAlphabet()
	population := make([]model.Individual, 0, size)
	for i := 0; i < size; i++ {
		population = append(population, RandomIndividual(rng, alphabet))
	}
	return population
}

func TestRankSortsAscendingAndKeepsSize(t *testing.T) {
	population := testPopulation(101, 42)
	ranker := Ranker{Evaluator: GuessEvaluator{Target: "hello world"}, Workers: 4}

	ranker.Rank(population)

	if len(population) != 101 {
		t.Fatalf("population size changed to %d", len(population))
	}
	if !sort.SliceIsSorted(population, func(i, j int) bool {
		return population[i].Diff < population[j].Diff
	}) {
		t.Fatal("population not sorted by ascending diff")
	}
	for i, individual := range population {
		if individual.Diff < 0 {
			t.Fatalf("individual %d still has unevaluated diff %v", i, individual.Diff)
		}
	}
}

func TestRankMatchesSequentialEvaluation(t *testing.T) {
	eval := GuessEvaluator{Target: "some target"}
	population := testPopulation(57, 7)

	want := map[string]float64{}
	for _, individual := range population {
		want[individual.Data] = eval.Evaluate(individual.Data)
	}

	ranker := Ranker{Evaluator: eval, Workers: 8}
	ranker.Rank(population)

	for _, individual := range population {
		if individual.Diff != want[individual.Data] {
			t.Fatalf("diff for %q = %v, want %v", individual.Data, individual.Diff, want[individual.Data])
		}
	}
}

func TestRankWorkerEdgeCases(t *testing.T) {
	eval := GuessEvaluator{Target: "x"}

	// More workers than individuals.
	small := testPopulation(3, 1)
	(Ranker{Evaluator: eval, Workers: 16}).Rank(small)
	if len(small) != 3 {
		t.Fatalf("population size changed to %d", len(small))
	}

	// Default worker detection.
	defaulted := testPopulation(10, 2)
	(Ranker{Evaluator: eval}).Rank(defaulted)
	for i, individual := range defaulted {
		if individual.Diff < 0 {
			t.Fatalf("individual %d unevaluated with defaulted workers", i)
		}
	}

	// Empty population is a no-op.
	(Ranker{Evaluator: eval, Workers: 2}).Rank(nil)
}
