package evo

import (
	"math/rand"
	"testing"
)

func TestRandomIndividualBounds(t *testing.T) {
	alphabet := DefaultAlphabet()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		individual := RandomIndividual(rng, alphabet)
		if len(individual.Data) < 1 || len(individual.Data) > 30 {
			t.Fatalf("length %d outside [1, 30]", len(individual.Data))
		}
		for j := 0; j < len(individual.Data); j++ {
			if !alphabet.Contains(individual.Data[j]) {
				t.Fatalf("character %q outside the alphabet", individual.Data[j])
			}
		}
		if individual.Diff != UnevaluatedDiff {
			t.Fatalf("diff = %v, want unevaluated sentinel %v", individual.Diff, UnevaluatedDiff)
		}
	}
}

func TestRandomIndividualDeterministic(t *testing.T) {
	alphabet := DefaultAlphabet()
	a := RandomIndividual(rand.New(rand.NewSource(7)), alphabet)
	b := RandomIndividual(rand.New(rand.NewSource(7)), alphabet)
	if a.Data != b.Data {
		t.Fatalf("same seed produced %q and %q", a.Data, b.Data)
	}
}
