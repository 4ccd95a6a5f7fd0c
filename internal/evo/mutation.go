package evo

import (
	"fmt"
	"math/rand"

	"weasel/internal/model"
)

// Mutate perturbs a candidate's length and characters into an unranked copy.
// The new length is uniform in [1, individualSize], drawn as a delta anchored
// at the source length. Positions gained by growth are filled with fresh
// draws, and afterwards every position is independently replaced with
// probability mutationRate, so grown positions can be re-mutated in the same
// pass.
func Mutate(rng *rand.Rand, source model.Individual, alphabet Alphabet, individualSize int, mutationRate float64) (model.Individual, error) {
	sourceLen := len(source.Data)
	delta, err := intInRange(rng, minSeedLength-sourceLen, individualSize-sourceLen)
	if err != nil {
		return model.Individual{}, fmt.Errorf("mutate length change: %w", err)
	}
	newLen := sourceLen + delta

	data := make([]byte, newLen)
	copy(data, source.Data)
	for i := sourceLen; i < newLen; i++ {
		data[i] = alphabet.Pick(rng)
	}
	for i := range data {
		if rng.Float64() < mutationRate {
			data[i] = alphabet.Pick(rng)
		}
	}
	return model.Individual{Data: string(data), Diff: UnevaluatedDiff}, nil
}

// intInRange draws uniformly from [min, max] inclusive. An empty range is a
// configuration error, not a sampling outcome.
func intInRange(rng *rand.Rand, min, max int) (int, error) {
	if min > max {
		return 0, fmt.Errorf("empty range [%d, %d]", min, max)
	}
	return min + rng.Intn(max-min+1), nil
}
