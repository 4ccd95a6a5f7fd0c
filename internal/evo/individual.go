package evo

import (
	"math/rand"

	"weasel/internal/model"
)

// UnevaluatedDiff marks an individual whose distance has not been computed yet.
const UnevaluatedDiff = -1

// Fresh random individuals are seeded with short guesses; mutation is what
// later explores lengths up to the configured individual size.
const (
	minSeedLength = 1
	maxSeedLength = 30
)

// RandomIndividual produces an unranked candidate whose length is uniform in
// [1, 30] and whose characters are drawn uniformly from the alphabet.
func RandomIndividual(rng *rand.Rand, alphabet Alphabet) model.Individual {
	length := minSeedLength + rng.Intn(maxSeedLength-minSeedLength+1)
	data := make([]byte, length)
	for i := range data {
		data[i] = alphabet.Pick(rng)
	}
	return model.Individual{Data: string(data), Diff: UnevaluatedDiff}
}
