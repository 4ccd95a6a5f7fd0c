package evo

import (
	"math/rand"

	"weasel/internal/model"
)

// CrossOver blends two ranked parents into one unranked child. The child
// length is the floor of the parents' mean length; the longer parent
// contributes its tail verbatim, and within the shorter parent's length each
// position is drawn from one of the two parents with a coin biased toward the
// fitter one.
func CrossOver(rng *rand.Rand, a, b model.Individual) model.Individual {
	newLen := (len(a.Data) + len(b.Data)) / 2

	longer := b
	if len(a.Data) > len(b.Data) {
		longer = a
	}
	child := make([]byte, newLen)
	copy(child, longer.Data)

	// A parent's weight grows with the other parent's distance, so the
	// parent closer to the target wins the coin more often. The +2 floor
	// keeps both weights positive when a diff is zero.
	weightA := 2 + b.Diff
	weightB := 2 + a.Diff

	overlap := len(a.Data)
	if len(b.Data) < overlap {
		overlap = len(b.Data)
	}
	for i := 0; i < overlap; i++ {
		if rng.Float64()*(weightA+weightB) < weightA {
			child[i] = a.Data[i]
		} else {
			child[i] = b.Data[i]
		}
	}
	return model.Individual{Data: string(child), Diff: UnevaluatedDiff}
}
