package evo

import "math"

// lengthPenalty dominates the per-character terms so wrong-length guesses are
// pushed toward the correct length before character search takes over.
const lengthPenalty = 256 * 256

// GuessEvaluator scores candidate guesses against a fixed target string.
// Lower is better; zero means an exact match. The target is read-only, so the
// evaluator is safe for concurrent use.
type GuessEvaluator struct {
	Target string
}

// Evaluate returns the distance between candidate and the target: the sum of
// per-position character distances scaled by 256 over the overlapping prefix,
// plus 256^2 per unit of length mismatch.
func (e GuessEvaluator) Evaluate(candidate string) float64 {
	overlap := len(e.Target)
	if len(candidate) < overlap {
		overlap = len(candidate)
	}

	sum := 0.0
	for i := 0; i < overlap; i++ {
		sum += math.Abs(float64(e.Target[i])-float64(candidate[i])) * 256
	}

	lengthDiff := len(candidate) - len(e.Target)
	if lengthDiff < 0 {
		lengthDiff = -lengthDiff
	}

	total := sum + float64(lengthDiff)*lengthPenalty
	if total < 0 {
		panic("evo: negative guess distance")
	}
	return total
}
