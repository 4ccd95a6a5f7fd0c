package evo

import "math/rand"

// Alphabet is the fixed ordered set of characters usable when generating or
// mutating candidates. It is built once and shared read-only.
type Alphabet []byte

// DefaultAlphabet returns lowercase and uppercase letters, digits, and the
// punctuation/whitespace set guess targets are written in.
func DefaultAlphabet() Alphabet {
	const symbols = "=_!@#$%^&*()<>[];:'\" \n"
	alphabet := make(Alphabet, 0, 26+26+10+len(symbols))
	for c := byte('a'); c <= 'z'; c++ {
		alphabet = append(alphabet, c)
	}
	for c := byte('A'); c <= 'Z'; c++ {
		alphabet = append(alphabet, c)
	}
	for c := byte('0'); c <= '9'; c++ {
		alphabet = append(alphabet, c)
	}
	alphabet = append(alphabet, symbols...)
	return alphabet
}

// Pick draws one character uniformly from the alphabet.
func (a Alphabet) Pick(rng *rand.Rand) byte {
	return a[rng.Intn(len(a))]
}

// Contains reports whether c is a member of the alphabet.
func (a Alphabet) Contains(c byte) bool {
	for _, member := range a {
		if member == c {
			return true
		}
	}
	return false
}
