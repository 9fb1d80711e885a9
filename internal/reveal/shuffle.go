package reveal

import "math/rand/v2"

// shuffleStream is the fixed PCG stream selector for ShuffleV1. Changing it
// changes every permutation, so it is part of the version.
const shuffleStream = 0x5DEECE66D

// Permutation returns a permutation of 0..n-1 determined only by seed.
// It uses ShuffleV1 and is stable across releases and platforms.
func Permutation(n int, seed uint64) []int {
	if n <= 0 {
		return nil
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	ShuffleV1(perm, seed)
	return perm
}

// ShuffleV1 permutes s in place with a Fisher–Yates pass from the last index
// down, drawing from PCG-DXSM seeded with (seed, shuffleStream). The bound is
// applied with a plain modulo so the sequence does not depend on any
// library's rejection sampling.
func ShuffleV1(s []int, seed uint64) {
	src := rand.NewPCG(seed, shuffleStream)
	for i := len(s) - 1; i > 0; i-- {
		j := int(src.Uint64() % uint64(i+1))
		s[i], s[j] = s[j], s[i]
	}
}
