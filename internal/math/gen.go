package math

import "golang.org/x/exp/rand"

// Uniform generates n points of the given dimension, uniformly distributed in [0,1).
func Uniform(rng *rand.Rand, n, dim int) [][]float64 {
	xx := make([][]float64, n)
	for i := 0; i < n; i++ {
		p := make([]float64, dim)
		for d := range p {
			p[d] = rng.Float64()
		}
		xx[i] = p
	}
	return xx
}

// Blobs generates size points around each of the given centers.
// Every coordinate deviates from its center by a normally distributed offset scaled by spread.
// Points are returned grouped by center, in the order of the centers.
func Blobs(rng *rand.Rand, centers [][]float64, size int, spread float64) [][]float64 {
	xx := make([][]float64, 0, len(centers)*size)
	for _, c := range centers {
		for i := 0; i < size; i++ {
			p := make([]float64, len(c))
			for d := range p {
				p[d] = c[d] + spread*rng.NormFloat64()
			}
			xx = append(xx, p)
		}
	}
	return xx
}
