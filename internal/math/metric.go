package math

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrDimensionMismatch is returned when two points of different length are compared.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// Distance returns the euclidean distance between two points.
func Distance(p, q []float64) (float64, error) {
	if len(p) != len(q) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(p), len(q))
	}
	return floats.Distance(p, q, 2), nil
}

// SquaredDistance returns the squared euclidean distance between two points.
// It expects points of equal length, which callers validate upfront.
func SquaredDistance(p, q []float64) float64 {
	var d float64
	for i := range p {
		diff := p[i] - q[i]
		d += diff * diff
	}
	return d
}

// Mean returns the coordinate-wise mean of the given points.
// It returns nil if there are no points.
func Mean(points [][]float64) []float64 {
	if len(points) == 0 {
		return nil
	}
	mean := make([]float64, len(points[0]))
	for _, p := range points {
		floats.Add(mean, p)
	}
	floats.Scale(1/float64(len(points)), mean)
	return mean
}

// Centroids recomputes the centroid of each of the k clusters from the current labels.
// Clusters without members get a nil centroid.
func Centroids(points [][]float64, labels []int, k int) [][]float64 {
	if len(points) == 0 {
		return make([][]float64, k)
	}
	dim := len(points[0])
	sums := make([][]float64, k)
	counts := make([]int, k)
	for i, p := range points {
		c := labels[i]
		if sums[c] == nil {
			sums[c] = make([]float64, dim)
		}
		floats.Add(sums[c], p)
		counts[c]++
	}
	for c := range sums {
		if counts[c] > 0 {
			floats.Scale(1/float64(counts[c]), sums[c])
		}
	}
	return sums
}

// Dispersion returns the within-cluster sum of squared distances to the centroid, per cluster.
func Dispersion(points [][]float64, labels []int, centroids [][]float64) []float64 {
	sse := make([]float64, len(centroids))
	for i, p := range points {
		c := labels[i]
		sse[c] += SquaredDistance(p, centroids[c])
	}
	return sse
}

// Inertia is the total within-cluster dispersion.
func Inertia(points [][]float64, labels []int, centroids [][]float64) float64 {
	return floats.Sum(Dispersion(points, labels, centroids))
}

// Counts returns the number of members of each of the k clusters.
func Counts(labels []int, k int) []int {
	counts := make([]int, k)
	for _, c := range labels {
		counts[c]++
	}
	return counts
}

// WorstGoodness is the score given to degenerate clusterings.
const WorstGoodness = -1.0

// Goodness scores a clustering with the mean silhouette coefficient.
// The score lies in [-1, 1], higher is better, and is comparable across different k.
// Degenerate clusterings (k < 2, k >= number of points, or any empty cluster)
// get WorstGoodness.
func Goodness(points [][]float64, labels []int, k int) float64 {
	n := len(points)
	if k < 2 || k >= n {
		return WorstGoodness
	}
	counts := Counts(labels, k)
	for _, c := range counts {
		if c == 0 {
			return WorstGoodness
		}
	}

	var total float64
	sums := make([]float64, k)
	for i := 0; i < n; i++ {
		own := labels[i]
		if counts[own] == 1 {
			// singleton members contribute 0
			continue
		}
		for c := range sums {
			sums[c] = 0
		}
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			sums[labels[j]] += math.Sqrt(SquaredDistance(points[i], points[j]))
		}
		a := sums[own] / float64(counts[own]-1)
		b := math.MaxFloat64
		for c := 0; c < k; c++ {
			if c == own {
				continue
			}
			if avg := sums[c] / float64(counts[c]); avg < b {
				b = avg
			}
		}
		if m := math.Max(a, b); m > 0 {
			total += (b - a) / m
		}
	}
	return total / float64(n)
}
