package ml

import (
	"fmt"
	"sort"

	kmath "github.com/drakos74/kmeanspro/internal/math"
)

// Method selects how new points are assigned to the clusters of a model.
// It is implemented by NearestCentroid and KNearestNeighbors only.
type Method interface {
	fmt.Stringer
	method()
}

// NearestCentroid assigns a point to the cluster with the closest centroid.
type NearestCentroid struct{}

func (NearestCentroid) method() {}

func (NearestCentroid) String() string {
	return "nearest-centroid"
}

// KNearestNeighbors assigns a point to the most frequent cluster among its K closest training samples.
type KNearestNeighbors struct {
	K int
}

func (KNearestNeighbors) method() {}

func (m KNearestNeighbors) String() string {
	return fmt.Sprintf("k-nearest-neighbors(%d)", m.K)
}

// Classify assigns each query point to a cluster of the model with the given method.
// The model is not modified.
func (m *Model) Classify(queries [][]float64, method Method) ([]int, error) {
	var classify func(q []float64) int
	switch mm := method.(type) {
	case NearestCentroid:
		classify = m.nearestCentroid
	case KNearestNeighbors:
		if mm.K <= 0 || mm.K > m.data.Len() {
			return nil, fmt.Errorf("%w: k=%d for %d samples", ErrInvalidNeighborCount, mm.K, m.data.Len())
		}
		classify = func(q []float64) int {
			return m.vote(q, mm.K)
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMethod, method)
	}

	labels := make([]int, len(queries))
	for i, q := range queries {
		if err := checkPoint(q, m.data.Dim()); err != nil {
			return nil, fmt.Errorf("query %d: %w", i, err)
		}
		labels[i] = classify(q)
	}
	return labels, nil
}

// nearestCentroid returns the cluster with the closest centroid, ties going to the lowest id.
func (m *Model) nearestCentroid(q []float64) int {
	best := 0
	minDist := kmath.SquaredDistance(q, m.centroids[0])
	for c := 1; c < len(m.centroids); c++ {
		if d := kmath.SquaredDistance(q, m.centroids[c]); d < minDist {
			minDist = d
			best = c
		}
	}
	return best
}

type neighbour struct {
	index int
	dist  float64
}

// vote returns the most frequent cluster among the k training samples closest to q.
// Equally distant samples are ordered by sample index, and tied votes go to the lowest cluster id.
func (m *Model) vote(q []float64, k int) int {
	neighbours := make([]neighbour, m.data.Len())
	for i, p := range m.data.points {
		neighbours[i] = neighbour{
			index: i,
			dist:  kmath.SquaredDistance(q, p),
		}
	}
	sort.Slice(neighbours, func(i, j int) bool {
		if neighbours[i].dist != neighbours[j].dist {
			return neighbours[i].dist < neighbours[j].dist
		}
		return neighbours[i].index < neighbours[j].index
	})

	votes := make([]int, m.k)
	for _, n := range neighbours[:k] {
		votes[m.labels[n.index]]++
	}
	best := 0
	for c := 1; c < len(votes); c++ {
		if votes[c] > votes[best] {
			best = c
		}
	}
	return best
}
