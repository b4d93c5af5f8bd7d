package ml

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	kmath "github.com/drakos74/kmeanspro/internal/math"
)

var (
	// ErrDimensionMismatch is returned for points whose length differs from the dataset dimension.
	ErrDimensionMismatch = kmath.ErrDimensionMismatch
	// ErrInvalidClusterCount is returned for an unusable number of clusters or an empty candidate range.
	ErrInvalidClusterCount = errors.New("invalid cluster count")
	// ErrInvalidNeighborCount is returned when the k-nn neighbour count is out of range.
	ErrInvalidNeighborCount = errors.New("invalid neighbor count")
	// ErrInvalidPoint is returned for points with NaN or infinite coordinates.
	ErrInvalidPoint = errors.New("invalid point")
	// ErrUnknownMethod is returned for an assignment method the classifier does not know.
	ErrUnknownMethod = errors.New("unknown assignment method")
)

// Dataset is an ordered, validated set of points of equal dimension.
// The index of a point in the dataset is its sample index.
type Dataset struct {
	points [][]float64
	dim    int
}

// NewDataset validates and copies the given points.
func NewDataset(points [][]float64) (Dataset, error) {
	if len(points) == 0 {
		return Dataset{}, nil
	}
	dim := len(points[0])
	if dim == 0 {
		return Dataset{}, fmt.Errorf("%w: points have no coordinates", ErrDimensionMismatch)
	}
	pp := make([][]float64, len(points))
	for i, p := range points {
		if err := checkPoint(p, dim); err != nil {
			return Dataset{}, fmt.Errorf("sample %d: %w", i, err)
		}
		pp[i] = append([]float64(nil), p...)
	}
	return Dataset{
		points: pp,
		dim:    dim,
	}, nil
}

func checkPoint(p []float64, dim int) error {
	if len(p) != dim {
		return fmt.Errorf("%w: expected %d coordinates but got %d", ErrDimensionMismatch, dim, len(p))
	}
	for _, f := range p {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %v", ErrInvalidPoint, p)
		}
	}
	return nil
}

// Len returns the number of samples.
func (d Dataset) Len() int {
	return len(d.points)
}

// Dim returns the dimension of the points.
func (d Dataset) Dim() int {
	return d.dim
}

// Point returns a copy of the sample at index i.
func (d Dataset) Point(i int) []float64 {
	return append([]float64(nil), d.points[i]...)
}

// Points returns a copy of all samples.
func (d Dataset) Points() [][]float64 {
	pp := make([][]float64, len(d.points))
	for i := range d.points {
		pp[i] = d.Point(i)
	}
	return pp
}

// Distinct returns the index of the first occurrence of every distinct point, in sample order.
func (d Dataset) Distinct() []int {
	seen := make(map[string]struct{}, len(d.points))
	idx := make([]int, 0, len(d.points))
	for i, p := range d.points {
		key := pointKey(p)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		idx = append(idx, i)
	}
	return idx
}

// pointKey encodes the exact coordinates of a point, treating -0 and +0 as equal.
func pointKey(p []float64) string {
	b := make([]byte, 8*len(p))
	for i, f := range p {
		binary.LittleEndian.PutUint64(b[8*i:], math.Float64bits(f+0))
	}
	return string(b)
}
