package cluster

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/drakos74/kmeanspro/infra/config"
	kmath "github.com/drakos74/kmeanspro/internal/math"
)

var blobs = [][]float64{
	{0, 0}, {0, 1}, {1, 0},
	{10, 10}, {10, 11}, {11, 10},
}

func TestKMeansPro_NotFitted(t *testing.T) {
	km := New()

	_, err := km.Model()
	assert.ErrorIs(t, err, ErrNotFitted)
	_, err = km.NumCluster()
	assert.ErrorIs(t, err, ErrNotFitted)
	_, err = km.Goodness()
	assert.ErrorIs(t, err, ErrNotFitted)
	_, err = km.ClusterCounts()
	assert.ErrorIs(t, err, ErrNotFitted)
	_, err = km.Classify([][]float64{{0, 0}}, NearestCentroid{})
	assert.ErrorIs(t, err, ErrNotFitted)
	_, err = km.Scene([][]float64{{0, 0}}, KNearestNeighbors{K: 3})
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestKMeansPro_Fit(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	points := kmath.Uniform(rng, 100, 2)
	candidates := kmath.Uniform(rng, 1, 2)

	km := New(WithSeed(3), WithWorkers(2))
	model, err := km.Fit(context.Background(), points, 20)
	require.NoError(t, err)

	k, err := km.NumCluster()
	require.NoError(t, err)
	assert.Equal(t, model.NumCluster(), k)
	assert.True(t, k >= 2 && k <= 10)

	goodness, err := km.Goodness()
	require.NoError(t, err)
	assert.Equal(t, model.Goodness(), goodness)
	assert.True(t, goodness >= -1 && goodness <= 1)

	counts, err := km.ClusterCounts()
	require.NoError(t, err)
	assert.Len(t, counts, k)
	var sum int
	for _, c := range counts {
		sum += c
	}
	assert.Equal(t, 100, sum)

	for _, method := range []Method{NearestCentroid{}, KNearestNeighbors{K: 3}} {
		labels, err := km.Classify(candidates, method)
		require.NoError(t, err)
		require.Len(t, labels, 1)
		assert.True(t, labels[0] >= 0 && labels[0] < k)
	}

	// mutating the input does not affect the model
	points[0][0] = 1000
	assert.NotEqual(t, 1000.0, model.Data()[0][0])
}

func TestKMeansPro_FitReproducible(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	points := kmath.Uniform(rng, 50, 3)

	first, err := New(WithSeed(99)).Fit(context.Background(), points, 5)
	require.NoError(t, err)
	second, err := New(WithSeed(99)).Fit(context.Background(), points, 5)
	require.NoError(t, err)

	assert.Equal(t, first.Labels(), second.Labels())
	assert.Equal(t, first.Centroids(), second.Centroids())
	assert.Equal(t, uint64(99), first.Seed())

	// a time based seed is recorded on the model
	third, err := New().Fit(context.Background(), points, 5)
	require.NoError(t, err)
	assert.NotZero(t, third.Seed())
}

func TestKMeansPro_FitErrors(t *testing.T) {

	type test struct {
		km     *KMeansPro
		fitted bool
		points [][]float64
		ctx    func() context.Context
		err    error
	}

	cancelled := func() context.Context {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}

	tests := map[string]test{
		"single-sample": {
			km:     New(),
			fitted: true,
			points: [][]float64{{1, 2}},
			err:    ErrInvalidClusterCount,
		},
		"empty-range": {
			km:     New(WithRange(5, 3)),
			points: blobs,
			err:    ErrInvalidClusterCount,
		},
		"ragged": {
			km:     New(),
			fitted: true,
			points: [][]float64{{1, 2}, {1, 2, 3}, {4, 5}},
			err:    ErrDimensionMismatch,
		},
		"cancelled": {
			km:     New(),
			fitted: true,
			points: blobs,
			ctx:    cancelled,
			err:    context.Canceled,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if tt.ctx != nil {
				ctx = tt.ctx()
			}
			// a previous successful fit is discarded by the failed one
			_, err := tt.km.Fit(context.Background(), blobs, 3)
			if tt.fitted {
				require.NoError(t, err)
			}

			model, err := tt.km.Fit(ctx, tt.points, 3)
			assert.ErrorIs(t, err, tt.err)
			assert.Nil(t, model)

			_, err = tt.km.NumCluster()
			assert.ErrorIs(t, err, ErrNotFitted)
		})
	}
}

func TestKMeansPro_Scene(t *testing.T) {
	km := New(WithConfig(config.KMeans{
		Repeats:       5,
		MinK:          2,
		MaxK:          3,
		MaxIterations: 50,
		Seed:          4,
	}))
	model, err := km.Fit(context.Background(), blobs, 0)
	require.NoError(t, err)
	require.Equal(t, 2, model.NumCluster())

	labels := model.Labels()
	queries := [][]float64{{0.1, 0.1}, {10.5, 10.5}}

	for _, method := range []Method{NearestCentroid{}, KNearestNeighbors{K: 3}} {
		scene, err := km.Scene(queries, method)
		require.NoError(t, err)
		assert.Equal(t, model.ID(), scene.Model)
		assert.Equal(t, method.String(), scene.Method)
		assert.Equal(t, model.Centroids(), scene.Centroids)
		assert.Equal(t, blobs, scene.Points)
		assert.Equal(t, labels, scene.Labels)
		assert.Equal(t, queries, scene.Queries)
		assert.Equal(t, []int{labels[0], labels[3]}, scene.QueryLabels)
	}

	_, err = km.Scene(queries, KNearestNeighbors{K: 7})
	assert.ErrorIs(t, err, ErrInvalidNeighborCount)
	_, err = km.Scene([][]float64{{1}}, NearestCentroid{})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestKMeansPro_ConcurrentClassify(t *testing.T) {
	km := New(WithSeed(6))
	_, err := km.Fit(context.Background(), blobs, 5)
	require.NoError(t, err)

	expected, err := km.Classify([][]float64{{0.1, 0.1}, {9, 9}}, NearestCentroid{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]int, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var method Method = NearestCentroid{}
			if i%2 == 1 {
				method = KNearestNeighbors{K: 3}
			}
			labels, err := km.Classify([][]float64{{0.1, 0.1}, {9, 9}}, method)
			if err == nil {
				results[i] = labels
			}
		}(i)
	}
	wg.Wait()

	for _, labels := range results {
		assert.Equal(t, expected, labels)
	}
}
