package cluster

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/drakos74/kmeanspro/infra/config"
	"github.com/drakos74/kmeanspro/internal/math/ml"
	"github.com/drakos74/kmeanspro/internal/metrics"
)

// ErrNotFitted is returned when the instance is used before a successful fit.
var ErrNotFitted = errors.New("model is not fitted")

// Errors returned by Fit, Classify and Scene.
var (
	ErrDimensionMismatch    = ml.ErrDimensionMismatch
	ErrInvalidClusterCount  = ml.ErrInvalidClusterCount
	ErrInvalidNeighborCount = ml.ErrInvalidNeighborCount
	ErrInvalidPoint         = ml.ErrInvalidPoint
	ErrUnknownMethod        = ml.ErrUnknownMethod
)

type (
	// Model is a fitted clustering.
	Model = ml.Model
	// Method selects how new points are assigned to clusters.
	Method = ml.Method
	// NearestCentroid assigns a point to the cluster with the closest centroid.
	NearestCentroid = ml.NearestCentroid
	// KNearestNeighbors assigns a point to the most frequent cluster among its K closest training samples.
	KNearestNeighbors = ml.KNearestNeighbors
)

// Option configures a KMeansPro instance.
type Option func(k *KMeansPro)

// WithConfig replaces the whole configuration.
func WithConfig(cfg config.KMeans) Option {
	return func(k *KMeansPro) {
		k.cfg = cfg
	}
}

// WithSeed fixes the seed of the restarts, making fits reproducible.
func WithSeed(seed uint64) Option {
	return func(k *KMeansPro) {
		k.cfg.Seed = seed
	}
}

// WithRange sets the candidate cluster counts.
func WithRange(minK, maxK int) Option {
	return func(k *KMeansPro) {
		k.cfg.MinK = minK
		k.cfg.MaxK = maxK
	}
}

// WithMaxIterations bounds the iterations of every single k-means run.
func WithMaxIterations(n int) Option {
	return func(k *KMeansPro) {
		k.cfg.MaxIterations = n
	}
}

// WithWorkers bounds the number of restarts running in parallel.
func WithWorkers(n int) Option {
	return func(k *KMeansPro) {
		k.cfg.Workers = n
	}
}

// KMeansPro searches for the best k-means clustering of a dataset,
// and classifies new points against it.
// It is safe for concurrent use, a fit replaces the model atomically.
type KMeansPro struct {
	cfg     config.KMeans
	model   atomic.Pointer[ml.Model]
	metrics *metrics.Metrics
}

// New creates an untrained instance.
func New(opts ...Option) *KMeansPro {
	k := &KMeansPro{
		cfg:     config.Default(),
		metrics: metrics.Observer,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Fit searches the best clustering of the given points, trying repeats restarts
// for every candidate cluster count. A non-positive repeats falls back to the configured one.
// On success the fitted model replaces the stored one. On failure no model is stored.
func (k *KMeansPro) Fit(ctx context.Context, points [][]float64, repeats int) (*Model, error) {
	start := time.Now()
	model, err := k.fit(ctx, points, repeats)
	d := time.Since(start)
	if err != nil {
		k.model.Store(nil)
		k.metrics.FitFailed(d)
		log.Error().
			Err(err).
			Int("samples", len(points)).
			Dur("duration", d).
			Msg("could not fit model")
		return nil, err
	}

	k.model.Store(model)
	for _, s := range model.Scores() {
		k.metrics.Restarts(s.K, len(s.Restarts))
	}
	k.metrics.Fit(d, model.NumCluster(), model.Goodness())
	log.Info().
		Str("model", model.ID()).
		Int("samples", len(points)).
		Int("clusters", model.NumCluster()).
		Float64("goodness", model.Goodness()).
		Ints("counts", model.ClusterCounts()).
		Dur("duration", d).
		Msg("fitted model")
	return model, nil
}

func (k *KMeansPro) fit(ctx context.Context, points [][]float64, repeats int) (*Model, error) {
	data, err := ml.NewDataset(points)
	if err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}
	opts := k.options(repeats)
	log.Debug().
		Int("samples", data.Len()).
		Int("dim", data.Dim()).
		Int("repeats", opts.Repeats).
		Int("min_k", opts.MinK).
		Int("max_k", opts.MaxK).
		Uint64("seed", opts.Seed).
		Msg("fitting model")
	return ml.Search(ctx, data, opts)
}

func (k *KMeansPro) options(repeats int) ml.Options {
	if repeats <= 0 {
		repeats = k.cfg.Repeats
	}
	seed := k.cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	workers := k.cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return ml.Options{
		Repeats:       repeats,
		MinK:          k.cfg.MinK,
		MaxK:          k.cfg.MaxK,
		MaxIterations: k.cfg.MaxIterations,
		Workers:       workers,
		Seed:          seed,
	}
}

// Model returns the fitted model.
func (k *KMeansPro) Model() (*Model, error) {
	model := k.model.Load()
	if model == nil {
		return nil, ErrNotFitted
	}
	return model, nil
}

// NumCluster returns the number of clusters of the fitted model.
func (k *KMeansPro) NumCluster() (int, error) {
	model, err := k.Model()
	if err != nil {
		return 0, err
	}
	return model.NumCluster(), nil
}

// Goodness returns the score of the fitted model.
func (k *KMeansPro) Goodness() (float64, error) {
	model, err := k.Model()
	if err != nil {
		return 0, err
	}
	return model.Goodness(), nil
}

// ClusterCounts returns the number of training samples in each cluster of the fitted model.
func (k *KMeansPro) ClusterCounts() ([]int, error) {
	model, err := k.Model()
	if err != nil {
		return nil, err
	}
	return model.ClusterCounts(), nil
}

// Classify assigns each query point to a cluster of the fitted model.
func (k *KMeansPro) Classify(queries [][]float64, method Method) ([]int, error) {
	model, err := k.Model()
	if err != nil {
		return nil, err
	}
	labels, err := model.Classify(queries, method)
	if err != nil {
		return nil, err
	}
	k.metrics.Classified(method.String(), len(queries))
	return labels, nil
}
