package ml

import (
	"github.com/google/uuid"

	"github.com/drakos74/kmeanspro/internal/buffer"
	kmath "github.com/drakos74/kmeanspro/internal/math"
)

// Summary describes the members of one cluster of a fitted model.
type Summary struct {
	Cluster  int
	Size     int
	Centroid []float64
	// AvgDistance, StDevDistance and MaxDistance describe the distances of the members to the centroid.
	AvgDistance   float64
	StDevDistance float64
	MaxDistance   float64
	// SSE is the sum of squared distances of the members to the centroid.
	SSE float64
	// Spread is the standard deviation of the members along each dimension.
	Spread []float64
}

// Model is a fitted clustering.
// It is immutable, all accessors return copies.
type Model struct {
	id        string
	seed      uint64
	k         int
	centroids [][]float64
	labels    []int
	counts    []int
	goodness  float64
	scores    []Score
	summaries []Summary
	data      Dataset
}

func newModel(data Dataset, run Run, scores []Score, seed uint64) *Model {
	centroids := copyPoints(run.Centroids)
	labels := append([]int(nil), run.Labels...)

	distances := make([]*buffer.Stats, run.K)
	spread := make([]*buffer.StatsCollector, run.K)
	for c := 0; c < run.K; c++ {
		distances[c] = buffer.NewStats()
		spread[c] = buffer.NewStatsCollector(data.Dim())
	}
	for i, p := range data.points {
		c := labels[i]
		d, _ := kmath.Distance(p, centroids[c])
		distances[c].Push(d)
		// dimensions are validated with the dataset
		_ = spread[c].Push(p...)
	}

	sse := kmath.Dispersion(data.points, labels, centroids)
	summaries := make([]Summary, run.K)
	for c := 0; c < run.K; c++ {
		summaries[c] = Summary{
			Cluster:       c,
			Size:          distances[c].Count(),
			Centroid:      append([]float64(nil), centroids[c]...),
			AvgDistance:   distances[c].Avg(),
			StDevDistance: distances[c].StDev(),
			MaxDistance:   distances[c].Max(),
			SSE:           sse[c],
			Spread:        spread[c].StDev(),
		}
	}

	return &Model{
		id:        uuid.New().String(),
		seed:      seed,
		k:         run.K,
		centroids: centroids,
		labels:    labels,
		counts:    kmath.Counts(labels, run.K),
		goodness:  run.Goodness,
		scores:    scores,
		summaries: summaries,
		data:      data,
	}
}

// ID identifies the fit that produced the model.
func (m *Model) ID() string {
	return m.id
}

// Seed is the seed the restarts of the fit were drawn from.
func (m *Model) Seed() uint64 {
	return m.seed
}

// NumCluster is the chosen number of clusters.
func (m *Model) NumCluster() int {
	return m.k
}

// Goodness is the score of the chosen clustering.
func (m *Model) Goodness() float64 {
	return m.goodness
}

// ClusterCounts returns the number of training samples in each cluster, by cluster id.
func (m *Model) ClusterCounts() []int {
	return append([]int(nil), m.counts...)
}

// Centroids returns the cluster centroids, by cluster id.
func (m *Model) Centroids() [][]float64 {
	return copyPoints(m.centroids)
}

// Labels returns the cluster of every training sample, by sample index.
func (m *Model) Labels() []int {
	return append([]int(nil), m.labels...)
}

// Data returns the training samples.
func (m *Model) Data() [][]float64 {
	return m.data.Points()
}

// Dim is the dimension of the training samples.
func (m *Model) Dim() int {
	return m.data.Dim()
}

// Scores returns the search outcome for every candidate cluster count.
func (m *Model) Scores() []Score {
	ss := make([]Score, len(m.scores))
	for i, s := range m.scores {
		s.Restarts = append([]float64(nil), s.Restarts...)
		ss[i] = s
	}
	return ss
}

// Summaries returns the per-cluster statistics, by cluster id.
func (m *Model) Summaries() []Summary {
	ss := make([]Summary, len(m.summaries))
	for i, s := range m.summaries {
		s.Centroid = append([]float64(nil), s.Centroid...)
		s.Spread = append([]float64(nil), s.Spread...)
		ss[i] = s
	}
	return ss
}

func copyPoints(pp [][]float64) [][]float64 {
	cp := make([][]float64, len(pp))
	for i, p := range pp {
		cp[i] = append([]float64(nil), p...)
	}
	return cp
}
