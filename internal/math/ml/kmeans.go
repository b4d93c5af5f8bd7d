package ml

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	kmath "github.com/drakos74/kmeanspro/internal/math"
)

const (
	// DefaultRepeats is the number of restarts per candidate cluster count.
	DefaultRepeats = 20
	// DefaultMinK is the smallest candidate cluster count.
	DefaultMinK = 2
	// DefaultMaxK is the largest candidate cluster count, further bounded by the number of samples.
	DefaultMaxK = 10
	// DefaultMaxIterations bounds the lloyd iterations of a single run.
	DefaultMaxIterations = 300
)

// Options configure the cluster count search.
type Options struct {
	Repeats       int
	MinK          int
	MaxK          int
	MaxIterations int
	// Workers bounds the restarts running in parallel, 0 means no bound.
	Workers int
	// Seed feeds the source all restart seeds are drawn from.
	Seed uint64
}

// DefaultOptions returns the default search options.
func DefaultOptions() Options {
	return Options{
		Repeats:       DefaultRepeats,
		MinK:          DefaultMinK,
		MaxK:          DefaultMaxK,
		MaxIterations: DefaultMaxIterations,
	}
}

// Run is the outcome of a single k-means run for a fixed k.
type Run struct {
	K          int
	Centroids  [][]float64
	Labels     []int
	Iterations int
	Goodness   float64
	Restart    int
	Seed       uint64
}

// RunKMeans runs lloyd's algorithm for k clusters on the given data.
// Initial centroids are k distinct points picked at random with rng.
// It stops as soon as no point changes cluster, or after maxIter iterations.
func RunKMeans(data Dataset, k int, rng *rand.Rand, maxIter int) (Run, error) {
	n := data.Len()
	if k <= 0 || k > n {
		return Run{}, fmt.Errorf("%w: k=%d for %d samples", ErrInvalidClusterCount, k, n)
	}
	distinct := data.Distinct()
	if len(distinct) < k {
		return Run{}, fmt.Errorf("%w: cannot initialise k=%d from %d distinct points", ErrInvalidClusterCount, k, len(distinct))
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	points := data.points
	perm := rng.Perm(len(distinct))
	centroids := make([][]float64, k)
	for j := 0; j < k; j++ {
		centroids[j] = data.Point(distinct[perm[j]])
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	var iterations int
	for iterations < maxIter {
		iterations++
		if !assign(points, centroids, labels) {
			break
		}
		centroids = update(points, labels, k)
	}

	return Run{
		K:          k,
		Centroids:  centroids,
		Labels:     labels,
		Iterations: iterations,
		Goodness:   kmath.Goodness(points, labels, k),
	}, nil
}

// assign moves every point to its nearest centroid, ties going to the lowest cluster id.
// It reports whether any point changed cluster.
func assign(points, centroids [][]float64, labels []int) bool {
	changed := false
	for i, p := range points {
		best := 0
		minDist := kmath.SquaredDistance(p, centroids[0])
		for c := 1; c < len(centroids); c++ {
			if d := kmath.SquaredDistance(p, centroids[c]); d < minDist {
				minDist = d
				best = c
			}
		}
		if labels[i] != best {
			labels[i] = best
			changed = true
		}
	}
	return changed
}

// update recomputes the centroids from the current labels.
// Empty clusters are reseeded with the member of the largest cluster farthest from its centroid,
// until no cluster is empty.
func update(points [][]float64, labels []int, k int) [][]float64 {
	counts := kmath.Counts(labels, k)
	for {
		empty := -1
		for c, size := range counts {
			if size == 0 {
				empty = c
				break
			}
		}
		if empty < 0 {
			break
		}

		largest := 0
		for c := range counts {
			if counts[c] > counts[largest] {
				largest = c
			}
		}

		centroid := kmath.Centroids(points, labels, k)[largest]
		far, farDist := -1, -1.0
		for i, p := range points {
			if labels[i] != largest {
				continue
			}
			if d := kmath.SquaredDistance(p, centroid); d > farDist {
				far, farDist = i, d
			}
		}

		labels[far] = empty
		counts[largest]--
		counts[empty]++
		log.Debug().
			Int("cluster", empty).
			Int("from", largest).
			Int("sample", far).
			Msg("reseeded empty cluster")
	}
	return kmath.Centroids(points, labels, k)
}

// Selection is the best of a set of restarts for a fixed k.
type Selection struct {
	Best Run
	// Goodness holds the score of every restart, by restart index.
	Goodness []float64
}

// Restarts runs repeats independent k-means runs for k and keeps the one with the highest goodness.
// Ties go to the run with fewer iterations, then to the earlier restart.
// Every restart gets its own random source, seeded from src before any run starts,
// so the outcome only depends on the state of src.
func Restarts(ctx context.Context, data Dataset, k, repeats int, src *rand.Rand, opts Options) (Selection, error) {
	if repeats <= 0 {
		repeats = DefaultRepeats
	}
	seeds := make([]uint64, repeats)
	for r := range seeds {
		seeds[r] = src.Uint64()
	}

	runs := make([]Run, repeats)
	g, ctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	for r := 0; r < repeats; r++ {
		r := r
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			run, err := RunKMeans(data, k, rand.New(rand.NewSource(seeds[r])), opts.MaxIterations)
			if err != nil {
				return err
			}
			run.Restart = r
			run.Seed = seeds[r]
			runs[r] = run
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Selection{}, err
	}

	selection := Selection{
		Best:     runs[0],
		Goodness: make([]float64, repeats),
	}
	for r, run := range runs {
		selection.Goodness[r] = run.Goodness
		if better(run, selection.Best) {
			selection.Best = run
		}
	}
	return selection, nil
}

func better(run, best Run) bool {
	if run.Goodness != best.Goodness {
		return run.Goodness > best.Goodness
	}
	return run.Iterations < best.Iterations
}

// Score is the search outcome for one candidate cluster count.
type Score struct {
	K        int
	Feasible bool
	Goodness float64
	// Restarts holds the goodness of every restart for this k.
	Restarts   []float64
	Iterations int
}

// Range returns the candidate cluster counts for n samples.
// MaxK is bounded by n-1 so that no candidate puts every sample in its own cluster.
func (o Options) Range(n int) (int, int, error) {
	minK := o.MinK
	if minK == 0 {
		minK = DefaultMinK
	}
	maxK := o.MaxK
	if maxK == 0 {
		maxK = DefaultMaxK
	}
	if maxK > n-1 {
		maxK = n - 1
	}
	if n < 2 || minK < 1 || minK > maxK {
		return 0, 0, fmt.Errorf("%w: empty candidate range [%d,%d] for %d samples", ErrInvalidClusterCount, minK, maxK, n)
	}
	return minK, maxK, nil
}

// Search tries every candidate cluster count and builds a model from the best one.
// The best k has the highest goodness, ties going to the smaller k.
// k=1 is only chosen if no larger candidate is feasible.
func Search(ctx context.Context, data Dataset, opts Options) (*Model, error) {
	minK, maxK, err := opts.Range(data.Len())
	if err != nil {
		return nil, err
	}
	distinct := len(data.Distinct())
	src := rand.New(rand.NewSource(opts.Seed))

	scores := make([]Score, 0, maxK-minK+1)
	var best *Run
	var baseline *Run
	for k := minK; k <= maxK; k++ {
		if k > distinct {
			log.Warn().
				Int("k", k).
				Int("distinct", distinct).
				Msg("skipping cluster count, not enough distinct points")
			scores = append(scores, Score{K: k, Goodness: kmath.WorstGoodness})
			continue
		}
		selection, err := Restarts(ctx, data, k, opts.Repeats, src, opts)
		if err != nil {
			return nil, fmt.Errorf("could not cluster for k=%d: %w", k, err)
		}
		run := selection.Best
		scores = append(scores, Score{
			K:          k,
			Feasible:   true,
			Goodness:   run.Goodness,
			Restarts:   selection.Goodness,
			Iterations: run.Iterations,
		})
		log.Debug().
			Int("k", k).
			Float64("goodness", run.Goodness).
			Int("iterations", run.Iterations).
			Int("restart", run.Restart).
			Msg("cluster count evaluated")

		if k == 1 {
			baseline = &run
			continue
		}
		if best == nil || run.Goodness > best.Goodness {
			best = &run
		}
	}

	if best == nil {
		best = baseline
	}
	if best == nil {
		return nil, fmt.Errorf("%w: no feasible cluster count in [%d,%d] for %d distinct points", ErrInvalidClusterCount, minK, maxK, distinct)
	}
	return newModel(data, *best, scores, opts.Seed), nil
}
