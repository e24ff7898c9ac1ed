// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cluster

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/pdiddy/paper-clusters/internal/project"
	"github.com/pdiddy/paper-clusters/pkg/types"
)

const (
	minRestarts      = 10
	defaultMaxIter   = 300
	centroidShiftTol = 1e-4
)

// Partition clusters papers with k-means over their TF-IDF vectors.
// Centroids are seeded with k-means++ from a PRNG seeded by the configured
// seed, so identical corpus, k, and seed always yield identical results.
type Partition struct {
	cfg types.ClusteringConfig
}

// NewPartition returns a partition strategy. Restarts below 10 are raised
// to 10.
func NewPartition(cfg types.ClusteringConfig) *Partition {
	if cfg.Restarts < minRestarts {
		cfg.Restarts = minRestarts
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = defaultMaxIter
	}
	return &Partition{cfg: cfg}
}

// Method returns MethodKMeans.
func (p *Partition) Method() Method { return MethodKMeans }

// Name returns the display name.
func (p *Partition) Name() string { return MethodKMeans.DisplayName() }

// Cluster runs k-means with Restarts k-means++ initializations and keeps
// the one with the lowest within-cluster sum of squares. Each descriptor
// lists the ten vocabulary terms with the highest centroid weight.
func (p *Partition) Cluster(ctx context.Context, papers []types.Paper, k int) (Result, error) {
	if err := checkInput(papers, k); err != nil {
		return Result{}, fmt.Errorf("partition clustering: %w", err)
	}

	tm, err := project.BuildTermMatrix(project.TextBlobs(papers), p.cfg.Vector)
	if err != nil {
		return Result{}, fmt.Errorf("partition clustering: %w", err)
	}

	fit, err := fitKMeans(ctx, tm.Weights(), k, p.cfg.Seed, p.cfg.Restarts, p.cfg.MaxIterations)
	if err != nil {
		return Result{}, fmt.Errorf("partition clustering: %w", err)
	}

	vocab := tm.Vocabulary()
	catalog := make([]types.Cluster, k)
	for j := range catalog {
		terms := topTerms(fit.centroids.RawRowView(j), vocab, descriptorTerms, false)
		catalog[j] = types.Cluster{
			ID:       j,
			Name:     Label(prefixCluster, j, terms),
			TopWords: terms,
		}
	}

	return Result{
		Papers:   assign(papers, fit.labels, catalog),
		Clusters: catalog,
	}, nil
}

type kmeansFit struct {
	labels    []int
	centroids *mat.Dense
	inertia   float64
}

// fitKMeans runs restarts independent k-means fits over the rows of x
// and returns the best. The PRNG is created here so every call with the
// same seed draws the same sequence.
func fitKMeans(ctx context.Context, x *mat.Dense, k int, seed uint64, restarts, maxIter int) (kmeansFit, error) {
	rng := rand.New(rand.NewSource(seed))
	best := kmeansFit{inertia: math.Inf(1)}
	for r := 0; r < restarts; r++ {
		if err := ctx.Err(); err != nil {
			return kmeansFit{}, err
		}
		fit := lloyd(x, seedPlusPlus(x, k, rng), maxIter)
		if fit.inertia < best.inertia {
			best = fit
		}
	}
	return best, nil
}

// seedPlusPlus picks k initial centroids: the first uniformly, each
// subsequent one with probability proportional to its squared distance
// from the nearest centroid chosen so far.
func seedPlusPlus(x *mat.Dense, k int, rng *rand.Rand) *mat.Dense {
	n, d := x.Dims()
	centroids := mat.NewDense(k, d, nil)
	centroids.SetRow(0, x.RawRowView(rng.Intn(n)))

	closest := make([]float64, n)
	for i := range closest {
		closest[i] = sqDist(x.RawRowView(i), centroids.RawRowView(0))
	}

	for j := 1; j < k; j++ {
		next := n - 1
		total := floats.Sum(closest)
		if total == 0 {
			next = rng.Intn(n)
		} else {
			target := rng.Float64() * total
			var acc float64
			for i, dist := range closest {
				acc += dist
				if dist > 0 && acc >= target {
					next = i
					break
				}
			}
		}
		centroids.SetRow(j, x.RawRowView(next))
		for i := range closest {
			if dist := sqDist(x.RawRowView(i), centroids.RawRowView(j)); dist < closest[i] {
				closest[i] = dist
			}
		}
	}
	return centroids
}

// lloyd alternates assignment and centroid update until assignments stop
// changing, the total centroid shift drops below tolerance, or maxIter
// iterations have run. A centroid left without members is moved onto the
// point farthest from its own centroid.
func lloyd(x, centroids *mat.Dense, maxIter int) kmeansFit {
	n, d := x.Dims()
	k, _ := centroids.Dims()
	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i := 0; i < n; i++ {
			if c, _ := nearest(x.RawRowView(i), centroids); c != labels[i] {
				labels[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}

		next := mat.NewDense(k, d, nil)
		counts := make([]int, k)
		for i, c := range labels {
			floats.Add(next.RawRowView(c), x.RawRowView(i))
			counts[c]++
		}

		taken := make(map[int]bool)
		for j := 0; j < k; j++ {
			if counts[j] > 0 {
				floats.Scale(1/float64(counts[j]), next.RawRowView(j))
				continue
			}
			far := farthest(x, centroids, labels, taken)
			taken[far] = true
			next.SetRow(j, x.RawRowView(far))
		}

		var shift float64
		for j := 0; j < k; j++ {
			shift += sqDist(centroids.RawRowView(j), next.RawRowView(j))
		}
		centroids = next
		if shift <= centroidShiftTol {
			break
		}
	}

	var inertia float64
	for i := 0; i < n; i++ {
		c, dist := nearest(x.RawRowView(i), centroids)
		labels[i] = c
		inertia += dist
	}
	return kmeansFit{labels: labels, centroids: centroids, inertia: inertia}
}

// nearest returns the index of the closest centroid and the squared
// distance to it. Ties go to the lower index.
func nearest(v []float64, centroids *mat.Dense) (int, float64) {
	k, _ := centroids.Dims()
	best, bestDist := 0, math.Inf(1)
	for j := 0; j < k; j++ {
		if dist := sqDist(v, centroids.RawRowView(j)); dist < bestDist {
			best, bestDist = j, dist
		}
	}
	return best, bestDist
}

func farthest(x, centroids *mat.Dense, labels []int, taken map[int]bool) int {
	far, farDist := 0, -1.0
	for i, c := range labels {
		if taken[i] {
			continue
		}
		if dist := sqDist(x.RawRowView(i), centroids.RawRowView(c)); dist > farDist {
			far, farDist = i, dist
		}
	}
	return far
}

func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}
