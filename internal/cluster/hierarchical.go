// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cluster

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/pdiddy/paper-clusters/internal/project"
	"github.com/pdiddy/paper-clusters/pkg/types"
)

// fallbackTerms describes a group whose text yields no weighted terms.
var fallbackTerms = []string{"term_0", "term_1", "term_2"}

// Hierarchical clusters papers by agglomerative merging with Ward linkage
// over the Euclidean distance between TF-IDF vectors.
type Hierarchical struct {
	cfg types.ClusteringConfig
}

// NewHierarchical returns a hierarchical strategy.
func NewHierarchical(cfg types.ClusteringConfig) *Hierarchical {
	return &Hierarchical{cfg: cfg}
}

// Method returns MethodHierarchical.
func (h *Hierarchical) Method() Method { return MethodHierarchical }

// Name returns the display name.
func (h *Hierarchical) Name() string { return MethodHierarchical.DisplayName() }

// Cluster merges papers bottom-up until k groups remain. Groups are
// numbered in order of their first member in corpus order. Each group's
// descriptor is built by concatenating the members' text, re-vectorizing
// it under the fitted vocabulary, and keeping the ten highest positive
// weights.
func (h *Hierarchical) Cluster(ctx context.Context, papers []types.Paper, k int) (Result, error) {
	if err := checkInput(papers, k); err != nil {
		return Result{}, fmt.Errorf("hierarchical clustering: %w", err)
	}

	docs := project.TextBlobs(papers)
	tm, err := project.BuildTermMatrix(docs, h.cfg.Vector)
	if err != nil {
		return Result{}, fmt.Errorf("hierarchical clustering: %w", err)
	}

	groups, err := wardMerge(ctx, tm.Weights(), k)
	if err != nil {
		return Result{}, fmt.Errorf("hierarchical clustering: %w", err)
	}

	vocab := tm.Vocabulary()
	labels := make([]int, len(papers))
	catalog := make([]types.Cluster, k)
	for j, members := range groups {
		text := make([]string, len(members))
		for m, i := range members {
			labels[i] = j
			text[m] = docs[i]
		}

		var terms []string
		if len(members) > 0 {
			vec, err := tm.Transform(strings.Join(text, " "))
			if err != nil {
				return Result{}, fmt.Errorf("hierarchical clustering: describing group %d: %w", j, err)
			}
			terms = topTerms(vec, vocab, descriptorTerms, true)
		}
		if len(terms) == 0 {
			terms = append([]string(nil), fallbackTerms...)
		}

		size := len(members)
		catalog[j] = types.Cluster{
			ID:       j,
			Name:     Label(prefixGroup, j, terms),
			TopWords: terms,
			Size:     &size,
		}
	}

	return Result{
		Papers:   assign(papers, labels, catalog),
		Clusters: catalog,
	}, nil
}

// wardMerge agglomerates the rows of x until k groups remain and returns
// each group's member indices in ascending order, the groups ordered by
// their lowest member. Distances are squared Euclidean and are updated
// with the Lance-Williams recurrence for Ward linkage. Ties merge the
// lowest-indexed pair.
func wardMerge(ctx context.Context, x *mat.Dense, k int) ([][]int, error) {
	n, _ := x.Dims()
	dist := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dist.SetSym(i, j, sqDist(x.RawRowView(i), x.RawRowView(j)))
		}
	}

	members := make([][]int, n)
	active := make([]bool, n)
	for i := range members {
		members[i] = []int{i}
		active[i] = true
	}

	for remaining := n; remaining > k; remaining-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		a, b, best := -1, -1, math.Inf(1)
		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if active[j] && dist.At(i, j) < best {
					a, b, best = i, j, dist.At(i, j)
				}
			}
		}

		na, nb := float64(len(members[a])), float64(len(members[b]))
		for c := 0; c < n; c++ {
			if !active[c] || c == a || c == b {
				continue
			}
			nc := float64(len(members[c]))
			d := ((na+nc)*dist.At(a, c) + (nb+nc)*dist.At(b, c) - nc*best) / (na + nb + nc)
			dist.SetSym(a, c, d)
		}

		members[a] = append(members[a], members[b]...)
		members[b] = nil
		active[b] = false
	}

	var groups [][]int
	for i := 0; i < n; i++ {
		if active[i] {
			sort.Ints(members[i])
			groups = append(groups, members[i])
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })
	return groups, nil
}
