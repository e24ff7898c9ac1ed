// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cluster

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/paper-clusters/pkg/types"
)

// Label prefixes, one per strategy.
const (
	prefixCluster = "Cluster"
	prefixGroup   = "Group"
	prefixTopic   = "Topic"
)

const (
	// descriptorTerms is the number of terms kept per descriptor.
	descriptorTerms = 10
	// labelTerms is the number of leading terms shown in a name.
	labelTerms = 3
)

// Label builds the display name of the cluster at index i, e.g.
// "Cluster 1: search, ranking, query".
func Label(prefix string, i int, terms []string) string {
	n := min(labelTerms, len(terms))
	return fmt.Sprintf("%s %d: %s", prefix, i+1, strings.Join(terms[:n], ", "))
}

// topTerms returns up to n vocabulary terms ordered by weight descending.
// Equal weights keep the lower vocabulary index first. When positiveOnly
// is set, terms with weight <= 0 are skipped.
func topTerms(weights []float64, vocab []string, n int, positiveOnly bool) []string {
	idx := make([]int, len(weights))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return weights[idx[a]] > weights[idx[b]]
	})

	terms := make([]string, 0, n)
	for _, i := range idx {
		if len(terms) == n {
			break
		}
		if positiveOnly && weights[i] <= 0 {
			break
		}
		terms = append(terms, vocab[i])
	}
	return terms
}

// assign copies papers and writes each copy's cluster id and the matching
// catalog name. labels[i] is the cluster index of papers[i].
func assign(papers []types.Paper, labels []int, catalog []types.Cluster) []types.Paper {
	out := types.ClonePapers(papers)
	for i := range out {
		c := catalog[labels[i]]
		out[i].SetCluster(c.ID, c.Name)
	}
	return out
}
