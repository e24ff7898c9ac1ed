// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-clusters/internal/catalog"
	"github.com/pdiddy/paper-clusters/internal/cluster"
	"github.com/pdiddy/paper-clusters/pkg/types"
)

func ids(papers []types.Paper) []string {
	out := make([]string, len(papers))
	for i, p := range papers {
		out[i] = p.ID
	}
	return out
}

func corpus() []types.Paper {
	papers := []types.Paper{
		{ID: "p1", Title: "Neural Ranking Models", Abstract: "We study ranking.", Keywords: []string{"ranking", "neural"}, Year: 2020, Venue: "SIGIR", Citations: 10},
		{ID: "p2", Title: "Image Segmentation", Abstract: "A ranking of segmenters.", Keywords: []string{"vision"}, Year: 2021, Venue: "CVPR", Citations: 30},
		{ID: "p3", Title: "Topic Models", Abstract: "Latent topics.", Keywords: []string{"Learning to Rank"}, Year: 2020, Venue: "SIGIR", Citations: 0},
		{ID: "p4", Title: "Graph Mining", Abstract: "Graphs.", Keywords: []string{"graphs"}, Year: 2019, Venue: "KDD", Citations: 500},
	}
	papers[0].SetCluster(0, "Cluster 1: ranking")
	papers[1].SetCluster(1, "Cluster 2: vision")
	papers[2].SetCluster(0, "Cluster 1: ranking")
	papers[3].SetCluster(1, "Cluster 2: vision")
	return papers
}

func TestFilterPapers(t *testing.T) {
	zero, one := 0, 1
	y2020 := 2020

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter", Filter{}, []string{"p1", "p2", "p3", "p4"}},
		{"cluster", Filter{ClusterID: &one}, []string{"p2", "p4"}},
		{"year", Filter{Year: &y2020}, []string{"p1", "p3"}},
		{"cluster and year", Filter{ClusterID: &zero, Year: &y2020}, []string{"p1", "p3"}},
		{"search title", Filter{Search: "GRAPH"}, []string{"p4"}},
		{"search abstract and keyword", Filter{Search: "rank"}, []string{"p1", "p2", "p3"}},
		{"no match", Filter{Search: "quantum"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterPapers(corpus(), tt.filter)))
		})
	}
}

func TestFilterPapers_UnassignedNeverMatchesCluster(t *testing.T) {
	papers := corpus()
	papers[0].ClearCluster()
	zero := 0
	assert.Equal(t, []string{"p3"}, ids(FilterPapers(papers, Filter{ClusterID: &zero})))
}

func TestScore(t *testing.T) {
	p := types.Paper{Title: "Ranking", Abstract: "ranking", Keywords: []string{"ranking", "re-ranking", "other"}}
	assert.Equal(t, 10+5+5+2, Score(p, "ranking"))
	assert.Equal(t, 0, Score(p, "vision"))
}

func TestSearch_Ordering(t *testing.T) {
	out := Search(corpus(), "Ranking", 50)

	assert.Equal(t, "Ranking", out.Query)
	// "Learning to Rank" does not contain "ranking", so p3 is excluded.
	assert.Equal(t, 2, out.Total)
	assert.Equal(t, []string{"p1", "p2"}, ids(out.Results))

	out = Search(corpus(), "ranking", 1)
	assert.Equal(t, 2, out.Total)
	assert.Equal(t, []string{"p1"}, ids(out.Results))
}

func TestSearch_TitleBeatsAbstract(t *testing.T) {
	papers := []types.Paper{
		{ID: "abstract", Title: "Other", Abstract: "about clustering"},
		{ID: "title", Title: "Clustering Papers", Abstract: "other"},
		{ID: "none", Title: "Nothing", Abstract: "nothing"},
	}
	out := Search(papers, "clustering", 10)
	assert.Equal(t, []string{"title", "abstract"}, ids(out.Results))
	assert.Equal(t, 2, out.Total)
}

func TestSearch_TiesKeepCorpusOrder(t *testing.T) {
	var papers []types.Paper
	for i := 0; i < 5; i++ {
		papers = append(papers, types.Paper{ID: fmt.Sprintf("p%d", i), Abstract: "shared term"})
	}
	papers = append(papers, types.Paper{ID: "top", Title: "shared"})

	out := Search(papers, "shared", 3)
	assert.Equal(t, []string{"top", "p0", "p1"}, ids(out.Results))
	assert.Equal(t, 6, out.Total)
}

func TestSearch_NoMatches(t *testing.T) {
	out := Search(corpus(), "quantum", 10)
	assert.Equal(t, 0, out.Total)
	assert.NotNil(t, out.Results)
	assert.Empty(t, out.Results)
}

func TestComputeStats(t *testing.T) {
	snap := &catalog.Snapshot{
		Papers:   corpus(),
		Clusters: []types.Cluster{{ID: 0}, {ID: 1}},
		Method:   cluster.MethodKMeans,
	}
	stats, err := ComputeStats(snap)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalPapers)
	assert.Equal(t, 2, stats.TotalClusters)
	assert.Equal(t, "kmeans", stats.CurrentMethod)
	assert.Equal(t, types.YearRange{Min: 2019, Max: 2021}, stats.YearRange)
	assert.Equal(t, 540, stats.Citations.Total)
	assert.InDelta(t, 135.0, stats.Citations.Average, 1e-9)
	assert.Equal(t, 500, stats.Citations.Max)
	assert.Equal(t, 3, stats.Venues)
}

func TestComputeStats_Empty(t *testing.T) {
	_, err := ComputeStats(&catalog.Snapshot{})
	assert.ErrorIs(t, err, ErrNoPapers)
}
