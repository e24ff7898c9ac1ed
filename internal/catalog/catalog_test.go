// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-clusters/internal/cluster"
	"github.com/pdiddy/paper-clusters/internal/project"
	"github.com/pdiddy/paper-clusters/pkg/types"
)

// fakeStrategy assigns papers round-robin, or fails with err.
type fakeStrategy struct {
	method cluster.Method
	err    error
	calls  int
}

func (f *fakeStrategy) Method() cluster.Method { return f.method }
func (f *fakeStrategy) Name() string           { return f.method.DisplayName() }

func (f *fakeStrategy) Cluster(_ context.Context, papers []types.Paper, k int) (cluster.Result, error) {
	f.calls++
	if f.err != nil {
		return cluster.Result{}, f.err
	}
	catalog := make([]types.Cluster, k)
	for i := range catalog {
		catalog[i] = types.Cluster{ID: i, Name: fmt.Sprintf("Fake %d", i+1), TopWords: []string{"fake"}}
	}
	out := types.ClonePapers(papers)
	for i := range out {
		out[i].SetCluster(i%k, catalog[i%k].Name)
	}
	return cluster.Result{Papers: out, Clusters: catalog}, nil
}

func fakeFactory(f *fakeStrategy) StrategyFactory {
	return func(m cluster.Method) (cluster.Strategy, error) {
		f.method = m
		return f, nil
	}
}

type recorderFunc func(ctx context.Context, snap *Snapshot) error

func (r recorderFunc) Record(ctx context.Context, snap *Snapshot) error { return r(ctx, snap) }

func samplePapers(n int) []types.Paper {
	papers := make([]types.Paper, n)
	for i := range papers {
		papers[i] = types.Paper{ID: fmt.Sprintf("paper_%04d", i+1), Title: fmt.Sprintf("Paper %d", i+1)}
	}
	return papers
}

func TestNew_InitialSnapshot(t *testing.T) {
	papers := samplePapers(3)
	papers[0].SetCluster(4, "stale")

	c := New(papers, fakeFactory(&fakeStrategy{}))
	snap := c.Current()

	require.Len(t, snap.Papers, 3)
	for _, p := range snap.Papers {
		assert.False(t, p.Assigned())
	}
	assert.Empty(t, snap.Clusters)
	assert.Equal(t, "", snap.MethodName())
	assert.True(t, papers[0].Assigned(), "input must not be modified")
}

func TestRecluster_Publishes(t *testing.T) {
	f := &fakeStrategy{}
	var log bytes.Buffer
	c := New(samplePapers(6), fakeFactory(f), WithLog(&log))

	snap, err := c.Recluster(context.Background(), "hierarchical", 3)
	require.NoError(t, err)

	assert.Same(t, snap, c.Current())
	assert.Equal(t, cluster.MethodHierarchical, snap.Method)
	assert.Equal(t, "Hierarchical (Agglomerative)", snap.MethodName())
	assert.Equal(t, 3, snap.K)
	assert.Len(t, snap.Clusters, 3)
	assert.Contains(t, log.String(), "published 3 clusters")

	cl, ok := snap.Cluster(2)
	require.True(t, ok)
	assert.Equal(t, "Fake 3", cl.Name)
	_, ok = snap.Cluster(3)
	assert.False(t, ok)
}

func TestRecluster_InvalidArgumentsSkipComputation(t *testing.T) {
	f := &fakeStrategy{}
	c := New(samplePapers(6), fakeFactory(f))
	before := c.Current()

	tests := []struct {
		method string
		k      int
	}{
		{"kmeans", 1},
		{"kmeans", 21},
		{"spectral", 5},
		{"", 5},
	}
	for _, tt := range tests {
		_, err := c.Recluster(context.Background(), tt.method, tt.k)
		assert.ErrorIs(t, err, cluster.ErrInvalidArgument, "%s/%d", tt.method, tt.k)
	}

	assert.Equal(t, 0, f.calls)
	assert.Same(t, before, c.Current())
}

func TestRecluster_FailureKeepsPreviousSnapshot(t *testing.T) {
	f := &fakeStrategy{}
	c := New(samplePapers(6), fakeFactory(f))

	good, err := c.Recluster(context.Background(), "kmeans", 2)
	require.NoError(t, err)

	boom := errors.New("boom")
	f.err = boom
	_, err = c.Recluster(context.Background(), "lda", 3)
	require.ErrorIs(t, err, boom)

	assert.Same(t, good, c.Current())
	assert.Equal(t, cluster.MethodKMeans, c.Current().Method)
	assert.Len(t, c.Current().Clusters, 2)
}

func TestRecluster_RecorderFailureIsLogged(t *testing.T) {
	var log bytes.Buffer
	var recorded []*Snapshot
	rec := recorderFunc(func(_ context.Context, snap *Snapshot) error {
		recorded = append(recorded, snap)
		return errors.New("disk full")
	})
	c := New(samplePapers(4), fakeFactory(&fakeStrategy{}), WithRecorder(rec), WithLog(&log))

	snap, err := c.Recluster(context.Background(), "kmeans", 2)
	require.NoError(t, err)

	require.Len(t, recorded, 1)
	assert.Same(t, snap, recorded[0])
	assert.Same(t, snap, c.Current())
	assert.Contains(t, log.String(), "warning: recording run: disk full")
}

func TestRecluster_ConcurrentReaders(t *testing.T) {
	c := New(samplePapers(20), fakeFactory(&fakeStrategy{}))

	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				snap := c.Current()
				for _, p := range snap.Papers {
					if p.Assigned() {
						if _, ok := snap.Cluster(*p.ClusterID); !ok {
							t.Errorf("paper %s points outside its snapshot catalog", p.ID)
							return
						}
					}
				}
			}
		}()
	}

	for k := 2; k <= 10; k++ {
		_, err := c.Recluster(context.Background(), "kmeans", k)
		require.NoError(t, err)
	}
	wg.Wait()
}

// twelvePapers has two disjoint topics, six papers each.
func twelvePapers() []types.Paper {
	retrieval := []string{"search", "ranking", "query", "relevance", "index", "retrieval", "engine", "documents"}
	vision := []string{"image", "pixel", "convolution", "segmentation", "camera", "object", "detection", "scene"}
	var papers []types.Paper
	for t, words := range [][]string{retrieval, vision} {
		for i := 0; i < 6; i++ {
			w := func(j int) string { return words[(i+j)%len(words)] }
			papers = append(papers, types.Paper{
				ID:       fmt.Sprintf("paper_%04d", t*6+i+1),
				Title:    w(0) + " " + w(1),
				Keywords: []string{w(2), w(3)},
				Abstract: w(4) + " " + w(5) + " " + w(0) + " " + w(1),
			})
		}
	}
	return papers
}

func TestRecluster_EndToEndTwoTopics(t *testing.T) {
	c := New(twelvePapers(), cluster.Factory(types.DefaultClusteringConfig()))

	snap, err := c.Recluster(context.Background(), "kmeans", 2)
	require.NoError(t, err)

	first, second := *snap.Papers[0].ClusterID, *snap.Papers[6].ClusterID
	assert.NotEqual(t, first, second)
	for i := 0; i < 6; i++ {
		assert.Equal(t, first, *snap.Papers[i].ClusterID)
		assert.Equal(t, second, *snap.Papers[i+6].ClusterID)
	}
}

func TestRecluster_EmptyVocabularyKeepsSnapshot(t *testing.T) {
	p := types.Paper{Title: "Graph Mining", Abstract: "graph mining social networks"}
	c := New([]types.Paper{p, p, p}, cluster.Factory(types.DefaultClusteringConfig()))
	before := c.Current()

	_, err := c.Recluster(context.Background(), "kmeans", 2)
	require.ErrorIs(t, err, project.ErrEmptyVocabulary)
	assert.Same(t, before, c.Current())
}
