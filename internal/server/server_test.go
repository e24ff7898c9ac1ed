// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-clusters/internal/catalog"
	"github.com/pdiddy/paper-clusters/internal/cluster"
	"github.com/pdiddy/paper-clusters/internal/corpus"
	"github.com/pdiddy/paper-clusters/pkg/types"
)

// brokenStrategy always fails.
type brokenStrategy struct{ method cluster.Method }

func (b brokenStrategy) Method() cluster.Method { return b.method }
func (b brokenStrategy) Name() string           { return b.method.DisplayName() }

func (b brokenStrategy) Cluster(context.Context, []types.Paper, int) (cluster.Result, error) {
	return cluster.Result{}, errors.New("solver diverged")
}

func testConfig() types.ServerConfig {
	cfg := types.DefaultConfig().Server
	cfg.ReclusterRate = 0
	return cfg
}

func testServer(t *testing.T, papers []types.Paper) (*Server, *catalog.Catalog) {
	t.Helper()
	cat := catalog.New(papers, cluster.Factory(types.DefaultClusteringConfig()))
	return New(testConfig(), cat, nil), cat
}

func do(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestIndex(t *testing.T) {
	s, _ := testServer(t, corpus.Generate(10, 1))
	rec := do(t, s, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]any](t, rec)
	assert.Equal(t, APIVersion, body["version"])
	assert.Contains(t, body["endpoints"], "/api/search")
}

func TestRecluster_ThenRead(t *testing.T) {
	s, cat := testServer(t, corpus.Generate(40, 3))

	rec := do(t, s, http.MethodPost, "/api/cluster/kmeans?n_clusters=4")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "kmeans", body["method"])
	assert.Equal(t, float64(4), body["n_clusters"])
	assert.Equal(t, float64(4), body["clusters"])
	assert.Equal(t, "Papers clustered using kmeans", body["message"])

	rec = do(t, s, http.MethodGet, "/api/clusters")
	require.Equal(t, http.StatusOK, rec.Code)
	clusters := decode[[]types.Cluster](t, rec)
	require.Len(t, clusters, 4)
	for i, c := range clusters {
		assert.Equal(t, i, c.ID)
		assert.Regexp(t, `^Cluster \d+: `, c.Name)
	}

	rec = do(t, s, http.MethodGet, "/api/papers?cluster_id=0")
	require.Equal(t, http.StatusOK, rec.Code)
	members := decode[[]types.Paper](t, rec)
	for _, p := range members {
		require.NotNil(t, p.ClusterID)
		assert.Equal(t, 0, *p.ClusterID)
		assert.Equal(t, clusters[0].Name, *p.ClusterName)
	}
	assert.Len(t, members, countInCluster(cat.Current().Papers, 0))
}

func countInCluster(papers []types.Paper, id int) int {
	n := 0
	for _, p := range papers {
		if p.InCluster(id) {
			n++
		}
	}
	return n
}

func TestRecluster_DefaultCount(t *testing.T) {
	s, _ := testServer(t, corpus.Generate(40, 3))
	rec := do(t, s, http.MethodPost, "/api/cluster/hierarchical")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(defaultClusters), decode[map[string]any](t, rec)["clusters"])
}

func TestRecluster_BadRequests(t *testing.T) {
	s, cat := testServer(t, corpus.Generate(10, 1))
	before := cat.Current()

	tests := []struct {
		name, target string
	}{
		{"unknown method", "/api/cluster/dbscan"},
		{"too few clusters", "/api/cluster/kmeans?n_clusters=1"},
		{"too many clusters", "/api/cluster/kmeans?n_clusters=21"},
		{"non-numeric count", "/api/cluster/kmeans?n_clusters=five"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tc.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode[map[string]string](t, rec)["detail"])
		})
	}
	assert.Same(t, before, cat.Current())
}

func TestRecluster_FailureKeepsSnapshot(t *testing.T) {
	cat := catalog.New(corpus.Generate(10, 1), func(m cluster.Method) (cluster.Strategy, error) {
		return brokenStrategy{method: m}, nil
	})
	s := New(testConfig(), cat, nil)
	before := cat.Current()

	rec := do(t, s, http.MethodPost, "/api/cluster/lda?n_clusters=3")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["detail"], "solver diverged")
	assert.Same(t, before, cat.Current())
}

func TestRecluster_RateLimited(t *testing.T) {
	cat := catalog.New(corpus.Generate(40, 3), cluster.Factory(types.DefaultClusteringConfig()))
	cfg := testConfig()
	cfg.ReclusterRate = 0.001
	s := New(cfg, cat, nil)

	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/api/cluster/kmeans?n_clusters=2").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, s, http.MethodPost, "/api/cluster/kmeans?n_clusters=2").Code)
}

func TestPapers_Filters(t *testing.T) {
	papers := []types.Paper{
		{ID: "a", Title: "Search ranking", Year: 2020, Keywords: []string{}},
		{ID: "b", Title: "Vision", Year: 2021, Keywords: []string{"search"}},
		{ID: "c", Title: "Robots", Year: 2020, Keywords: []string{}},
	}
	s, _ := testServer(t, papers)

	got := decode[[]types.Paper](t, do(t, s, http.MethodGet, "/api/papers?year=2020"))
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)

	got = decode[[]types.Paper](t, do(t, s, http.MethodGet, "/api/papers?search=SEARCH"))
	require.Len(t, got, 2)

	got = decode[[]types.Paper](t, do(t, s, http.MethodGet, "/api/papers?cluster_id=0"))
	assert.Empty(t, got)

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/papers?year=soon").Code)
}

func TestSearch(t *testing.T) {
	papers := []types.Paper{
		{ID: "a", Title: "Deep ranking", Abstract: "x", Keywords: []string{}},
		{ID: "b", Title: "Other", Abstract: "ranking in abstract", Keywords: []string{"ranking"}},
		{ID: "c", Title: "Nothing", Abstract: "y", Keywords: []string{}},
	}
	s, _ := testServer(t, papers)

	rec := do(t, s, http.MethodGet, "/api/search?q=ranking&limit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[types.SearchOutput](t, rec)
	assert.Equal(t, "ranking", out.Query)
	assert.Equal(t, 2, out.Total)
	require.Len(t, out.Results, 1)
	assert.Equal(t, "a", out.Results[0].ID)

	out = decode[types.SearchOutput](t, do(t, s, http.MethodGet, "/api/search?q=zebra"))
	assert.Equal(t, 0, out.Total)
	assert.NotNil(t, out.Results)

	for _, target := range []string{"/api/search", "/api/search?q=x&limit=0", "/api/search?q=x&limit=201"} {
		assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, target).Code, target)
	}
}

func TestStats(t *testing.T) {
	s, _ := testServer(t, corpus.Generate(40, 3))
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/api/cluster/kmeans?n_clusters=3").Code)

	stats := decode[types.Stats](t, do(t, s, http.MethodGet, "/api/stats"))
	assert.Equal(t, 40, stats.TotalPapers)
	assert.Equal(t, 3, stats.TotalClusters)
	assert.Equal(t, "kmeans", stats.CurrentMethod)
	assert.GreaterOrEqual(t, stats.YearRange.Min, 2018)
	assert.LessOrEqual(t, stats.YearRange.Max, 2024)
}

func TestStats_Empty(t *testing.T) {
	s, _ := testServer(t, nil)
	rec := do(t, s, http.MethodGet, "/api/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"error": "No papers loaded"}, decode[map[string]string](t, rec))
}

func TestCORS(t *testing.T) {
	s, _ := testServer(t, corpus.Generate(5, 1))

	req := httptest.NewRequest(http.MethodGet, "/api/clusters", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/clusters", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
