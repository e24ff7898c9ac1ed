// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-clusters/internal/httputil"
)

func TestReconstructAbstract(t *testing.T) {
	tests := []struct {
		name  string
		index map[string][]int
		want  string
	}{
		{"empty map", map[string][]int{}, ""},
		{"nil map", nil, ""},
		{"single word", map[string][]int{"hello": {0}}, "hello"},
		{
			name:  "multi-word ordered",
			index: map[string][]int{"We": {0}, "propose": {1}, "a": {2}, "new": {3}, "method": {4}},
			want:  "We propose a new method",
		},
		{
			name:  "repeated word",
			index: map[string][]int{"the": {0, 4}, "cat": {1}, "sat": {2}, "on": {3}, "mat": {5}},
			want:  "the cat sat on the mat",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reconstructAbstract(tt.index))
		})
	}
}

func TestIsOpenAlex(t *testing.T) {
	q, ok := IsOpenAlex("openalex: topic models ")
	assert.True(t, ok)
	assert.Equal(t, "topic models", q)

	_, ok = IsOpenAlex("data/sample_papers.json")
	assert.False(t, ok)
}

const openAlexPage = `{
  "meta": {"count": 3, "per_page": 200, "page": 1},
  "results": [
    {
      "id": "https://openalex.org/W2741809807",
      "title": "Attention Is All You Need",
      "publication_year": 2017,
      "cited_by_count": 90000,
      "authorships": [
        {"author": {"id": "A1", "display_name": "Ashish Vaswani"}},
        {"author": {"id": "A2", "display_name": "Noam Shazeer"}}
      ],
      "keywords": [{"display_name": "Transformer"}, {"display_name": "Attention"}],
      "primary_location": {"source": {"display_name": "NeurIPS"}},
      "abstract_inverted_index": {"We": [0], "propose": [1], "a": [2], "transformer": [3]}
    },
    {
      "id": "https://openalex.org/W3210812345",
      "title": "BERT: Pre-training of Deep Bidirectional Transformers",
      "publication_year": 2018,
      "authorships": [{"author": {"id": "A3", "display_name": "Jacob Devlin"}}],
      "primary_location": {"source": null},
      "abstract_inverted_index": null
    },
    {
      "id": "https://openalex.org/W1",
      "title": "",
      "publication_year": 2020
    }
  ]
}`

func openAlexServer(t *testing.T, gotQuery *url.Values) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotQuery = r.URL.Query()
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, `{"meta": {}, "results": []}`)
			return
		}
		fmt.Fprint(w, openAlexPage)
	}))
	old := openAlexWorksBase
	openAlexWorksBase = ts.URL
	t.Cleanup(func() {
		openAlexWorksBase = old
		ts.Close()
	})
	return ts
}

func TestFetchOpenAlex(t *testing.T) {
	var query url.Values
	ts := openAlexServer(t, &query)

	papers, err := FetchOpenAlex(context.Background(), &httputil.Client{HTTP: ts.Client()}, "attention", "me@example.org", 0)
	require.NoError(t, err)
	require.Len(t, papers, 2)

	p := papers[0]
	assert.Equal(t, "W2741809807", p.ID)
	assert.Equal(t, "Attention Is All You Need", p.Title)
	assert.Equal(t, []string{"Ashish Vaswani", "Noam Shazeer"}, p.Authors)
	assert.Equal(t, "We propose a transformer", p.Abstract)
	assert.Equal(t, []string{"Transformer", "Attention"}, p.Keywords)
	assert.Equal(t, 2017, p.Year)
	assert.Equal(t, "NeurIPS", p.Venue)
	assert.Equal(t, 90000, p.Citations)
	assert.False(t, p.Assigned())

	assert.Equal(t, "", papers[1].Venue)
	assert.Equal(t, "", papers[1].Abstract)
	assert.Equal(t, []string{}, papers[1].Keywords)

	assert.Equal(t, "me@example.org", query.Get("mailto"))
	assert.Equal(t, "attention", query.Get("search"))
}

func TestFetchOpenAlex_Limit(t *testing.T) {
	var query url.Values
	ts := openAlexServer(t, &query)

	papers, err := FetchOpenAlex(context.Background(), &httputil.Client{HTTP: ts.Client()}, "attention", "", 1)
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "1", query.Get("per_page"))
	assert.Empty(t, query.Get("mailto"))
}

func TestFetchOpenAlex_EmptyQuery(t *testing.T) {
	_, err := FetchOpenAlex(context.Background(), &httputil.Client{}, "", "", 10)
	assert.Error(t, err)
}

func TestLoad_OpenAlex(t *testing.T) {
	var query url.Values
	openAlexServer(t, &query)

	cfg := testConfig("openalex:attention")
	papers, err := NewLoader(cfg, "corpus-secret", nil).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, papers, 2)
	assert.Equal(t, "attention", query.Get("search"))
}
