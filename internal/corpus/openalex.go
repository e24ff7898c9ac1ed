// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/pdiddy/paper-clusters/internal/httputil"
	"github.com/pdiddy/paper-clusters/pkg/types"
)

// OpenAlexScheme prefixes corpus sources imported from OpenAlex, e.g.
// "openalex:topic modeling".
const OpenAlexScheme = "openalex:"

// openAlexWorksBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexWorksBase = "https://api.openalex.org/works"

// openAlexPageSize is the largest page OpenAlex serves.
const openAlexPageSize = 200

// IsOpenAlex reports whether src names an OpenAlex import and returns the
// search text.
func IsOpenAlex(src string) (string, bool) {
	q, ok := strings.CutPrefix(src, OpenAlexScheme)
	return strings.TrimSpace(q), ok
}

// FetchOpenAlex imports up to limit works matching search as papers, in
// OpenAlex relevance order. Works without a title are skipped.
func FetchOpenAlex(ctx context.Context, client *httputil.Client, search, mailto string, limit int) ([]types.Paper, error) {
	if search == "" {
		return nil, fmt.Errorf("empty OpenAlex query")
	}
	if limit <= 0 {
		limit = openAlexPageSize
	}

	var papers []types.Paper
	seen := make(map[string]bool)
	for page := 1; len(papers) < limit; page++ {
		params := url.Values{
			"search":   {search},
			"per_page": {fmt.Sprintf("%d", min(openAlexPageSize, limit-len(papers)))},
			"page":     {fmt.Sprintf("%d", page)},
		}
		if mailto != "" {
			params.Set("mailto", mailto)
		}

		var resp openAlexResponse
		if err := client.GetJSON(ctx, openAlexWorksBase+"?"+params.Encode(), &resp); err != nil {
			return nil, fmt.Errorf("OpenAlex search: %w", err)
		}
		if len(resp.Results) == 0 {
			break
		}

		for _, w := range resp.Results {
			p, ok := w.paper()
			if !ok || seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			papers = append(papers, p)
			if len(papers) == limit {
				break
			}
		}
	}
	return papers, nil
}

// paper converts a work to a corpus paper.
func (w openAlexWork) paper() (types.Paper, bool) {
	id := strings.TrimPrefix(w.ID, "https://openalex.org/")
	if id == "" || strings.TrimSpace(w.Title) == "" {
		return types.Paper{}, false
	}

	p := types.Paper{
		ID:        id,
		Title:     w.Title,
		Authors:   []string{},
		Abstract:  reconstructAbstract(w.AbstractInvertedIndex),
		Keywords:  []string{},
		Year:      w.PublicationYear,
		Citations: w.CitedByCount,
	}
	for _, a := range w.Authorships {
		if a.Author.DisplayName != "" {
			p.Authors = append(p.Authors, a.Author.DisplayName)
		}
	}
	for _, kw := range w.Keywords {
		if kw.DisplayName != "" {
			p.Keywords = append(p.Keywords, kw.DisplayName)
		}
	}
	if w.PrimaryLocation.Source != nil {
		p.Venue = w.PrimaryLocation.Source.DisplayName
	}
	return p, true
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The index maps each word to the positions it occupies.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Meta    openAlexMeta   `json:"meta"`
	Results []openAlexWork `json:"results"`
}

type openAlexMeta struct {
	Count   int `json:"count"`
	PerPage int `json:"per_page"`
	Page    int `json:"page"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	PublicationYear       int                  `json:"publication_year"`
	CitedByCount          int                  `json:"cited_by_count"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	Keywords              []openAlexKeyword    `json:"keywords"`
	PrimaryLocation       openAlexLocation     `json:"primary_location"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type openAlexKeyword struct {
	DisplayName string `json:"display_name"`
}

type openAlexLocation struct {
	Source *openAlexSource `json:"source"`
}

type openAlexSource struct {
	DisplayName string `json:"display_name"`
}
