// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query provides read-only views over a published snapshot:
// attribute filtering, ranked free-text search, and corpus statistics.
// Nothing here modifies the snapshot it reads.
package query

import (
	"errors"
	"sort"
	"strings"

	"github.com/pdiddy/paper-clusters/internal/catalog"
	"github.com/pdiddy/paper-clusters/pkg/types"
)

// ErrNoPapers is returned by ComputeStats for an empty corpus.
var ErrNoPapers = errors.New("no papers loaded")

// Search score weights.
const (
	titleScore    = 10
	keywordScore  = 5
	abstractScore = 2
)

// Filter selects papers by attribute. Nil and empty fields do not filter.
type Filter struct {
	ClusterID *int
	Year      *int
	// Search is matched case-insensitively as a substring of the title,
	// the abstract, or any keyword.
	Search string
}

// FilterPapers returns the papers matching every set field of f, in
// corpus order.
func FilterPapers(papers []types.Paper, f Filter) []types.Paper {
	needle := strings.ToLower(f.Search)
	out := make([]types.Paper, 0, len(papers))
	for _, p := range papers {
		if f.ClusterID != nil && !p.InCluster(*f.ClusterID) {
			continue
		}
		if f.Year != nil && p.Year != *f.Year {
			continue
		}
		if needle != "" && !mentions(p, needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func mentions(p types.Paper, needle string) bool {
	if strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Abstract), needle) {
		return true
	}
	for _, kw := range p.Keywords {
		if strings.Contains(strings.ToLower(kw), needle) {
			return true
		}
	}
	return false
}

// Score rates how well p matches the lowercased query: 10 when the title
// contains it, 5 for each keyword containing it, and 2 when the abstract
// contains it.
func Score(p types.Paper, needle string) int {
	score := 0
	if strings.Contains(strings.ToLower(p.Title), needle) {
		score += titleScore
	}
	for _, kw := range p.Keywords {
		if strings.Contains(strings.ToLower(kw), needle) {
			score += keywordScore
		}
	}
	if strings.Contains(strings.ToLower(p.Abstract), needle) {
		score += abstractScore
	}
	return score
}

// Search ranks papers against q, case-insensitively. Papers scoring zero
// are excluded. Results are ordered by score descending with ties in
// corpus order and truncated to limit; Total counts every match. A
// non-positive limit returns all matches.
func Search(papers []types.Paper, q string, limit int) types.SearchOutput {
	needle := strings.ToLower(q)

	type hit struct {
		paper types.Paper
		score int
	}
	var hits []hit
	for _, p := range papers {
		if s := Score(p, needle); s > 0 {
			hits = append(hits, hit{paper: p, score: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	n := len(hits)
	if limit > 0 && limit < n {
		n = limit
	}
	results := make([]types.Paper, n)
	for i := range results {
		results[i] = hits[i].paper
	}

	return types.SearchOutput{
		Query:   q,
		Results: results,
		Total:   len(hits),
	}
}

// ComputeStats summarizes a snapshot. The reported method is the
// identifier of the run that produced the snapshot.
func ComputeStats(snap *catalog.Snapshot) (types.Stats, error) {
	papers := snap.Papers
	if len(papers) == 0 {
		return types.Stats{}, ErrNoPapers
	}

	years := types.YearRange{Min: papers[0].Year, Max: papers[0].Year}
	var cites types.CitationStats
	venues := make(map[string]struct{})
	for _, p := range papers {
		years.Min = min(years.Min, p.Year)
		years.Max = max(years.Max, p.Year)
		cites.Total += p.Citations
		cites.Max = max(cites.Max, p.Citations)
		venues[p.Venue] = struct{}{}
	}
	cites.Average = float64(cites.Total) / float64(len(papers))

	return types.Stats{
		TotalPapers:   len(papers),
		TotalClusters: len(snap.Clusters),
		CurrentMethod: string(snap.Method),
		YearRange:     years,
		Citations:     cites,
		Venues:        len(venues),
	}, nil
}
