// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SearchOutput is the response shape of a ranked free-text search over the
// current corpus.
type SearchOutput struct {
	// Query echoes the search string.
	Query string `json:"query" yaml:"query"`

	// Results holds matching papers, highest score first, truncated to the
	// requested limit.
	Results []Paper `json:"results" yaml:"results"`

	// Total is the number of matching papers before truncation.
	Total int `json:"total" yaml:"total"`
}

// YearRange is the inclusive span of publication years in a corpus.
type YearRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// CitationStats aggregates citation counts across a corpus.
type CitationStats struct {
	Total   int     `json:"total" yaml:"total"`
	Average float64 `json:"average" yaml:"average"`
	Max     int     `json:"max" yaml:"max"`
}

// Stats summarizes the currently published corpus and catalog.
type Stats struct {
	TotalPapers   int           `json:"total_papers" yaml:"total_papers"`
	TotalClusters int           `json:"total_clusters" yaml:"total_clusters"`
	CurrentMethod string        `json:"current_method" yaml:"current_method"`
	YearRange     YearRange     `json:"year_range" yaml:"year_range"`
	Citations     CitationStats `json:"citations" yaml:"citations"`
	Venues        int           `json:"venues" yaml:"venues"`
}
