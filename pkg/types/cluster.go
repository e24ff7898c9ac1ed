// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Cluster describes one group in the cluster catalog produced by a
// clustering run. IDs are dense: a run with k clusters produces ids 0..k-1.
type Cluster struct {
	// ID is the cluster index within its run.
	ID int `json:"id" yaml:"id"`

	// Name is the synthesized display label (e.g. "Cluster 1: search, ranking, query").
	Name string `json:"name" yaml:"name"`

	// TopWords lists the most representative terms, most representative first.
	TopWords []string `json:"top_words" yaml:"top_words"`

	// Size is the number of member papers. Only some strategies populate it.
	Size *int `json:"size,omitempty" yaml:"size,omitempty"`
}
