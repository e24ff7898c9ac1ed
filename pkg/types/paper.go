// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for paper-clusters:
// the Paper record, cluster descriptors, query results, statistics, and
// the per-component configuration blocks.
package types

import "slices"

// Paper holds the bibliographic record of an academic paper together with
// the cluster assignment produced by the most recent clustering run.
type Paper struct {
	// ID is a stable identifier (e.g. "paper_0001").
	ID string `json:"id" yaml:"id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Keywords lists author-supplied keywords in source order.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Year is the publication year.
	Year int `json:"year" yaml:"year"`

	// Venue is the conference or journal.
	Venue string `json:"venue" yaml:"venue"`

	// Citations is the citation count. Absent on input means zero.
	Citations int `json:"citations" yaml:"citations"`

	// ClusterID indexes the current cluster catalog. Nil until a
	// clustering run assigns the paper.
	ClusterID *int `json:"cluster_id" yaml:"cluster_id"`

	// ClusterName mirrors the Name of the catalog entry ClusterID points to.
	ClusterName *string `json:"cluster_name" yaml:"cluster_name"`
}

// SetCluster assigns the paper to a cluster. The id and name are always
// written together.
func (p *Paper) SetCluster(id int, name string) {
	p.ClusterID = &id
	p.ClusterName = &name
}

// ClearCluster removes any cluster assignment.
func (p *Paper) ClearCluster() {
	p.ClusterID = nil
	p.ClusterName = nil
}

// Assigned reports whether the paper carries a cluster assignment.
func (p Paper) Assigned() bool {
	return p.ClusterID != nil && p.ClusterName != nil
}

// InCluster reports whether the paper is assigned to cluster id.
func (p Paper) InCluster(id int) bool {
	return p.ClusterID != nil && *p.ClusterID == id
}

// Clone returns a deep copy. Snapshots hand out papers by value, so
// strategies clone before overwriting assignments.
func (p Paper) Clone() Paper {
	c := p
	c.Authors = slices.Clone(p.Authors)
	c.Keywords = slices.Clone(p.Keywords)
	if p.ClusterID != nil {
		id := *p.ClusterID
		c.ClusterID = &id
	}
	if p.ClusterName != nil {
		name := *p.ClusterName
		c.ClusterName = &name
	}
	return c
}

// ClonePapers deep-copies a corpus.
func ClonePapers(papers []Paper) []Paper {
	out := make([]Paper, len(papers))
	for i, p := range papers {
		out[i] = p.Clone()
	}
	return out
}
