// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cluster partitions a paper corpus into topical groups. Three
// interchangeable strategies are provided: a partition strategy (k-means
// over TF-IDF vectors), a hierarchical strategy (Ward agglomerative
// merging), and a generative topic model (latent Dirichlet allocation).
// Every strategy returns fresh copies of the papers with their cluster
// assignment overwritten plus a fresh catalog of k cluster descriptors.
package cluster

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/paper-clusters/pkg/types"
)

// Cluster count bounds accepted by every strategy.
const (
	MinClusters = 2
	MaxClusters = 20
)

// ErrInvalidArgument is returned for an unknown method or a cluster count
// outside [MinClusters, MaxClusters].
var ErrInvalidArgument = errors.New("invalid argument")

// ErrTooFewDocuments is returned when the corpus holds fewer papers than
// the requested number of clusters.
var ErrTooFewDocuments = errors.New("too few documents")

// Method identifies a clustering strategy.
type Method string

// Supported methods.
const (
	MethodKMeans       Method = "kmeans"
	MethodHierarchical Method = "hierarchical"
	MethodLDA          Method = "lda"
)

// Methods lists every supported method in display order.
var Methods = []Method{MethodKMeans, MethodHierarchical, MethodLDA}

var methodAliases = map[string]Method{
	"kmeans":             MethodKMeans,
	"partition":          MethodKMeans,
	"hierarchical":       MethodHierarchical,
	"hierarchical-merge": MethodHierarchical,
	"lda":                MethodLDA,
	"generative-topic":   MethodLDA,
}

// ParseMethod resolves a method name or alias, case-insensitively.
func ParseMethod(s string) (Method, error) {
	m, ok := methodAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown clustering method %q (want kmeans, hierarchical, or lda): %w", s, ErrInvalidArgument)
	}
	return m, nil
}

// DisplayName returns the human-readable method name reported by stats.
func (m Method) DisplayName() string {
	switch m {
	case MethodKMeans:
		return "K-means (TF-IDF)"
	case MethodHierarchical:
		return "Hierarchical (Agglomerative)"
	case MethodLDA:
		return "LDA (Latent Dirichlet Allocation)"
	}
	return string(m)
}

// ValidateK reports whether k is an acceptable cluster count.
func ValidateK(k int) error {
	if k < MinClusters || k > MaxClusters {
		return fmt.Errorf("n_clusters %d out of range [%d, %d]: %w", k, MinClusters, MaxClusters, ErrInvalidArgument)
	}
	return nil
}

// Result is the output of one clustering run.
type Result struct {
	// Papers holds copies of the input papers, in input order, each
	// assigned to exactly one cluster.
	Papers []types.Paper

	// Clusters is the catalog with dense ids 0..k-1.
	Clusters []types.Cluster
}

// Strategy clusters a corpus into k groups. Implementations never mutate
// the papers they are given.
type Strategy interface {
	// Method returns the method identifier.
	Method() Method

	// Name returns the display name.
	Name() string

	// Cluster trains from scratch over papers and assigns each to one of
	// k clusters.
	Cluster(ctx context.Context, papers []types.Paper, k int) (Result, error)
}

// New returns the strategy for method m configured by cfg.
func New(m Method, cfg types.ClusteringConfig) (Strategy, error) {
	switch m {
	case MethodKMeans:
		return NewPartition(cfg), nil
	case MethodHierarchical:
		return NewHierarchical(cfg), nil
	case MethodLDA:
		return NewTopic(cfg), nil
	}
	return nil, fmt.Errorf("unknown clustering method %q: %w", m, ErrInvalidArgument)
}

// Factory returns a constructor bound to cfg, suitable for injecting into
// the catalog.
func Factory(cfg types.ClusteringConfig) func(Method) (Strategy, error) {
	return func(m Method) (Strategy, error) {
		return New(m, cfg)
	}
}

func checkInput(papers []types.Paper, k int) error {
	if err := ValidateK(k); err != nil {
		return err
	}
	if len(papers) < k {
		return fmt.Errorf("%d papers for %d clusters: %w", len(papers), k, ErrTooFewDocuments)
	}
	return nil
}
