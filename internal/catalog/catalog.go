// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog holds the published clustering state and orchestrates
// reclustering. Readers take the current snapshot without locking; a
// recluster builds a complete new snapshot and publishes it in a single
// atomic swap, so readers never observe a half-applied run.
package catalog

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/pdiddy/paper-clusters/internal/cluster"
	"github.com/pdiddy/paper-clusters/pkg/types"
)

// Snapshot is one published corpus state. A snapshot is never modified
// after it is published; callers that need to change papers clone them.
type Snapshot struct {
	// Papers is the corpus in load order, carrying the assignments of the
	// run that produced the snapshot.
	Papers []types.Paper

	// Clusters is the catalog of that run. Empty before the first run.
	Clusters []types.Cluster

	// Method is the strategy that produced the snapshot. Empty before the
	// first run.
	Method cluster.Method

	// K is the requested cluster count.
	K int

	// PublishedAt is when the snapshot became current.
	PublishedAt time.Time
}

// MethodName returns the display name of the snapshot's method, or the
// empty string before the first run.
func (s *Snapshot) MethodName() string {
	if s.Method == "" {
		return ""
	}
	return s.Method.DisplayName()
}

// Cluster returns the catalog entry with the given id.
func (s *Snapshot) Cluster(id int) (types.Cluster, bool) {
	if id < 0 || id >= len(s.Clusters) {
		return types.Cluster{}, false
	}
	return s.Clusters[id], true
}

// Recorder is notified after every successful publish. The run archive
// implements it.
type Recorder interface {
	Record(ctx context.Context, snap *Snapshot) error
}

// StrategyFactory resolves a method to its strategy.
type StrategyFactory func(cluster.Method) (cluster.Strategy, error)

// Option configures a Catalog.
type Option func(*Catalog)

// WithRecorder registers a recorder for published runs.
func WithRecorder(r Recorder) Option {
	return func(c *Catalog) { c.recorder = r }
}

// WithLog directs progress and recorder warnings to w.
func WithLog(w io.Writer) Option {
	return func(c *Catalog) { c.log = w }
}

// Catalog is the published-state container. Current and Publish are safe
// for concurrent use. Recluster calls are not serialized here; callers
// that accept concurrent requests serialize them.
type Catalog struct {
	current    atomic.Pointer[Snapshot]
	strategies StrategyFactory
	recorder   Recorder
	log        io.Writer
	now        func() time.Time
}

// New creates a catalog whose initial snapshot holds papers with no
// cluster assignments.
func New(papers []types.Paper, strategies StrategyFactory, opts ...Option) *Catalog {
	c := &Catalog{
		strategies: strategies,
		log:        io.Discard,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	initial := types.ClonePapers(papers)
	for i := range initial {
		initial[i].ClearCluster()
	}
	c.current.Store(&Snapshot{
		Papers:      initial,
		Clusters:    []types.Cluster{},
		PublishedAt: c.now(),
	})
	return c
}

// Current returns the snapshot readers should use.
func (c *Catalog) Current() *Snapshot {
	return c.current.Load()
}

// Publish makes snap current.
func (c *Catalog) Publish(snap *Snapshot) {
	c.current.Store(snap)
}

// Recluster validates method and k, runs the strategy over the current
// corpus, and publishes the result. Arguments are checked before any
// computation. On any failure the previous snapshot stays current and
// the error is returned with context.
func (c *Catalog) Recluster(ctx context.Context, method string, k int) (*Snapshot, error) {
	m, err := cluster.ParseMethod(method)
	if err != nil {
		return nil, fmt.Errorf("reclustering: %w", err)
	}
	if err := cluster.ValidateK(k); err != nil {
		return nil, fmt.Errorf("reclustering: %w", err)
	}

	strategy, err := c.strategies(m)
	if err != nil {
		return nil, fmt.Errorf("reclustering: %w", err)
	}

	prev := c.Current()
	start := c.now()
	fmt.Fprintf(c.log, "clustering %d papers with %s (k=%d)\n", len(prev.Papers), strategy.Name(), k)

	res, err := strategy.Cluster(ctx, prev.Papers, k)
	if err != nil {
		fmt.Fprintf(c.log, "clustering failed: %v\n", err)
		return nil, fmt.Errorf("reclustering with %s: %w", m, err)
	}

	snap := &Snapshot{
		Papers:      res.Papers,
		Clusters:    res.Clusters,
		Method:      m,
		K:           k,
		PublishedAt: c.now(),
	}
	c.Publish(snap)
	fmt.Fprintf(c.log, "published %d clusters in %s\n", len(snap.Clusters), c.now().Sub(start).Round(time.Millisecond))

	if c.recorder != nil {
		if err := c.recorder.Record(ctx, snap); err != nil {
			fmt.Fprintf(c.log, "warning: recording run: %v\n", err)
		}
	}
	return snap, nil
}
