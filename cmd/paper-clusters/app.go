// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pdiddy/paper-clusters/internal/archive"
	"github.com/pdiddy/paper-clusters/internal/catalog"
	"github.com/pdiddy/paper-clusters/internal/cluster"
	"github.com/pdiddy/paper-clusters/internal/corpus"
	"github.com/pdiddy/paper-clusters/pkg/types"
)

// loadCorpus loads the configured corpus, generating a sample if the
// source file is missing.
func loadCorpus(ctx context.Context, cfg types.Config) ([]types.Paper, error) {
	return corpus.NewLoader(cfg.Corpus, corpusToken(), os.Stderr).Load(ctx)
}

// newCatalog builds a catalog over papers. When the archive is enabled
// every published run is recorded; the returned close func releases it.
func newCatalog(cfg types.Config, papers []types.Paper) (*catalog.Catalog, func(), error) {
	opts := []catalog.Option{catalog.WithLog(os.Stderr)}
	closeFn := func() {}

	if cfg.Archive.Enabled {
		store, err := archive.Open(cfg.Archive)
		if err != nil {
			return nil, nil, fmt.Errorf("opening archive: %w", err)
		}
		opts = append(opts, catalog.WithRecorder(store))
		closeFn = func() { store.Close() }
	}

	return catalog.New(papers, cluster.Factory(cfg.Clustering), opts...), closeFn, nil
}
