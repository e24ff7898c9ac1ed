// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-clusters/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the corpus, cluster it, and serve the query API",
	Long: `Serve loads the corpus (generating a sample when the source file is
missing), runs an initial clustering with the configured method and cluster
count, and serves the JSON API until interrupted.

Routes: GET /, GET /api/papers, GET /api/clusters, POST /api/cluster/{method},
GET /api/search, GET /api/stats.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :9000)")
	serveCmd.Flags().String("method", "", "initial clustering method: kmeans, hierarchical, or lda")
	serveCmd.Flags().Int("clusters", 0, "initial cluster count (2-20)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	bindFlags(cmd, map[string]string{
		"addr":     "server.addr",
		"method":   "clustering.method",
		"clusters": "clustering.clusters",
	})
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	papers, err := loadCorpus(ctx, cfg)
	if err != nil {
		return err
	}

	cat, closeArchive, err := newCatalog(cfg, papers)
	if err != nil {
		return err
	}
	defer closeArchive()

	// A failed initial run leaves the corpus unclustered but still served.
	if _, err := cat.Recluster(ctx, cfg.Clustering.Method, cfg.Clustering.Clusters); err != nil {
		logger.Warn("initial clustering failed", "method", cfg.Clustering.Method, "error", err)
	}

	return server.New(cfg.Server, cat, logger).Run(ctx)
}
