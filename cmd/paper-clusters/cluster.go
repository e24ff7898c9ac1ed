// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-clusters/internal/corpus"
	"github.com/pdiddy/paper-clusters/pkg/types"
)

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Cluster the corpus once and print the catalog",
	Long: `Cluster runs one clustering over the corpus and prints the resulting
cluster catalog with member counts. Use --write to save the papers with
their assignments as a JSON array.`,
	RunE: runCluster,
}

func init() {
	clusterCmd.Flags().StringP("method", "m", "", "clustering method: kmeans, hierarchical, or lda")
	clusterCmd.Flags().IntP("clusters", "k", 0, "number of clusters (2-20)")
	clusterCmd.Flags().Uint64("seed", 0, "seed for reproducible runs")
	clusterCmd.Flags().String("write", "", "write assigned papers to this JSON file")
	clusterCmd.Flags().Bool("json", false, "print the catalog as JSON")

	rootCmd.AddCommand(clusterCmd)
}

func runCluster(cmd *cobra.Command, args []string) error {
	bindFlags(cmd, map[string]string{
		"method":   "clustering.method",
		"clusters": "clustering.clusters",
		"seed":     "clustering.seed",
	})
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()

	papers, err := loadCorpus(ctx, cfg)
	if err != nil {
		return err
	}
	cat, closeArchive, err := newCatalog(cfg, papers)
	if err != nil {
		return err
	}
	defer closeArchive()

	snap, err := cat.Recluster(ctx, cfg.Clustering.Method, cfg.Clustering.Clusters)
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("write"); path != "" {
		if err := corpus.WriteFile(path, snap.Papers); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %d papers to %s\n", len(snap.Papers), path)
	}

	counts := make([]int, len(snap.Clusters))
	for _, p := range snap.Papers {
		if p.ClusterID != nil {
			counts[*p.ClusterID]++
		}
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap.Clusters)
	}
	printCatalog(snap.MethodName(), snap.Clusters, counts)
	return nil
}

func printCatalog(method string, clusters []types.Cluster, counts []int) {
	fmt.Fprintf(os.Stdout, "Method: %s\n\n", method)
	fmt.Fprintf(os.Stdout, "%-4s  %-7s  %s\n", "ID", "Papers", "Name")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for i, c := range clusters {
		fmt.Fprintf(os.Stdout, "%-4d  %-7d  %s\n", c.ID, counts[i], c.Name)
	}
}
