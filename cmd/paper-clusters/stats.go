// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-clusters/internal/query"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the corpus",
	Long: `Stats prints paper and venue counts, the publication year range, and
citation totals. With --method the corpus is clustered first and the
cluster count and method are reported as well.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringP("method", "m", "", "cluster first with this method")
	statsCmd.Flags().IntP("clusters", "k", 5, "number of clusters when --method is set")
	statsCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
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

	if method, _ := cmd.Flags().GetString("method"); method != "" {
		k, _ := cmd.Flags().GetInt("clusters")
		if _, err := cat.Recluster(ctx, method, k); err != nil {
			return err
		}
	}

	stats, err := query.ComputeStats(cat.Current())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	method := stats.CurrentMethod
	if method == "" {
		method = "(none)"
	}
	fmt.Printf("Papers:     %d\n", stats.TotalPapers)
	fmt.Printf("Clusters:   %d\n", stats.TotalClusters)
	fmt.Printf("Method:     %s\n", method)
	fmt.Printf("Years:      %d-%d\n", stats.YearRange.Min, stats.YearRange.Max)
	fmt.Printf("Citations:  %d total, %.1f average, %d max\n",
		stats.Citations.Total, stats.Citations.Average, stats.Citations.Max)
	fmt.Printf("Venues:     %d\n", stats.Venues)
	return nil
}
