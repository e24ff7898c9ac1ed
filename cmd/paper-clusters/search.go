// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-clusters/internal/query"
	"github.com/pdiddy/paper-clusters/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Rank corpus papers against a free-text query",
	Long: `Search scores every paper in the corpus against the query: 10 points
when the title contains it, 5 per matching keyword, and 2 when the abstract
contains it. Matching is a case-insensitive substring test. Papers with no
match are omitted; ties keep corpus order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntP("limit", "n", 50, "maximum number of results")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	papers, err := loadCorpus(context.Background(), cfg)
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	out := query.Search(papers, strings.Join(args, " "), limit)

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	fmt.Fprintf(os.Stdout, "%d of %d matching papers\n\n", len(out.Results), out.Total)
	printPapers(out.Results)
	return nil
}

// printPapers writes a ranked paper table.
func printPapers(papers []types.Paper) {
	if len(papers) == 0 {
		fmt.Println("No results found.")
		return
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-12s  %-4s  %-50s  %s\n", "Rank", "ID", "Year", "Title", "Cluster")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for i, p := range papers {
		title := p.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		cluster := "-"
		if p.ClusterName != nil {
			cluster = *p.ClusterName
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-12s  %-4d  %-50s  %s\n", i+1, p.ID, p.Year, title, cluster)
	}
}
