// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-clusters/internal/archive"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and export archived clustering runs",
	Long: `History reads the run archive, a SQLite database recording every
clustering run published while archive.enabled is set. Use subcommands to
list runs, show a run's catalog, export it, or full-text search archived
papers.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive()
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := store.Runs(context.Background(), limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs archived.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "%-5s  %-13s  %-3s  %-6s  %s\n", "Run", "Method", "K", "Papers", "Created")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 60))
		for _, r := range runs {
			fmt.Fprintf(os.Stdout, "%-5d  %-13s  %-3d  %-6d  %s\n",
				r.ID, r.Method, r.K, r.PaperCount, r.CreatedAt.Local().Format(time.DateTime))
		}
		return nil
	},
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show the catalog of a run (default: latest)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		run, err := resolveRun(ctx, store, args)
		if err != nil {
			return err
		}
		clusters, err := store.Clusters(ctx, run.ID)
		if err != nil {
			return err
		}
		members, err := store.Members(ctx, run.ID)
		if err != nil {
			return err
		}

		counts := make([]int, len(clusters))
		for i, c := range clusters {
			counts[i] = len(members[c.ID])
		}
		fmt.Printf("Run %d, %s\n", run.ID, run.CreatedAt.Local().Format(time.DateTime))
		printCatalog(run.Method, clusters, counts)
		return nil
	},
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export [run-id]",
	Short: "Export a run's catalog and memberships (default: latest)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		run, err := resolveRun(ctx, store, args)
		if err != nil {
			return err
		}

		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = store.Dir()
		}
		format, _ := cmd.Flags().GetString("format")

		var path string
		switch format {
		case "yaml":
			path, err = store.ExportYAML(ctx, run.ID, dir)
		case "json":
			path, err = store.ExportJSON(ctx, run.ID, dir)
		default:
			return fmt.Errorf("unknown export format %q (want yaml or json)", format)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Exported run %d to %s\n", run.ID, path)
		return nil
	},
}

// --- search subcommand ---

var historySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over archived papers",
	Long: `Search matches the query against the titles, abstracts, and keywords of
every paper any archived run has seen. The query uses SQLite full-text
syntax (e.g. "ranking OR retrieval", "neural*"). Results carry their
cluster from the newest run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive()
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		papers, err := store.SearchPapers(context.Background(), strings.Join(args, " "), limit)
		if err != nil {
			return err
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(papers)
		}
		printPapers(papers)
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "maximum number of runs")
	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().String("dir", "", "output directory (default: archive directory)")
	historySearchCmd.Flags().IntP("limit", "n", 20, "maximum number of results")
	historySearchCmd.Flags().Bool("json", false, "output results as JSON")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyExportCmd, historySearchCmd)
	rootCmd.AddCommand(historyCmd)
}

func openArchive() (*archive.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return archive.Open(cfg.Archive)
}

// resolveRun returns the run named by args[0], or the latest run.
func resolveRun(ctx context.Context, store *archive.Store, args []string) (archive.Run, error) {
	if len(args) == 0 {
		return store.LatestRun(ctx)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return archive.Run{}, fmt.Errorf("invalid run id %q", args[0])
	}
	return store.GetRun(ctx, id)
}
