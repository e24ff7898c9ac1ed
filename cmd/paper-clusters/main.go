// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-clusters CLI.
// The serve subcommand runs the query API; the others run one-off
// clustering, search, statistics, corpus generation, and archive queries.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-clusters/internal/secrets"
	"github.com/pdiddy/paper-clusters/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	envPrefix  = "PAPER_CLUSTERS"
	secretsDir = ".secrets/"
)

// rootCmd is the base command for the paper-clusters CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-clusters",
	Short: "Topic clustering and search over a corpus of academic papers",
	Long: `paper-clusters groups a corpus of academic papers by topic and serves
the result over a JSON API. Three strategies are available: kmeans
(partitioning over TF-IDF vectors), hierarchical (Ward agglomeration),
and lda (a generative topic model).

Configuration is read from paper-clusters.yaml, PAPER_CLUSTERS_* environment
variables, a .env file, and command-line flags, in increasing precedence.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-clusters.yaml or ~/.config/paper-clusters/paper-clusters.yaml)")
	rootCmd.PersistentFlags().String("corpus", "", "corpus source: JSON file path or http(s) URL")
	rootCmd.PersistentFlags().String("archive-dir", "", "directory of the run archive database")
	viper.BindPFlag("corpus.source", rootCmd.PersistentFlags().Lookup("corpus"))
	viper.BindPFlag("archive.dir", rootCmd.PersistentFlags().Lookup("archive-dir"))
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: loading .env: %v\n", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-clusters")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-clusters"))
		}
	}

	setDefaults(types.DefaultConfig())
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every configuration key so that environment
// variables can override keys absent from the config file.
func setDefaults(d types.Config) {
	viper.SetDefault("corpus.source", d.Corpus.Source)
	viper.SetDefault("corpus.fetch_limit", d.Corpus.FetchLimit)
	viper.SetDefault("corpus.mailto", d.Corpus.Mailto)
	viper.SetDefault("corpus.sample_size", d.Corpus.SampleSize)
	viper.SetDefault("corpus.sample_seed", d.Corpus.SampleSeed)
	viper.SetDefault("corpus.timeout", d.Corpus.Timeout)
	viper.SetDefault("corpus.user_agent", d.Corpus.UserAgent)

	c := d.Clustering
	viper.SetDefault("clustering.method", c.Method)
	viper.SetDefault("clustering.clusters", c.Clusters)
	viper.SetDefault("clustering.seed", c.Seed)
	viper.SetDefault("clustering.restarts", c.Restarts)
	viper.SetDefault("clustering.max_iterations", c.MaxIterations)
	viper.SetDefault("clustering.vector.max_features", c.Vector.MaxFeatures)
	viper.SetDefault("clustering.vector.min_df", c.Vector.MinDF)
	viper.SetDefault("clustering.vector.max_df", c.Vector.MaxDF)
	viper.SetDefault("clustering.vector.ngram_max", c.Vector.NGramMax)
	viper.SetDefault("clustering.vector.stop_words", c.Vector.StopWords)
	viper.SetDefault("clustering.topic.min_df", c.Topic.MinDF)
	viper.SetDefault("clustering.topic.max_df", c.Topic.MaxDF)
	viper.SetDefault("clustering.topic.passes", c.Topic.Passes)
	viper.SetDefault("clustering.topic.iterations", c.Topic.Iterations)

	viper.SetDefault("server.addr", d.Server.Addr)
	viper.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	viper.SetDefault("server.recluster_rate", d.Server.ReclusterRate)

	viper.SetDefault("archive.enabled", d.Archive.Enabled)
	viper.SetDefault("archive.dir", d.Archive.Dir)
}

// bindFlags binds the command's flags to configuration keys. Several
// commands share keys, so binding happens when the command runs.
func bindFlags(cmd *cobra.Command, keys map[string]string) {
	for flag, key := range keys {
		viper.BindPFlag(key, cmd.Flags().Lookup(flag))
	}
}

// loadConfig resolves the effective configuration.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

// corpusToken returns the bearer token for remote corpus sources, from
// PAPER_CLUSTERS_CORPUS_TOKEN or .secrets/corpus-token.
func corpusToken() string {
	token, err := secrets.Lookup(secretsDir, envPrefix, secrets.CorpusToken)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	return token
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
