// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-clusters/internal/corpus"
	"github.com/pdiddy/paper-clusters/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a sample corpus or a config template",
	Long: `Generate writes a sample corpus drawn from six fixed research topics
(information retrieval, human-computer interaction, machine learning, data
mining, natural language processing, computer vision) to the corpus path.

With --config-template it writes a paper-clusters.yaml holding every
default setting instead.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntP("count", "n", 0, "number of papers (default corpus.sample_size)")
	generateCmd.Flags().Uint64("seed", 0, "generator seed (default time-based)")
	generateCmd.Flags().StringP("output", "o", "", "output path (default corpus.source)")
	generateCmd.Flags().String("config-template", "", "write a default config file to this path and exit")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if path, _ := cmd.Flags().GetString("config-template"); path != "" {
		return writeConfigTemplate(path)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	n, _ := cmd.Flags().GetInt("count")
	if n <= 0 {
		n = cfg.Corpus.SampleSize
	}
	seed, _ := cmd.Flags().GetUint64("seed")
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = cfg.Corpus.Source
	}
	if _, ok := corpus.IsOpenAlex(out); ok || corpus.IsRemote(out) {
		return fmt.Errorf("cannot write sample corpus to remote source %s", out)
	}

	if err := corpus.WriteFile(out, corpus.Generate(n, seed)); err != nil {
		return err
	}
	fmt.Printf("Generated %d papers in %s\n", n, out)
	return nil
}

func writeConfigTemplate(path string) error {
	data, err := yaml.Marshal(types.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("Wrote default configuration to %s\n", path)
	return nil
}
