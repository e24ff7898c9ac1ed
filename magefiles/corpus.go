//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

const sampleCorpus = "data/sample_papers.json"

// Generate writes a fresh sample corpus to data/sample_papers.json. The
// SEED environment variable fixes the generator seed.
func Generate() error {
	args := []string{"run", cmdPkg, "generate", "--output", sampleCorpus}
	if seed := os.Getenv("SEED"); seed != "" {
		args = append(args, "--seed", seed)
	}
	if err := goCmd(args...); err != nil {
		return fmt.Errorf("generating sample corpus: %w", err)
	}
	return nil
}

// Serve runs the query API with the archive enabled.
func Serve() error {
	mg.Deps(Init)
	os.Setenv("PAPER_CLUSTERS_ARCHIVE_ENABLED", "true")
	if err := goCmd("run", cmdPkg, "serve"); err != nil {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}
