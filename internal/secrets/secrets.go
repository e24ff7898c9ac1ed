// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key
// name and the file contents (trimmed) are the value.
//
// Supported key files: corpus-token (bearer token sent when the corpus is
// fetched over HTTP).
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CorpusToken is the key of the bearer token for remote corpus sources.
const CorpusToken = "corpus-token"

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Lookup returns the secret stored under key, preferring an environment
// override (e.g. PAPER_CLUSTERS_CORPUS_TOKEN for corpus-token) over the
// file in dir.
func Lookup(dir, envPrefix, key string) (string, error) {
	env := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		return v, nil
	}
	all, err := Load(dir)
	if err != nil {
		return "", err
	}
	return all[key], nil
}
