// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus loads the paper corpus. A source is a JSON file holding
// an array of papers, an http(s) URL serving one, or an OpenAlex search
// whose matching works are imported. When a file source does not exist a
// sample corpus is generated and written to that path so later runs
// reuse it.
package corpus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/paper-clusters/internal/httputil"
	"github.com/pdiddy/paper-clusters/pkg/types"
)

// Loader resolves a corpus source into papers.
type Loader struct {
	cfg    types.CorpusConfig
	client *httputil.Client
	log    io.Writer
}

// NewLoader returns a loader for cfg. token, when set, is sent as a bearer
// token to HTTP sources. Progress lines go to log.
func NewLoader(cfg types.CorpusConfig, token string, log io.Writer) *Loader {
	if log == nil {
		log = io.Discard
	}
	return &Loader{
		cfg: cfg,
		client: &httputil.Client{
			HTTP:      &http.Client{Timeout: cfg.Timeout},
			UserAgent: cfg.UserAgent,
			Token:     token,
		},
		log: log,
	}
}

// Load returns the corpus named by the configured source.
func (l *Loader) Load(ctx context.Context) ([]types.Paper, error) {
	src := l.cfg.Source
	if src == "" {
		return nil, fmt.Errorf("loading corpus: no source configured")
	}

	if search, ok := IsOpenAlex(src); ok {
		// The corpus token is meant for the corpus host, not OpenAlex.
		client := *l.client
		client.Token = ""
		papers, err := FetchOpenAlex(ctx, &client, search, l.cfg.Mailto, l.cfg.FetchLimit)
		if err != nil {
			return nil, fmt.Errorf("loading corpus: %w", err)
		}
		fmt.Fprintf(l.log, "imported %d papers from OpenAlex for %q\n", len(papers), search)
		return papers, nil
	}

	if IsRemote(src) {
		var papers []types.Paper
		if err := l.client.GetJSON(ctx, src, &papers); err != nil {
			return nil, fmt.Errorf("loading corpus: %w", err)
		}
		if err := Validate(papers); err != nil {
			return nil, fmt.Errorf("loading corpus from %s: %w", src, err)
		}
		fmt.Fprintf(l.log, "loaded %d papers from %s\n", len(papers), src)
		return papers, nil
	}

	papers, err := ReadFile(src)
	if err == nil {
		fmt.Fprintf(l.log, "loaded %d papers from %s\n", len(papers), src)
		return papers, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}

	seed := uint64(l.cfg.SampleSeed)
	if l.cfg.SampleSeed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	fmt.Fprintf(l.log, "%s not found, generating %d sample papers\n", src, l.cfg.SampleSize)
	papers = Generate(l.cfg.SampleSize, seed)
	if err := WriteFile(src, papers); err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}
	fmt.Fprintf(l.log, "saved %d papers to %s\n", len(papers), src)
	return papers, nil
}

// IsRemote reports whether src names an HTTP source.
func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// ReadFile reads a JSON array of papers from path. A missing file yields
// an error wrapping os.ErrNotExist.
func ReadFile(path string) ([]types.Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var papers []types.Paper
	if err := json.Unmarshal(data, &papers); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := Validate(papers); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return papers, nil
}

// WriteFile writes papers to path as an indented JSON array, creating the
// parent directory if needed.
func WriteFile(path string, papers []types.Paper) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(papers); err != nil {
		return fmt.Errorf("encoding papers: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Validate checks that every paper has a non-empty, unique id.
func Validate(papers []types.Paper) error {
	seen := make(map[string]int, len(papers))
	for i, p := range papers {
		if p.ID == "" {
			return fmt.Errorf("paper at index %d has no id", i)
		}
		if j, dup := seen[p.ID]; dup {
			return fmt.Errorf("duplicate paper id %q at indexes %d and %d", p.ID, j, i)
		}
		seen[p.ID] = i
	}
	return nil
}
