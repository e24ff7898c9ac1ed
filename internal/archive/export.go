// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportRun holds one archived run with its catalog for export.
type ExportRun struct {
	Run      Run             `json:"run" yaml:"run"`
	Clusters []ExportCluster `json:"clusters" yaml:"clusters"`
}

// ExportCluster holds a catalog entry and the ids of its member papers.
type ExportCluster struct {
	ID       int      `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	TopWords []string `json:"top_words" yaml:"top_words"`
	Size     *int     `json:"size,omitempty" yaml:"size,omitempty"`
	Members  []string `json:"members" yaml:"members"`
}

// ExportYAML writes run runID to dir/run-<id>.yaml and returns the path.
func (s *Store) ExportYAML(ctx context.Context, runID int64, dir string) (string, error) {
	entry, err := s.exportRun(ctx, runID)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return writeExport(dir, fmt.Sprintf("run-%d.yaml", runID), data)
}

// ExportJSON writes run runID to dir/run-<id>.json and returns the path.
func (s *Store) ExportJSON(ctx context.Context, runID int64, dir string) (string, error) {
	entry, err := s.exportRun(ctx, runID)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return writeExport(dir, fmt.Sprintf("run-%d.json", runID), data)
}

func (s *Store) exportRun(ctx context.Context, runID int64) (*ExportRun, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	clusters, err := s.Clusters(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	members, err := s.Members(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entry := &ExportRun{Run: run, Clusters: make([]ExportCluster, len(clusters))}
	for i, c := range clusters {
		ids := members[c.ID]
		if ids == nil {
			ids = []string{}
		}
		entry.Clusters[i] = ExportCluster{
			ID:       c.ID,
			Name:     c.Name,
			TopWords: c.TopWords,
			Size:     c.Size,
			Members:  ids,
		}
	}
	return entry, nil
}

func writeExport(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
