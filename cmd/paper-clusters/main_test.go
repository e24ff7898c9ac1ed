// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-clusters/pkg/types"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	setDefaults(types.DefaultConfig())
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func TestLoadConfig_Defaults(t *testing.T) {
	resetViper(t)
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, types.DefaultConfig(), cfg)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	resetViper(t)
	t.Setenv("PAPER_CLUSTERS_CLUSTERING_CLUSTERS", "7")
	t.Setenv("PAPER_CLUSTERS_CORPUS_TIMEOUT", "5s")
	t.Setenv("PAPER_CLUSTERS_ARCHIVE_ENABLED", "true")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Clustering.Clusters)
	assert.Equal(t, 5*time.Second, cfg.Corpus.Timeout)
	assert.True(t, cfg.Archive.Enabled)
	assert.Equal(t, "kmeans", cfg.Clustering.Method)
}

func TestLoadConfig_File(t *testing.T) {
	resetViper(t)
	path := filepath.Join(t.TempDir(), "paper-clusters.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
clustering:
  method: lda
  topic:
    passes: 20
server:
  addr: ":8080"
`), 0o644))
	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "lda", cfg.Clustering.Method)
	assert.Equal(t, 20, cfg.Clustering.Topic.Passes)
	assert.Equal(t, 50, cfg.Clustering.Topic.Iterations)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestWriteConfigTemplate(t *testing.T) {
	resetViper(t)
	path := filepath.Join(t.TempDir(), "paper-clusters.yaml")
	require.NoError(t, writeConfigTemplate(path))

	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, types.DefaultConfig(), cfg)
}
