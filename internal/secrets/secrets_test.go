// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "corpus-token", "  tok_abc123  \n")
				writeFile(t, dir, "mirror-token", "tok_xyz789")
				return dir
			},
			want: map[string]string{
				"corpus-token": "tok_abc123",
				"mirror-token": "tok_xyz789",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "corpus-token", "valid")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{"corpus-token": "valid"},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, "corpus-token", "real")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{"corpus-token": "real"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookup(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, CorpusToken, "from-file")

	got, err := Lookup(dir, "PC_TEST", CorpusToken)
	require.NoError(t, err)
	assert.Equal(t, "from-file", got)

	t.Setenv("PC_TEST_CORPUS_TOKEN", "from-env")
	got, err = Lookup(dir, "PC_TEST", CorpusToken)
	require.NoError(t, err)
	assert.Equal(t, "from-env", got)

	got, err = Lookup(filepath.Join(dir, "missing"), "PC_OTHER", CorpusToken)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
