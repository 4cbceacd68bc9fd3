package logic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/tentcrypt/internal/config"
	"github.com/idelchi/tentcrypt/internal/encryption"
)

func newConfig(files ...string) *config.Config {
	return &config.Config{
		Password:  "pw",
		ChunkSize: config.DefaultChunkSize,
		Suffix:    config.DefaultSuffix,
		Quiet:     true,
		Files:     files,
	}
}

func TestResolveFilesDeduplicates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "a")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0o600))

	cfg := newConfig(file, filepath.Join(dir, ".", "a"), dir+"/../"+filepath.Base(dir)+"/a")

	require.NoError(t, resolveFiles(cfg))
	assert.Equal(t, []string{file}, cfg.Files)
}

func TestResolveFilesRejects(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	err := resolveFiles(newConfig(dir))
	require.ErrorIs(t, err, ErrNotRegular)

	err = resolveFiles(newConfig(filepath.Join(dir, "missing")))
	require.ErrorIs(t, err, encryption.ErrSourceUnavailable)
}

func TestRunDry(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "a")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0o600))

	cfg := newConfig(file)
	cfg.Dry = true

	require.NoError(t, Run(cfg))
	assert.FileExists(t, file)
	assert.NoFileExists(t, file+config.DefaultSuffix)
}

func TestRun(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "a")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0o600))

	require.NoError(t, Run(newConfig(file, file)))
	assert.NoFileExists(t, file)
	assert.FileExists(t, file+config.DefaultSuffix)
}
