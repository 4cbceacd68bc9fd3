package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/tentcrypt/internal/fileutil"
)

func TestCreateTruncatesWithOwnerPermissions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(path, []byte("previous content"), 0o600))

	file, err := fileutil.Create(path)
	require.NoError(t, err)
	require.NoError(t, file.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())

	fresh := filepath.Join(t.TempDir(), "fresh")

	file, err = fileutil.Create(fresh)
	require.NoError(t, err)
	require.NoError(t, file.Close())

	info, err = os.Stat(fresh)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(fileutil.OwnerReadWrite), info.Mode().Perm())
}

func TestExistsAndSameFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "file")

	exists, err := fileutil.Exists(path)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, os.WriteFile(path, nil, 0o600))

	exists, err = fileutil.Exists(path)
	require.NoError(t, err)
	assert.True(t, exists)

	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(path, link))

	assert.True(t, fileutil.SameFile(path, link))
	assert.False(t, fileutil.SameFile(path, filepath.Join(dir, "missing")))
}

func TestRemovePartial(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "partial")
	require.NoError(t, os.WriteFile(path, []byte("half"), 0o600))

	require.NoError(t, fileutil.RemovePartial(path))
	assert.NoFileExists(t, path)
	require.NoError(t, fileutil.RemovePartial(path))
}

func TestFinalizeOutputPreservesTimestamps(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(path, []byte("12345"), 0o600))

	modTime := time.Date(2020, time.January, 2, 3, 4, 5, 0, time.UTC)

	size, err := fileutil.FinalizeOutput(path, true, modTime)
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(modTime))
}
