package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReportArchivePutAndReader(t *testing.T) {
	archive, err := NewReportArchive(t.TempDir())
	require.NoError(t, err)

	path, err := archive.Put("results.csv", []byte("a,b\n1,2\n"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(archive.Root(), "results.csv"), path)

	file, err := archive.Reader("results.csv")
	require.NoError(t, err)
	defer file.Close()

	data, err := io.ReadAll(file)
	require.NoError(t, err)
	require.Equal(t, "a,b\n1,2\n", string(data))
}

func TestReportArchiveRejectsTraversal(t *testing.T) {
	archive, err := NewReportArchive(t.TempDir())
	require.NoError(t, err)

	_, err = archive.Put("../escape.csv", []byte("x"))
	require.Error(t, err)

	_, err = archive.Reader("sub/dir.csv")
	require.Error(t, err)
}

func TestReportArchivePrune(t *testing.T) {
	archive, err := NewReportArchive(t.TempDir())
	require.NoError(t, err)

	_, err = archive.Put("stale.csv", []byte("old"))
	require.NoError(t, err)
	_, err = archive.Put("fresh.csv", []byte("new"))
	require.NoError(t, err)

	stalePath := filepath.Join(archive.Root(), "stale.csv")
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(stalePath, old, old))

	removed, err := archive.Prune(24 * time.Hour)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	_, err = os.Stat(stalePath)
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(archive.Root(), "fresh.csv"))
	require.NoError(t, err)
}
