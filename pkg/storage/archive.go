package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ReportArchive keeps generated report files in a flat directory on local
// disk. File names are produced by the report service and never contain path
// separators; the archive rejects anything that would escape its root.
type ReportArchive struct {
	root string
}

// NewReportArchive ensures the root directory exists and returns the archive.
func NewReportArchive(root string) (*ReportArchive, error) {
	if root == "" {
		root = "./reports"
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve archive root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create archive root: %w", err)
	}
	return &ReportArchive{root: abs}, nil
}

// Put writes a report file and returns its absolute path.
func (a *ReportArchive) Put(name string, data []byte) (string, error) {
	path, err := a.path(name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report file: %w", err)
	}
	return path, nil
}

// Reader opens a stored report file for download.
func (a *ReportArchive) Reader(name string) (*os.File, error) {
	path, err := a.path(name)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Remove deletes a single report file.
func (a *ReportArchive) Remove(name string) error {
	path, err := a.path(name)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

// Prune removes report files whose modification time is older than the
// retention window and reports how many were deleted.
func (a *ReportArchive) Prune(retention time.Duration) (int, error) {
	entries, err := os.ReadDir(a.root)
	if err != nil {
		return 0, fmt.Errorf("read archive root: %w", err)
	}

	cutoff := time.Now().Add(-retention)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(a.root, entry.Name())); err != nil {
			return removed, fmt.Errorf("prune %s: %w", entry.Name(), err)
		}
		removed++
	}
	return removed, nil
}

// Root returns the archive's absolute root directory.
func (a *ReportArchive) Root() string {
	return a.root
}

func (a *ReportArchive) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid report file name %q", name)
	}
	return filepath.Join(a.root, name), nil
}
