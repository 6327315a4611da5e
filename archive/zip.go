// Package archive serializes a completed extraction tree into a zip payload.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tsukinoko-kun/unmap/extract"
)

// Write serializes the tree to w in entry-insertion order. Entries carry no
// timestamps, so identical trees produce byte-identical archives.
func Write(t *extract.Tree, w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, e := range t.Entries() {
		f, err := zw.Create(e.Path)
		if err != nil {
			return fmt.Errorf("zip entry %s: %w", e.Path, err)
		}
		if _, err := f.Write(e.Content); err != nil {
			return fmt.Errorf("zip write %s: %w", e.Path, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("zip close: %w", err)
	}
	return nil
}

// WriteFile serializes the tree into a zip file at path. The archive is
// staged next to the target and renamed into place so a failed run never
// leaves a truncated archive behind.
func WriteFile(t *extract.Tree, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".unmap-*.zip")
	if err != nil {
		return fmt.Errorf("create temp archive: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := Write(t, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("fsync archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename archive: %w", err)
	}
	return nil
}
