package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir fetches sources relative to a local map's directory. Reads are confined
// to the root; an identifier that would escape it fails (and becomes a
// placeholder entry upstream).
type Dir struct {
	root string
}

func NewDir(root string) *Dir {
	return &Dir{root: root}
}

func (d *Dir) Fetch(_ context.Context, location string) ([]byte, error) {
	target, err := secureJoin(d.root, location)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", location, err)
	}
	return data, nil
}

// secureJoin joins name under base and verifies the result stays inside base.
func secureJoin(base, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) {
		return "", fmt.Errorf("absolute source path: %q", name)
	}

	full := filepath.Join(base, clean)

	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	absFull, err := filepath.Abs(full)
	if err != nil {
		return "", err
	}

	if absFull == absBase {
		return absFull, nil
	}
	sep := string(os.PathSeparator)
	if !strings.HasPrefix(absFull, absBase+sep) {
		return "", fmt.Errorf("source path escapes map directory: %q", name)
	}
	return absFull, nil
}
