package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsukinoko-kun/unmap/extract"
)

func buildTree() *extract.Tree {
	t := extract.NewTree()
	t.Insert("src/a.js", extract.ResolvedSource{Raw: "src/a.js", Content: []byte("aaa")})
	t.Insert("src/a.js", extract.ResolvedSource{Raw: "webpack://./src/a.js", Content: []byte("bbb")})
	t.Insert("package.json", extract.ResolvedSource{Raw: "package.json", Content: []byte("{}")})
	return t
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(buildTree(), &buf))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 3)

	got := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		got[f.Name] = string(data)
	}
	assert.Equal(t, map[string]string{
		"src/a.js":   "aaa",
		"src/a_1.js": "bbb",
		"package.json": "{}",
	}, got)
}

func TestWriteDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, Write(buildTree(), &a))
	require.NoError(t, Write(buildTree(), &b))
	assert.Equal(t, a.Bytes(), b.Bytes(), "identical trees must produce byte-identical archives")
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.zip")
	require.NoError(t, WriteFile(buildTree(), out))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no staging leftovers")
}

func TestWriteFileBadDir(t *testing.T) {
	err := WriteFile(extract.NewTree(), filepath.Join(t.TempDir(), "missing", "out.zip"))
	assert.Error(t, err)
}
