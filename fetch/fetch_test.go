package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a.js":
			assert.Equal(t, "unmap-test/1.0", r.Header.Get("User-Agent"))
			_, _ = w.Write([]byte("console.log(1)"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c, err := NewClient(Options{UserAgent: "unmap-test/1.0"})
	require.NoError(t, err)

	body, err := c.Fetch(context.Background(), srv.URL+"/a.js")
	require.NoError(t, err)
	assert.Equal(t, "console.log(1)", string(body))
}

func TestClientFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c, err := NewClient(Options{})
	require.NoError(t, err)

	_, err = c.Fetch(context.Background(), srv.URL+"/missing.js")
	require.Error(t, err)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
}

func TestClientFetchInvalidProxy(t *testing.T) {
	_, err := NewClient(Options{Proxy: "://bad"})
	assert.Error(t, err)
}

func TestDirFetch(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "a.js"), []byte("x"), 0o644))

	d := NewDir(root)

	body, err := d.Fetch(context.Background(), "src/a.js")
	require.NoError(t, err)
	assert.Equal(t, "x", string(body))

	_, err = d.Fetch(context.Background(), "./src/a.js")
	assert.NoError(t, err)

	_, err = d.Fetch(context.Background(), "missing.js")
	assert.Error(t, err)
}

func TestDirFetchContainment(t *testing.T) {
	root := t.TempDir()
	d := NewDir(root)

	_, err := d.Fetch(context.Background(), "../outside.js")
	assert.Error(t, err)

	_, err = d.Fetch(context.Background(), "/etc/passwd")
	assert.Error(t, err)
}
