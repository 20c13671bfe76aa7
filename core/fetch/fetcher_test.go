package fetch

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gaurav-prasanna/townpipe/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "townpipe")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>town</body></html>"))
	}))
	defer srv.Close()

	res, err := New().Fetch(context.Background(), srv.URL+"/town.html")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "<html><body>town</body></html>", res.HTML)
	assert.Equal(t, "text/html; charset=utf-8", res.ContentType)
}

func TestFetch_RejectsNonHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := New().Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestFetch_RejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := New().Fetch(context.Background(), srv.URL+"/missing.html")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestFetch_RejectsOversizedDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>"))
		_, _ = w.Write(bytes.Repeat([]byte("a"), maxDocumentSize))
	}))
	defer srv.Close()

	_, err := New().Fetch(context.Background(), srv.URL+"/huge.html")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestFetch_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "oakvale.html")
	require.NoError(t, os.WriteFile(path, []byte("<html></html>"), 0o644))

	f := New()
	for _, loc := range []string{path, "file://" + path} {
		res, err := f.Fetch(context.Background(), loc)
		require.NoError(t, err, loc)
		assert.Equal(t, "<html></html>", res.HTML)
		assert.Equal(t, loc, res.URL)
	}
}

func TestFetch_FileExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("<html></html>"), 0o644))

	_, err := New().Fetch(context.Background(), path)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = New().Fetch(context.Background(), filepath.Join(dir, "absent.html"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrInvalidInput)
}
