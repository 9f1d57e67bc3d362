package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDisk(t *testing.T) *LocalDisk {
	t.Helper()
	d, err := NewLocal(t.TempDir(), "http://localhost:8080/storage/")
	require.NoError(t, err)
	return d
}

func TestLocalPutOpenDelete(t *testing.T) {
	ctx := context.Background()
	d := newTestDisk(t)

	require.NoError(t, d.Put(ctx, "artworks/3/12-a.png", strings.NewReader("png-bytes"), "image/png"))

	ok, err := d.Exists(ctx, "artworks/3/12-a.png")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := Get(ctx, d, "artworks/3/12-a.png")
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, d.Put(ctx, "artworks/3/12-a.png", strings.NewReader("replaced"), "image/png"))
	data, err = Get(ctx, d, "artworks/3/12-a.png")
	require.NoError(t, err)
	assert.Equal(t, "replaced", string(data))

	require.NoError(t, d.Delete(ctx, "artworks/3/12-a.png"))
	require.NoError(t, d.Delete(ctx, "artworks/3/12-a.png"), "deleting twice is fine")

	_, err = d.Open(ctx, "artworks/3/12-a.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalPathsStayInsideRoot(t *testing.T) {
	ctx := context.Background()
	d := newTestDisk(t)

	require.NoError(t, d.Put(ctx, "../../escape.txt", strings.NewReader("x"), ""))
	_, err := os.Stat(filepath.Join(d.Root(), "escape.txt"))
	assert.NoError(t, err)
}

func TestLocalURLRoundTrip(t *testing.T) {
	d := newTestDisk(t)

	url := d.URL("artworks/1/2-x.jpg")
	assert.Equal(t, "http://localhost:8080/storage/artworks/1/2-x.jpg", url)

	p, ok := d.PathOf(url)
	assert.True(t, ok)
	assert.Equal(t, "artworks/1/2-x.jpg", p)

	_, ok = d.PathOf("https://elsewhere.example/img.jpg")
	assert.False(t, ok)
}

func TestLocalHandler(t *testing.T) {
	d := newTestDisk(t)
	require.NoError(t, d.Put(context.Background(), "artworks/1/2-x.txt", strings.NewReader("hello"), ""))
	h := d.Handler("/storage")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/storage/artworks/1/2-x.txt", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())

	for _, p := range []string{"/storage/artworks/", "/storage/artworks", "/storage/missing.png"} {
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, p)
	}
}
