package crawl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gaurav-prasanna/townpipe/core"
	"github.com/gaurav-prasanna/townpipe/core/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>
			<a href="oakvale.html">Oakvale</a>
			<a href="/towns/river.HTM#top">River</a>
			<a href="oakvale.html#map">again</a>
			<a href="notes.txt">notes</a>
			<a href="https://elsewhere.example/far.html">far</a>
			<a href="#top">top</a>
			<a href="mailto:gm@example.org">mail</a>
			<a href="index.html">self</a>
		</body></html>`))
	}))
	defer srv.Close()

	docs, err := Discover(context.Background(), srv.URL+"/index.html", fetch.New(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/oakvale.html", srv.URL + "/towns/river.HTM"}, docs)
}

func TestDiscover_InvalidIndex(t *testing.T) {
	_, err := Discover(context.Background(), "not a url", fetch.New(), nil)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestIsTownLink(t *testing.T) {
	tests := []struct {
		link string
		want bool
	}{
		{"https://a.org/t/x.html?v=1", true},
		{"https://A.org/t/x.HTM", true},
		{"https://a.org/t/x.jpg", false},
		{"https://a.org/t/", false},
		{"https://b.org/t/x.html", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsTownLink(mustParse(t, tt.link), "a.org"), tt.link)
	}
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "https://a.org/t", Canonical(mustParse(t, "https://A.ORG/t/#frag")))
	assert.Equal(t, "https://a.org/", Canonical(mustParse(t, "https://a.org/")))
}

func TestBatch(t *testing.T) {
	b := NewBatch()
	b.Exclude("index")
	assert.False(t, b.Add("index"))
	assert.True(t, b.Add("a"))
	assert.True(t, b.Add("b"))
	assert.False(t, b.Add("a"))
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, []string{"a", "b"}, b.Towns())
}
