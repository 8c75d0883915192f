//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagefetch"
	"github.com/fwojciec/pagefetch/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Launcher implements pagefetch.Launcher.
var _ pagefetch.Launcher = (*rod.Launcher)(nil)

func fetch(t *testing.T, ctx context.Context, url string) (string, error) {
	t.Helper()
	return pagefetch.NewPageFetcher(rod.NewLauncher()).Fetch(ctx, url)
}

func textOf(t *testing.T, html, selector string) string {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return strings.TrimSpace(doc.Find(selector).Text())
}

func TestPageFetcher_Fetch_ReturnsRenderedHTML(t *testing.T) {
	t.Parallel()

	// Serve a page that uses JavaScript to add content
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
<div id="content">Loading...</div>
<script>
document.getElementById('content').textContent = 'JavaScript Rendered';
</script>
</body>
</html>`))
	}))
	defer srv.Close()

	html, err := fetch(t, context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "JavaScript Rendered", textOf(t, html, "#content"))
	assert.Contains(t, html, "</html>")
}

func TestPageFetcher_Fetch_WaitsForNetworkToSettle(t *testing.T) {
	t.Parallel()

	// Four parallel requests keep more than two connections busy, so the
	// page cannot count as almost idle until they finish.
	mux := http.NewServeMux()
	mux.HandleFunc("/slow/", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<body>
<div id="status">pending</div>
<script>
window.addEventListener('load', () => {
  const reqs = [1, 2, 3, 4].map(i => fetch('/slow/' + i).then(r => r.text()));
  Promise.all(reqs).then(() => {
    document.getElementById('status').textContent = 'settled';
  });
});
</script>
</body>
</html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	html, err := fetch(t, context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "settled", textOf(t, html, "#status"))
}

func TestPageFetcher_Fetch_UnreachableHost(t *testing.T) {
	t.Parallel()

	// Grab a free port, then close the listener so nothing answers on it.
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := fetch(t, context.Background(), url)

	require.Error(t, err)
	var fe *pagefetch.FetchError
	require.ErrorAs(t, err, &fe)
	assert.True(t, strings.HasPrefix(err.Error(), pagefetch.FetchErrorPrefix))
}

func TestPageFetcher_Fetch_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := fetch(t, ctx, "http://example.com")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPage_Navigate_TimeoutTriggersOnSlowPage(t *testing.T) {
	t.Parallel()

	// Server that delays longer than the navigation timeout
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>delayed</body></html>`))
	}))
	defer srv.Close()

	l := rod.NewLauncher(rod.WithNavigationTimeout(100 * time.Millisecond))
	_, err := pagefetch.NewPageFetcher(l).Fetch(context.Background(), srv.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBrowser_Close_Idempotent(t *testing.T) {
	t.Parallel()

	browser, err := rod.NewLauncher().Launch(context.Background())
	require.NoError(t, err)

	// First close should succeed
	err = browser.Close()
	require.NoError(t, err)

	// Second close should also succeed (not panic or error)
	err = browser.Close()
	require.NoError(t, err)
}

func TestPageFetcher_Fetch_FollowsScriptRedirect(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html><html><body><div id="page">final</div></body></html>`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html><html><body><div id="page">start</div>
<script>location.href = '/final';</script>
</body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	// Well below the default so a missed idle event fails fast.
	l := rod.NewLauncher(rod.WithNavigationTimeout(10 * time.Second))
	html, err := pagefetch.NewPageFetcher(l).Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "final", textOf(t, html, "#page"))
}
