package seed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_ConditionalGetAndCacheFallback(t *testing.T) {
	feed := ics(
		"BEGIN:VEVENT",
		"UID:colloquium",
		"SUMMARY:Department colloquium",
		"DTSTART:20250523T070000Z",
		"CATEGORIES:meeting",
		"END:VEVENT",
	)

	var hits, notModified atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("If-None-Match") == `"v1"` {
			notModified.Add(1)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write([]byte(feed))
	}))

	f := NewFetcher(t.TempDir())
	ctx := context.Background()
	feedURL := srv.URL + "/private/token.ics"

	body, err := f.Fetch(ctx, feedURL)
	require.NoError(t, err)
	assert.Equal(t, feed, string(body))

	body, err = f.Fetch(ctx, feedURL)
	require.NoError(t, err)
	assert.Equal(t, feed, string(body))
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, int32(1), notModified.Load())

	srv.Close()
	drafts, err := Load(ctx, []string{feedURL}, time.UTC, f)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Department colloquium", drafts[0].Title)
}

func TestLoad_UnreachableFeedIsSkipped(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	drafts, err := Load(context.Background(), []string{srv.URL + "/missing.ics"}, time.UTC, NewFetcher(t.TempDir()))
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "https://cal.example.edu/...(redacted)", redactURL("https://cal.example.edu/feeds/abc123.ics?token=s"))
	assert.Equal(t, "ics://...(redacted)", redactURL("not a url"))
	assert.True(t, IsRemote("https://x/y.ics"))
	assert.False(t, IsRemote("/etc/facultycal/term.yaml"))
}
