package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newscast/pkg/domain"
)

func rssWithItems(prefix string, n int, start time.Time) string {
	items := ""
	// feeds list newest first
	for i := n - 1; i >= 0; i-- {
		items += fmt.Sprintf(`<item><title>%s title %d</title><link>http://example.com/%s/%d</link>
<guid>%s-%d</guid><pubDate>%s</pubDate></item>`, prefix, i, prefix, i, prefix, i,
			start.Add(time.Duration(i)*time.Hour).Format(time.RFC1123Z))
	}
	return `<?xml version="1.0"?><rss version="2.0"><channel><title>t</title>` + items + `</channel></rss>`
}

func TestFetcher_Fetch(t *testing.T) {
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	mux := http.NewServeMux()
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(rssWithItems("a", 3, start))) })
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rssWithItems("b", 2, start.Add(30*time.Minute))))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) })
	server := httptest.NewServer(mux)
	defer server.Close()

	f := NewFetcher(FetcherParams{Timeout: 5 * time.Second, UserAgent: "ua", MaxWorkers: 2})
	entries := f.Fetch(context.Background(), []string{server.URL + "/a", server.URL + "/broken", server.URL + "/b"})

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"a-0", "b-0", "a-1", "b-1", "a-2"}, ids, "broken source skipped, merged oldest first")
}

func TestFetcher_PerFeedLimit(t *testing.T) {
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rssWithItems("x", 15, start)))
	}))
	defer server.Close()

	f := NewFetcher(FetcherParams{Timeout: 5 * time.Second, PerFeed: 10})
	entries := f.Fetch(context.Background(), []string{server.URL})
	require.Len(t, entries, 10)
	// the ten newest are kept, delivered oldest of them first
	assert.Equal(t, "x-5", entries[0].ID)
	assert.Equal(t, "x-14", entries[9].ID)
}

func TestFetcher_AllSourcesFail(t *testing.T) {
	f := NewFetcher(FetcherParams{Timeout: time.Second})
	entries := f.Fetch(context.Background(), []string{"http://127.0.0.1:1/a", "not a url"})
	assert.Empty(t, entries)
}

func TestOldestFirst(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("without times reverses", func(t *testing.T) {
		in := []domain.Entry{{ID: "3"}, {ID: "2", Published: t0}, {ID: "1"}}
		out := OldestFirst(in)
		assert.Equal(t, []domain.Entry{{ID: "1"}, {ID: "2", Published: t0}, {ID: "3"}}, out)
		assert.Equal(t, "3", in[0].ID, "input untouched")
	})

	t.Run("with times sorts", func(t *testing.T) {
		in := []domain.Entry{{ID: "b", Published: t0.Add(time.Hour)}, {ID: "c", Published: t0.Add(2 * time.Hour)}, {ID: "a", Published: t0}}
		out := OldestFirst(in)
		assert.Equal(t, "a", out[0].ID)
		assert.Equal(t, "b", out[1].ID)
		assert.Equal(t, "c", out[2].ID)
	})

	t.Run("undated entries keep their slot", func(t *testing.T) {
		in := []domain.Entry{
			{ID: "x"},
			{ID: "a", Published: t0},
			{ID: "y"},
			{ID: "c", Published: t0.Add(2 * time.Hour)},
			{ID: "b", Published: t0.Add(time.Hour)},
		}
		ids := make([]string, 0, len(in))
		for _, e := range OldestFirst(in) {
			ids = append(ids, e.ID)
		}
		// reversed: b c y a x, dated slots 0, 1, 3 take a b c
		assert.Equal(t, []string{"a", "b", "y", "c", "x"}, ids)
	})
}
