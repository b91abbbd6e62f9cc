package shortener

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTinyURL_Shorten(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("url") {
		case "https://example.com/article?id=1":
			_, _ = w.Write([]byte("https://tinyurl.com/abc123\n"))
		case "https://example.com/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			_, _ = w.Write([]byte("Error"))
		}
	}))
	defer ts.Close()

	s := NewTinyURL(ts.URL, time.Second)
	tbl := []struct {
		name, in, want string
	}{
		{"shortened", "https://example.com/article?id=1", "https://tinyurl.com/abc123"},
		{"server error keeps link", "https://example.com/broken", "https://example.com/broken"},
		{"garbage response keeps link", "https://example.com/other", "https://example.com/other"},
		{"empty", "", ""},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Shorten(context.Background(), tt.in))
		})
	}
}

func TestTinyURL_Unreachable(t *testing.T) {
	s := NewTinyURL("http://127.0.0.1:1", 100*time.Millisecond)
	assert.Equal(t, "https://example.com/a", s.Shorten(context.Background(), "https://example.com/a"))
}

func TestNewTinyURL_Defaults(t *testing.T) {
	s := NewTinyURL("", 0)
	assert.Equal(t, defaultEndpoint, s.endpoint)
	assert.Equal(t, 5*time.Second, s.client.Timeout)
}
