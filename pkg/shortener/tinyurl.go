// Package shortener turns article links into short ones. A failed call falls back to
// the original link, so callers never deal with errors.
package shortener

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
)

const defaultEndpoint = "https://tinyurl.com/api-create.php"

// TinyURL shortens links with the tinyurl.com plain-text api
type TinyURL struct {
	endpoint string
	client   *http.Client
}

// NewTinyURL makes a shortener. Empty endpoint means the public tinyurl api.
func NewTinyURL(endpoint string, timeout time.Duration) *TinyURL {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TinyURL{endpoint: endpoint, client: &http.Client{Timeout: timeout}}
}

// Shorten returns the short link, or link itself when anything goes wrong
func (t *TinyURL) Shorten(ctx context.Context, link string) string {
	if link == "" {
		return link
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint+"?url="+url.QueryEscape(link), http.NoBody)
	if err != nil {
		lgr.Printf("[WARN] can't make shortener request for %s: %v", link, err)
		return link
	}
	resp, err := t.client.Do(req)
	if err != nil {
		lgr.Printf("[WARN] shortener failed for %s: %v", link, err)
		return link
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		lgr.Printf("[WARN] shortener returned %d for %s", resp.StatusCode, link)
		return link
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return link
	}
	short := strings.TrimSpace(string(body))
	if !strings.HasPrefix(short, "http://") && !strings.HasPrefix(short, "https://") {
		lgr.Printf("[WARN] unexpected shortener response for %s: %q", link, short)
		return link
	}
	return short
}
