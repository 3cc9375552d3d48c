package scrape

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/papapumpkin/degreeplan/internal/catalog"
)

// Fetcher retrieves a catalog page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) (*goquery.Document, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	return f(ctx, url)
}

// HTTPFetcher fetches pages over HTTP.
type HTTPFetcher struct {
	Client    *http.Client
	UserAgent string
}

// NewHTTPFetcher returns a fetcher whose requests time out after timeout.
func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	return &HTTPFetcher{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: userAgent,
	}
}

// Fetch GETs url and parses the body. Any non-2xx status is an error.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("scrape: build request for %s: %w", url, err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape: GET %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("scrape: GET %s: unexpected status %d", url, resp.StatusCode)
	}
	doc, err := catalog.ParseDocument(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("scrape: %s: %w", url, err)
	}
	return doc, nil
}
