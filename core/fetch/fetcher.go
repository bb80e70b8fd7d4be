// Package fetch implements the Fetcher interface.
// It retrieves remote annotation manifests and index pages over HTTP.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gaurav-prasanna/protpipe/core"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "protpipe/1.0 (https://github.com/gaurav-prasanna/protpipe)"

	// maxBodySize bounds a single manifest download.
	maxBodySize = 256 << 20
)

// HTTPFetcher fetches resources via HTTP.
type HTTPFetcher struct {
	client  *http.Client
	maxBody int64
}

// New creates an HTTPFetcher with a sensible timeout.
func New() *HTTPFetcher {
	return &HTTPFetcher{
		client:  &http.Client{Timeout: defaultTimeout},
		maxBody: maxBodySize,
	}
}

// NewWithClient creates an HTTPFetcher that uses client.
func NewWithClient(client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{client: client, maxBody: maxBodySize}
}

// Fetch retrieves the body of the given URL.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*core.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/yaml, application/json, text/html;q=0.8, */*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	// One byte past the limit tells a full body from a truncated one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if int64(len(body)) > f.maxBody {
		return nil, fmt.Errorf("response body for %s exceeds %d bytes", url, f.maxBody)
	}

	return &core.FetchResult{
		URL:        url,
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}
