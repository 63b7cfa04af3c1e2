// Package sitejson retrieves the raw site structure document, either
// over HTTP or from local disk.
package sitejson

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// maxDocumentSize caps a manifest read at 4 MiB; the real document is a
// few kilobytes.
const maxDocumentSize = 4 << 20

// HTTPFetcher fetches the site structure document from a URL.
type HTTPFetcher struct {
	client *http.Client
	url    string
}

// NewHTTPFetcher creates a fetcher for the given document URL.
func NewHTTPFetcher(url string, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
		url:    url,
	}
}

// Fetch downloads the document.
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build manifest request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", f.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", f.url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("read manifest body: %w", err)
	}
	return data, nil
}

// FileFetcher reads the site structure document from local disk.
type FileFetcher struct {
	path string
}

// NewFileFetcher creates a fetcher for the given file path.
func NewFileFetcher(path string) *FileFetcher {
	return &FileFetcher{path: path}
}

// Fetch reads the document.
func (f *FileFetcher) Fetch(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return data, nil
}
