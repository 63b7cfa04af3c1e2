package sitemap

import "context"

// Fetcher retrieves the raw site structure document.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}
