package collector

import "context"

// Fetcher retrieves the raw CSV bytes of the case dataset.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
	// Source identifies where the bytes come from (URL or path); it keys the cache.
	Source() string
	Name() string
}
