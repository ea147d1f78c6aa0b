package collector

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"CaseSignal/internal/recorder"
)

// MockFetcher returns fixed bytes for development and testing.
type MockFetcher struct {
	Body []byte
	Err  error

	mu    sync.Mutex
	calls int
}

func (m *MockFetcher) Name() string   { return "mock" }
func (m *MockFetcher) Source() string { return "mock://dataset" }

func (m *MockFetcher) Fetch(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Body, nil
}

// Calls reports how many times Fetch ran.
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Collector fetches and parses the dataset into snapshots, keeping the last
// good CSV in the cache so a failed fetch can still serve data.
type Collector struct {
	Fetcher Fetcher
	Cache   recorder.Recorder

	group singleflight.Group
}

// NewCollector creates a new Collector. A nil cache disables the fallback.
func NewCollector(fetcher Fetcher, cache recorder.Recorder) *Collector {
	if cache == nil {
		cache = recorder.NewNoopRecorder()
	}
	return &Collector{Fetcher: fetcher, Cache: cache}
}

// Collect loads a fresh snapshot. Concurrent calls share one fetch.
func (c *Collector) Collect(ctx context.Context) (*Snapshot, error) {
	v, err, _ := c.group.Do("collect", func() (interface{}, error) {
		return c.collect(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

func (c *Collector) collect(ctx context.Context) (*Snapshot, error) {
	source := c.Fetcher.Source()
	fetchedAt := time.Now()
	fromCache := false

	body, err := c.Fetcher.Fetch(ctx)
	if err != nil {
		log.Printf("[WARN] fetch dataset from %s failed: %v, trying cache", c.Fetcher.Name(), err)
		cached, at, cacheErr := c.Cache.LoadDataset(source)
		if cacheErr != nil {
			return nil, fmt.Errorf("fetch dataset: %w; cache fallback: %v", err, cacheErr)
		}
		body, fetchedAt, fromCache = cached, at, true
	}

	ds, err := ParseCSV(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	if !fromCache {
		if err := c.Cache.SaveDataset(source, body, fetchedAt); err != nil {
			log.Printf("[WARN] cache dataset: %v", err)
		}
	}

	snap := NewSnapshot(ds, source, fetchedAt, fromCache)
	log.Printf("[INFO] dataset %s loaded from %s: %d rows, %d columns (cache=%v)",
		snap.ID, c.Fetcher.Name(), ds.Len(), len(ds.Header), fromCache)
	return snap, nil
}
