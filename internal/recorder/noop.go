package recorder

import "time"

// NoopRecorder is used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) SaveDataset(_ string, _ []byte, _ time.Time) error { return nil }
func (n *NoopRecorder) LoadDataset(_ string) ([]byte, time.Time, error) {
	return nil, time.Time{}, ErrNoCachedDataset
}
func (n *NoopRecorder) RecordLoad(_ *LoadEvent) error { return nil }
func (n *NoopRecorder) Close() error                  { return nil }
