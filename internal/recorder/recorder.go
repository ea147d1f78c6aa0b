package recorder

import (
	"errors"
	"time"
)

// ErrNoCachedDataset is returned when nothing was cached for a source.
var ErrNoCachedDataset = errors.New("no cached dataset")

// LoadEvent records one dataset load attempt.
type LoadEvent struct {
	SnapshotID string
	Source     string
	Trigger    string // "STARTUP", "SCHEDULED" or "MANUAL"
	Rows       int
	FromCache  bool
	Err        string
}

// Recorder keeps the last raw dataset per source and a log of loads. It
// never stores computed indicators.
type Recorder interface {
	SaveDataset(source string, body []byte, fetchedAt time.Time) error
	LoadDataset(source string) ([]byte, time.Time, error)
	RecordLoad(evt *LoadEvent) error
	Close() error
}
