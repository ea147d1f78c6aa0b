package collector

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"CaseSignal/internal/model"
)

// Snapshot is one loaded dataset. It is never modified after creation, so
// any number of requests may read it concurrently.
type Snapshot struct {
	ID        string
	Source    string
	FetchedAt time.Time
	FromCache bool

	dataset *model.RawDataset
}

// NewSnapshot wraps a parsed dataset.
func NewSnapshot(ds *model.RawDataset, source string, fetchedAt time.Time, fromCache bool) *Snapshot {
	return &Snapshot{
		ID:        uuid.NewString(),
		Source:    source,
		FetchedAt: fetchedAt,
		FromCache: fromCache,
		dataset:   ds,
	}
}

// Dataset returns the snapshot's table. Callers must treat it as read-only.
func (s *Snapshot) Dataset() *model.RawDataset { return s.dataset }

// Holder publishes the current snapshot: one writer swaps it in, readers
// take whatever is current at the start of their request.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

func (h *Holder) Store(s *Snapshot) { h.current.Store(s) }

// Current returns the latest snapshot, or nil before the first load.
func (h *Holder) Current() *Snapshot { return h.current.Load() }
