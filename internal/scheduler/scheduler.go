package scheduler

import (
	"context"
	"fmt"
	"log"

	"CaseSignal/internal/collector"
	"CaseSignal/internal/metrics"
	"CaseSignal/internal/recorder"

	"github.com/robfig/cron/v3"
)

// Load triggers.
const (
	TriggerStartup   = "STARTUP"
	TriggerScheduled = "SCHEDULED"
	TriggerManual    = "MANUAL"
)

// Scheduler owns the single writer of the snapshot holder: the startup load,
// the cron refresh and manual refreshes all go through LoadNow.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Holder    *collector.Holder
	Recorder  recorder.Recorder
	Metrics   *metrics.Metrics
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, holder *collector.Holder, rec recorder.Recorder, m *metrics.Metrics) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if m == nil {
		m = metrics.NewMetrics()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Holder:    holder,
		Recorder:  rec,
		Metrics:   m,
		Ctx:       ctx,
	}
}

// Register adds the dataset refresh job. An empty cron expression disables refreshing.
func (s *Scheduler) Register(refreshCron string) error {
	if refreshCron == "" {
		log.Println("[INFO] dataset refresh disabled")
		return nil
	}
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	log.Printf("[INFO] dataset refresh scheduled: %s", refreshCron)
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running refresh.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// LoadNow loads a new snapshot and publishes it. On failure the previous
// snapshot stays current.
func (s *Scheduler) LoadNow(trigger string) (*collector.Snapshot, error) {
	snap, err := s.Collector.Collect(s.Ctx)

	evt := &recorder.LoadEvent{Source: s.Collector.Fetcher.Source(), Trigger: trigger}
	rows := 0
	fromCache := false
	if err != nil {
		evt.Err = err.Error()
	} else {
		rows = snap.Dataset().Len()
		fromCache = snap.FromCache
		evt.SnapshotID, evt.Rows, evt.FromCache = snap.ID, rows, fromCache
	}
	s.Metrics.ObserveLoad(rows, fromCache, err)
	if recErr := s.Recorder.RecordLoad(evt); recErr != nil {
		log.Printf("[ERROR] record load: %v", recErr)
	}

	if err != nil {
		return nil, err
	}
	s.Holder.Store(snap)
	return snap, nil
}

func (s *Scheduler) refreshTask() {
	log.Println("[INFO] running dataset refresh")
	if _, err := s.LoadNow(TriggerScheduled); err != nil {
		log.Printf("[ERROR] dataset refresh: %v", err)
	}
}
