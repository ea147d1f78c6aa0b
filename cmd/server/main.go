package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CaseSignal/internal/collector"
	"CaseSignal/internal/config"
	"CaseSignal/internal/metrics"
	"CaseSignal/internal/pipeline"
	"CaseSignal/internal/recorder"
	"CaseSignal/internal/region"
	"CaseSignal/internal/scheduler"
	"CaseSignal/internal/server"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] CaseSignal starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init cache / load history
	var rec recorder.Recorder
	if cfg.Cache.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Cache.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	fetcher := cfg.Fetcher()
	log.Printf("[INFO] data source: %s (%s)", fetcher.Name(), fetcher.Source())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewMetrics()
	holder := &collector.Holder{}
	col := collector.NewCollector(fetcher, rec)
	sched := scheduler.NewScheduler(ctx, col, holder, rec, m)

	// The server starts even if the first load fails; the refresh job or a
	// manual refresh can still publish a snapshot later.
	if snap, err := sched.LoadNow(scheduler.TriggerStartup); err != nil {
		log.Printf("[ERROR] initial dataset load: %v", err)
	} else {
		log.Printf("[INFO] dataset loaded: %d regions (snapshot %s)", snap.Dataset().Len(), snap.ID)
	}

	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	engine := pipeline.NewEngine(region.NewExtractor(cfg.DataSource.PrimaryColumn, cfg.DataSource.SubColumn))
	srv := server.New(engine, holder, sched, cfg.Params(), cfg.Server.DefaultRegion, m)
	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("[INFO] listening on %s", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	log.Println("[INFO] CaseSignal is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	cancel()
	log.Println("[INFO] CaseSignal stopped")
}
