package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"VNSentinel/internal/ai"
	"VNSentinel/internal/config"
	"VNSentinel/internal/fetcher"
	"VNSentinel/internal/notifier"
	"VNSentinel/internal/portfolio"
	"VNSentinel/internal/recorder"
	"VNSentinel/internal/scheduler"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] VNSentinel starting...")

	// .env is optional; real deployments use environment variables.
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}

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

	f := fetcher.NewVNStockFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey)
	log.Printf("[INFO] data source: %s, watching %d symbols", f.Name(), len(cfg.Watchlist))

	ln := notifier.NewLarkNotifier(cfg.Lark.WebhookURL)

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
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

	store, err := portfolio.NewStore(cfg.Portfolio.File)
	if err != nil {
		log.Fatalf("[FATAL] init portfolio store: %v", err)
	}

	var aiClient *ai.Client
	if cfg.AI.APIKey != "" {
		aiClient = ai.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model)
		log.Printf("[INFO] AI commentary enabled: %s", cfg.AI.Model)
	} else {
		log.Println("[INFO] AI commentary disabled (no API key)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mon := scheduler.NewMonitor(ctx, cfg, f, ln, rec, aiClient, store)
	if err := mon.RegisterAll(); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	mon.Start()
	defer mon.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing monitoring cycle now")
		go mon.RunCycleNow()
	}

	log.Println("[INFO] VNSentinel is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] VNSentinel stopped")
}
