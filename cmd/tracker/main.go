package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"PoolTracker/internal/config"
	"PoolTracker/internal/notifier"
	"PoolTracker/internal/scheduler"
	"PoolTracker/internal/server"
	"PoolTracker/internal/store"
	"PoolTracker/internal/tracker"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] PoolTracker starting...")

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

	// Init storage
	var kv store.KV
	if cfg.Storage.Backend == "sqlite" {
		sk, err := store.NewSQLiteKV(cfg.Storage.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite store failed, falling back to file store: %v", err)
			fk, ferr := store.NewFileKV(cfg.Storage.FileDir)
			if ferr != nil {
				log.Fatalf("[FATAL] init file store: %v", ferr)
			}
			kv = fk
		} else {
			kv = sk
		}
	} else {
		fk, err := store.NewFileKV(cfg.Storage.FileDir)
		if err != nil {
			log.Fatalf("[FATAL] init file store: %v", err)
		}
		kv = fk
	}
	defer kv.Close()

	// Init ledger manager
	tm := tracker.NewManager(store.NewLedgerStore(kv, cfg.Storage.Key))
	tm.Refresh()

	// Init Telegram notifier
	tn := notifier.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, tm, tn, cfg.Backup.Dir)
	if err := sched.RegisterAll(cfg.Backup.Cron, cfg.Schedule.ReminderCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	if tn.Enabled() {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Start HTTP server
	srv := server.New(cfg.Server.ListenAddr, tm, tn)
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()
	log.Printf("[INFO] HTTP server listening on %s", cfg.Server.ListenAddr)

	// Optional: write a backup immediately on start
	if os.Getenv("BACKUP_ON_START") == "true" {
		log.Println("[INFO] BACKUP_ON_START enabled, writing backup now")
		go sched.RunBackupNow()
	}

	log.Println("[INFO] PoolTracker is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] http shutdown: %v", err)
	}
	cancel()
	log.Println("[INFO] PoolTracker stopped")
}
