package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"PoolTracker/internal/calculator"
	"PoolTracker/internal/notifier"
	"PoolTracker/internal/tracker"
)

// Scheduler manages the cron tasks around the ledger: periodic snapshot
// backups and the weekly record reminder.
type Scheduler struct {
	Cron      *cron.Cron
	Tracker   *tracker.Manager
	Notifier  *notifier.Telegram
	BackupDir string
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, tm *tracker.Manager, tn *notifier.Telegram, backupDir string) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Tracker:   tm,
		Notifier:  tn,
		BackupDir: backupDir,
		Ctx:       ctx,
	}
}

// RegisterAll registers the backup and reminder tasks.
func (s *Scheduler) RegisterAll(backupCron, reminderCron string) error {
	if _, err := s.Cron.AddFunc(backupCron, s.backupTask); err != nil {
		return fmt.Errorf("register backup task: %w", err)
	}
	if _, err := s.Cron.AddFunc(reminderCron, s.reminderTask); err != nil {
		return fmt.Errorf("register reminder task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunBackupNow executes the backup task immediately (manual trigger).
func (s *Scheduler) RunBackupNow() (string, error) {
	return s.backup()
}

func (s *Scheduler) backupTask() {
	log.Println("[INFO] running scheduled backup")
	path, err := s.backup()
	if err != nil {
		log.Printf("[ERROR] scheduled backup: %v", err)
	}
	s.trySend(notifier.FormatBackupResult(path, err))
}

// backup exports the current ledger snapshot to a timestamped file.
func (s *Scheduler) backup() (string, error) {
	data, err := s.Tracker.Export()
	if err != nil {
		return "", fmt.Errorf("export ledger: %w", err)
	}
	if err := os.MkdirAll(s.BackupDir, 0755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	name := fmt.Sprintf("liquidity-pool-data-%s.json", time.Now().Format("2006-01-02"))
	path := filepath.Join(s.BackupDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	log.Printf("[INFO] ledger snapshot written: %s", path)
	return path, nil
}

func (s *Scheduler) reminderTask() {
	log.Println("[INFO] running weekly reminder")
	week := calculator.WeekNumber(time.Now())
	s.trySend(notifier.FormatReminder(week))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/kpi", "/summary":
		data := s.Tracker.Refresh()
		return notifier.FormatKPIReport(data.KPIs, len(data.Entries))
	case "/recent", "/weeks":
		data := s.Tracker.Refresh()
		return notifier.FormatRecentEntries(data.Entries, 8)
	case "/backup":
		path, err := s.backup()
		return notifier.FormatBackupResult(path, err)
	default:
		return "Commands:\n• /kpi — portfolio summary\n• /recent — last recorded weeks\n• /backup — save a snapshot now"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
