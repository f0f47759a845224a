// Package scheduler runs periodic background jobs for a live session.
// The only job today is the automatic snapshot backup.
package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Backupper writes a ledger snapshot somewhere durable and returns
// its location.
type Backupper interface {
	WriteBackup() (string, error)
}

// Scheduler owns the background job loop.
type Scheduler struct {
	scheduler *gocron.Scheduler
	backup    Backupper
	every     time.Duration
}

// New creates a scheduler that backs up the ledger at the given
// interval.
func New(backup Backupper, every time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		backup:    backup,
		every:     every,
	}
}

// Start begins the backup job without blocking.
func (s *Scheduler) Start() {
	s.scheduler.Every(s.every).Do(s.runBackup)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled jobs.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) runBackup() {
	path, err := s.backup.WriteBackup()
	if err != nil {
		log.Printf("auto-backup failed: %v", err)
		return
	}
	log.Printf("auto-backup written to %s", path)
}
