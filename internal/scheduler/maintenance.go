// Package scheduler runs the periodic library maintenance jobs: the hourly
// overdue-fine scan and the nightly purge of expired notifications. The jobs
// themselves run on the task queue; the scheduler only enqueues them.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/openshelf/openshelf/internal/config"
	"github.com/openshelf/openshelf/internal/tasks"
)

// TaskEnqueuer is the queue surface the scheduler needs.
type TaskEnqueuer interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
}

// MaintenanceScheduler enqueues maintenance tasks on their cron schedules.
type MaintenanceScheduler struct {
	client TaskEnqueuer
	cfg    config.Maintenance

	cron       *cron.Cron
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewMaintenanceScheduler creates a new scheduler instance.
func NewMaintenanceScheduler(client TaskEnqueuer, cfg config.Maintenance) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		client: client,
		cfg:    cfg,
		cron:   cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start registers the cron entries and begins scheduling.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.cfg.OverdueScanEnabled {
		_, err := s.cron.AddFunc(s.cfg.OverdueScanSchedule, func() {
			s.enqueue(tasks.OverdueScanTask{DailyRate: s.cfg.OverdueDailyRate})
		})
		if err != nil {
			return fmt.Errorf("failed to schedule overdue scan: %w", err)
		}
	} else {
		log.Printf("Maintenance scheduler: overdue scan disabled")
	}

	_, err := s.cron.AddFunc(s.cfg.PurgeSchedule, func() {
		s.enqueue(tasks.PurgeNotificationsTask{Retention: s.cfg.PurgeRetention})
	})
	if err != nil {
		return fmt.Errorf("failed to schedule notification purge: %w", err)
	}

	var stopCtx context.Context
	stopCtx, s.cancelFunc = context.WithCancel(context.Background())

	s.cron.Start()
	s.isRunning = true

	log.Printf("Maintenance scheduler: started (overdue scan '%s', purge '%s')",
		s.cfg.OverdueScanSchedule, s.cfg.PurgeSchedule)

	// Follow the parent context; a direct Stop() retires the watcher without
	// another Stop call so it cannot race a later restart.
	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-stopCtx.Done():
		}
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for in-flight enqueues.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}
	s.isRunning = false

	log.Printf("Maintenance scheduler: stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the next scheduled job fires.
func (s *MaintenanceScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	var next *time.Time
	for _, entry := range s.cron.Entries() {
		t := entry.Next
		if next == nil || t.Before(*next) {
			next = &t
		}
	}
	return next
}

// RunOverdueScanNow enqueues an immediate overdue scan.
func (s *MaintenanceScheduler) RunOverdueScanNow() {
	s.enqueue(tasks.OverdueScanTask{DailyRate: s.cfg.OverdueDailyRate})
}

func (s *MaintenanceScheduler) enqueue(task backlite.Task) {
	if _, err := s.client.Add(task).Save(); err != nil {
		log.Printf("Maintenance scheduler: failed to enqueue task: %v", err)
	}
}
