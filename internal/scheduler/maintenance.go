package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/kotoba/internal/admin"
	"github.com/mrlokans/kotoba/internal/logger"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// Renumberer renumbers every lesson inline.
type Renumberer interface {
	RenumberAll(ctx context.Context) (*admin.RenumberResult, error)
}

// Enqueuer hands bulk renumbering to the task queue.
type Enqueuer interface {
	EnqueueRenumberAll() (string, error)
}

// MaintenanceScheduler periodically renumbers lesson vocabulary. When a task
// queue is available the job is enqueued, otherwise it runs in the cron
// goroutine.
type MaintenanceScheduler struct {
	renumberer Renumberer
	enqueuer   Enqueuer
	schedule   string
	log        *logger.Logger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewMaintenanceScheduler creates a new scheduler instance. enqueuer may be nil.
func NewMaintenanceScheduler(renumberer Renumberer, enqueuer Enqueuer, schedule string, log *logger.Logger) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		renumberer: renumberer,
		enqueuer:   enqueuer,
		schedule:   schedule,
		log:        log,
		cron:       cron.New(cron.WithParser(parser)),
	}
}

// Start registers the job and starts the cron loop. Cancelling ctx stops it.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runRenumber(runCtx)
	})
	if err != nil {
		cancel()
		return fmt.Errorf("failed to schedule maintenance job: %w", err)
	}
	s.entryID = entryID
	s.cancelFunc = cancel

	s.cron.Start()
	s.isRunning = true

	next := s.cron.Entry(entryID).Next
	s.log.Info("maintenance scheduler started", "schedule", s.schedule, "next_run", next)

	go func(done <-chan struct{}) {
		<-done
		s.Stop()
	}(runCtx.Done())

	return nil
}

// Stop waits for a running job and stops the scheduler.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.cron.Remove(s.entryID)

	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	s.log.Info("maintenance scheduler stopped")
}

// RunNow triggers the job immediately in the background.
func (s *MaintenanceScheduler) RunNow() {
	go s.runRenumber(context.Background())
}

func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the job runs next, or nil when stopped.
func (s *MaintenanceScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	t := s.cron.Entry(s.entryID).Next
	return &t
}

func (s *MaintenanceScheduler) runRenumber(ctx context.Context) {
	if s.enqueuer != nil {
		id, err := s.enqueuer.EnqueueRenumberAll()
		if err != nil {
			s.log.Error("maintenance: failed to enqueue renumbering", "error", err)
			return
		}
		s.log.Info("maintenance: renumbering enqueued", "task_id", id)
		return
	}

	start := time.Now()
	result, err := s.renumberer.RenumberAll(ctx)
	if err != nil {
		s.log.Error("maintenance: renumbering failed", "error", err)
		return
	}
	s.log.Info("maintenance: renumbering finished",
		"lessons", result.Lessons,
		"written", result.Written,
		"failed", len(result.Failed),
		"duration", time.Since(start).Round(time.Millisecond),
	)
}
