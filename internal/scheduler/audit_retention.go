// Package scheduler runs periodic maintenance jobs for the catalog.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/openshelf/catalog/internal/audit"
	"github.com/openshelf/catalog/internal/config"
)

// AuditRetentionScheduler periodically prunes audit events older than the
// configured retention window.
type AuditRetentionScheduler struct {
	auditService *audit.Service
	cfg          config.Audit

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

func NewAuditRetentionScheduler(auditService *audit.Service, cfg config.Audit) *AuditRetentionScheduler {
	return &AuditRetentionScheduler{
		auditService: auditService,
		cfg:          cfg,
		cron:         cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler. A non-positive retention disables pruning.
func (s *AuditRetentionScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.cfg.RetentionDays <= 0 {
		log.Printf("Audit retention scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.cfg.PruneSchedule, func() {
		s.runPrune()
	})
	if err != nil {
		return fmt.Errorf("invalid prune schedule '%s': %w", s.cfg.PruneSchedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Audit retention scheduler: started with schedule '%s', retention %d days",
		s.cfg.PruneSchedule, s.cfg.RetentionDays)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the scheduler and waits for a running prune to finish.
func (s *AuditRetentionScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	log.Printf("Audit retention scheduler: stopped")
}

// RunNow triggers an immediate prune.
func (s *AuditRetentionScheduler) RunNow() {
	go s.runPrune()
}

// IsRunning returns whether the scheduler is active.
func (s *AuditRetentionScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next prune will occur.
func (s *AuditRetentionScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *AuditRetentionScheduler) runPrune() {
	retention := time.Duration(s.cfg.RetentionDays) * 24 * time.Hour

	deleted, err := s.auditService.DeleteOldEvents(retention)
	if err != nil {
		log.Printf("Audit retention: prune failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Audit retention: pruned %d events older than %d days", deleted, s.cfg.RetentionDays)
	}
}
