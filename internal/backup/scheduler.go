package backup

import (
	"log"
	"sync"
	"time"

	"medrelease/internal/model"
	"medrelease/internal/store"
)

// Scheduler runs automatic backups off the document's autoBackup policy.
// Restart is the only control surface: every settings change tears the
// running timer down and, when the policy is enabled, runs a catch-up
// backup if one is overdue before arming a fresh repeating timer.
type Scheduler struct {
	manager *Manager
	store   *store.Store

	mu   sync.Mutex
	stop chan struct{}
}

// NewScheduler returns a scheduler; nothing runs until Restart.
func NewScheduler(m *Manager, st *store.Store) *Scheduler {
	return &Scheduler{manager: m, store: st}
}

// Restart re-reads the policy and rebuilds the timer. The catch-up backup
// runs synchronously so a due snapshot is on disk before the ticker arms.
func (s *Scheduler) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}

	var cfg *model.AutoBackupConfig
	err := s.store.View(func(doc *model.Document) error {
		if doc.Settings != nil && doc.Settings.AutoBackup != nil {
			c := *doc.Settings.AutoBackup
			cfg = &c
		}
		return nil
	})
	if err != nil {
		log.Printf("backup scheduler: read settings failed: %v", err)
		return
	}
	if cfg == nil || !cfg.Enabled {
		log.Println("backup scheduler: automatic backups disabled")
		return
	}

	interval := 24 * time.Hour
	if cfg.Frequency == model.FrequencyWeekly {
		interval = 7 * 24 * time.Hour
	}

	if overdue(cfg.LastBackup, interval) {
		log.Println("backup scheduler: backup overdue, running catch-up")
		if _, err := s.manager.Create(true); err != nil {
			log.Printf("backup scheduler: catch-up backup failed: %v", err)
		}
	}

	stop := make(chan struct{})
	s.stop = stop
	go s.run(interval, stop)
	log.Printf("backup scheduler: armed %s timer", cfg.Frequency)
}

// Stop tears the timer down without rebuilding it.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

// overdue reports whether lastBackup is unset, unparseable, or at least
// one interval old.
func overdue(lastBackup string, interval time.Duration) bool {
	if lastBackup == "" {
		return true
	}
	last, err := time.Parse(time.RFC3339, lastBackup)
	if err != nil {
		return true
	}
	return time.Since(last) >= interval
}

func (s *Scheduler) run(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if _, err := s.manager.Create(true); err != nil {
				log.Printf("backup scheduler: automatic backup failed: %v", err)
			}
		case <-stop:
			return
		}
	}
}
