package scheduler

import (
	"strconv"
	"sync"
	"time"

	"github.com/DanielKramer/PropNest/internal/pkg/database"
	"github.com/DanielKramer/PropNest/internal/pkg/env"
	"github.com/DanielKramer/PropNest/internal/pkg/subscription"
	"github.com/gofiber/fiber/v2/log"
)

// Manager drives the periodic lifecycle work: the daily subscription sweep
// and the hourly trial reminder scan. It is the in-process replacement for an
// external cron; both jobs are safe to re-run at any cadence.
type Manager struct {
	sweepTicker    *time.Ticker
	reminderTicker *time.Ticker
	stopCh         chan struct{}
	wg             sync.WaitGroup
	mu             sync.Mutex
	running        bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global scheduler manager (singleton)
func GetManager() *Manager {
	managerOnce.Do(func() {
		globalManager = &Manager{
			stopCh: make(chan struct{}),
		}
	})
	return globalManager
}

// Start starts the background lifecycle workers
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so manager can be restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[Scheduler] Starting lifecycle workers")

	sweepInterval := intervalFromEnv("LIFECYCLE_SWEEP_INTERVAL_MINUTES", 24*60)
	m.sweepTicker = time.NewTicker(sweepInterval)
	m.wg.Add(1)
	go m.sweepWorker(sweepInterval)

	reminderInterval := intervalFromEnv("TRIAL_REMINDER_INTERVAL_MINUTES", 60)
	m.reminderTicker = time.NewTicker(reminderInterval)
	m.wg.Add(1)
	go m.reminderWorker(reminderInterval)

	log.Info("[Scheduler] Started successfully")
}

// Stop stops the background lifecycle workers
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[Scheduler] Stopping lifecycle workers...")

	if m.sweepTicker != nil {
		m.sweepTicker.Stop()
	}
	if m.reminderTicker != nil {
		m.reminderTicker.Stop()
	}

	close(m.stopCh)
	m.running = false

	m.wg.Wait()

	log.Info("[Scheduler] Stopped successfully")
}

// IsRunning returns whether the manager is currently running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// sweepWorker runs the scheduled subscription sweep on its interval
func (m *Manager) sweepWorker(interval time.Duration) {
	defer m.wg.Done()
	log.Infof("[Scheduler] Started sweep worker (interval: %s)", interval)

	for {
		select {
		case <-m.stopCh:
			log.Info("[Scheduler] Sweep worker stopping")
			return
		case <-m.sweepTicker.C:
			m.RunSweepOnce()
		}
	}
}

// reminderWorker runs the trial reminder scan on its interval
func (m *Manager) reminderWorker(interval time.Duration) {
	defer m.wg.Done()
	log.Infof("[Scheduler] Started reminder worker (interval: %s)", interval)

	for {
		select {
		case <-m.stopCh:
			log.Info("[Scheduler] Reminder worker stopping")
			return
		case <-m.reminderTicker.C:
			m.RunRemindersOnce()
		}
	}
}

// RunSweepOnce executes a single lifecycle sweep. Also used by the admin
// manual trigger.
func (m *Manager) RunSweepOnce() subscription.SweepReport {
	svc := subscription.NewServiceFromDB(database.GetDB())
	return svc.RunScheduledSweep()
}

// RunRemindersOnce executes a single trial reminder scan. Also used by the
// admin manual trigger.
func (m *Manager) RunRemindersOnce() int {
	scanner := subscription.NewReminderScannerFromDB(database.GetDB())
	sent, err := scanner.Run()
	if err != nil {
		log.Errorf("[Scheduler] Reminder scan finished with error: %v", err)
	}
	return sent
}

func intervalFromEnv(key string, defMinutes int) time.Duration {
	minutes := defMinutes
	if raw := env.GetEnv(key, ""); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			minutes = v
		}
	}
	return time.Duration(minutes) * time.Minute
}
