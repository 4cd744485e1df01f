package scheduler

import (
	"time"

	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Sweeper is the part of SessionService the sweeper drives.
type Sweeper interface {
	Sweep(idle time.Duration) int
	Active() int
}

var _ Sweeper = (service.SessionService)(nil)

// SessionSweeper periodically evicts idle session carts from memory.
// Evicted carts are reloaded from the store on the next request.
type SessionSweeper struct {
	cron     *cron.Cron
	sessions Sweeper
	schedule string
	idle     time.Duration
}

// NewSessionSweeper creates a sweeper. schedule is a cron spec or a
// descriptor such as "@every 10m".
func NewSessionSweeper(sessions Sweeper, schedule string, idle time.Duration) *SessionSweeper {
	return &SessionSweeper{
		cron:     cron.New(),
		sessions: sessions,
		schedule: schedule,
		idle:     idle,
	}
}

// Start registers the sweep job and starts the scheduler
func (s *SessionSweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.RunOnce); err != nil {
		logger.Error("Failed to add cron job for session sweep", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Session sweeper started", map[string]interface{}{
		"schedule": s.schedule,
		"idle_ttl": s.idle.String(),
	})
	return nil
}

// RunOnce evicts carts idle for longer than the configured TTL.
func (s *SessionSweeper) RunOnce() {
	evicted := s.sessions.Sweep(s.idle)
	if evicted == 0 {
		return
	}
	logger.Info("Idle sessions evicted", map[string]interface{}{
		"evicted": evicted,
		"active":  s.sessions.Active(),
	})
}

// Stop waits for a running sweep to finish
func (s *SessionSweeper) Stop() {
	logger.Info("Stopping session sweeper...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Session sweeper stopped", nil)
}
