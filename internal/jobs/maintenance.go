package jobs

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/seid21/topia-estate-be/internal/services"
)

// Maintenance runs periodic housekeeping: purging expired password-reset
// tokens. The schedule is a standard cron expression from configuration.
type Maintenance struct {
	userSvc  services.UserServiceProvider
	schedule cron.Schedule
	ticker   *time.Ticker
	done     chan bool
	nextRun  time.Time
}

// NewMaintenance creates a maintenance runner for the given cron expression.
func NewMaintenance(userSvc services.UserServiceProvider, cronExpr string) (*Maintenance, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", cronExpr, err)
	}
	return &Maintenance{
		userSvc:  userSvc,
		schedule: schedule,
		done:     make(chan bool),
		nextRun:  schedule.Next(time.Now()),
	}, nil
}

// Run starts the maintenance ticking loop.
func (m *Maintenance) Run() {
	log.Info().Time("next_run", m.nextRun).Msg("Starting maintenance scheduler")
	m.ticker = time.NewTicker(30 * time.Second)
	defer m.ticker.Stop()

	for {
		select {
		case <-m.done:
			log.Info().Msg("Stopping maintenance scheduler")
			return
		case now := <-m.ticker.C:
			if now.After(m.nextRun) {
				m.runOnce()
				m.nextRun = m.schedule.Next(now)
			}
		}
	}
}

// Stop halts the maintenance loop.
func (m *Maintenance) Stop() {
	m.done <- true
}

func (m *Maintenance) runOnce() {
	purged, err := m.userSvc.PurgeExpiredResetTokens()
	if err != nil {
		log.Error().Err(err).Msg("Maintenance: failed to purge expired reset tokens")
		return
	}
	if purged > 0 {
		log.Info().Int64("purged", purged).Msg("Maintenance: cleared expired reset tokens")
	}
}
