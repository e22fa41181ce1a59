package monitoring

import (
	"time"

	"github.com/clmgranada/intensivo-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler closes attendance records left open past the configured cron
// schedule, so students who forget to check out still get a bounded
// session.
type Scheduler struct {
	attendance services.AttendanceServiceProvider
	schedule   cron.Schedule
	nextRun    time.Time
	ticker     *time.Ticker
	done       chan bool
}

// NewScheduler creates a scheduler from a standard cron spec.
func NewScheduler(attendance services.AttendanceServiceProvider, cronSpec string) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(cronSpec)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		attendance: attendance,
		schedule:   schedule,
		nextRun:    schedule.Next(time.Now()),
		done:       make(chan bool),
	}, nil
}

// Run starts the scheduler's ticking loop.
func (s *Scheduler) Run() {
	log.Info().Time("next_run", s.nextRun).Msg("Starting attendance housekeeping scheduler")
	s.ticker = time.NewTicker(1 * time.Minute)
	defer s.ticker.Stop()

	for {
		select {
		case <-s.done:
			log.Info().Msg("Stopping attendance housekeeping scheduler")
			return
		case <-s.ticker.C:
			if time.Now().After(s.nextRun) {
				s.closeOpenRecords()
				s.nextRun = s.schedule.Next(time.Now())
			}
		}
	}
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	s.done <- true
}

func (s *Scheduler) closeOpenRecords() {
	closed, err := s.attendance.CloseOpenRecords()
	if err != nil {
		log.Error().Err(err).Msg("Failed to close open attendance records")
		return
	}
	if closed > 0 {
		log.Info().Int64("closed", closed).Msg("Closed open attendance records")
	}
}
