package scheduler

import (
	"github.com/hbenali/sunduq-backend/internal/events"
	"github.com/hbenali/sunduq-backend/internal/service"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs the periodic interest-due check. Interest application
// itself stays a manual admin action; the scheduler only surfaces that a
// year has elapsed.
type Scheduler struct {
	cron      *cron.Cron
	interest  *service.InterestService
	publisher events.Publisher
	spec      string
}

// New creates a Scheduler that checks on the given cron spec
func New(interest *service.InterestService, publisher events.Publisher, spec string) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		interest:  interest,
		publisher: publisher,
		spec:      spec,
	}
}

// Start registers the interest-due job and starts the cron loop
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.checkInterestDue); err != nil {
		return err
	}
	s.cron.Start()
	log.Info().Str("spec", s.spec).Msg("Scheduler started")
	return nil
}

// Stop stops the cron loop without waiting for running jobs
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Info().Msg("Scheduler stopped")
}

func (s *Scheduler) checkInterestDue() {
	due, err := s.interest.InterestDue()
	if err != nil {
		log.Error().Err(err).Msg("Interest due check failed")
		return
	}
	if !due {
		return
	}

	log.Info().Msg("Annual interest application is due")
	if s.publisher != nil {
		s.publisher.Publish(events.InterestDue(nil))
	}
}
