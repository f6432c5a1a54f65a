package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/rreidmcg/guildfit/internal/engine"
)

// Scheduler triggers the daily atrophy sweep. How often decay applies is the
// engine's business; this package only owns the clock.
type Scheduler struct {
	scheduler *gocron.Scheduler
	svc       *engine.Service
	log       *logrus.Logger
}

func New(svc *engine.Service, log *logrus.Logger) *Scheduler {
	if log == nil {
		log = logrus.New()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		svc:       svc,
		log:       log,
	}
}

// Start schedules the sweep at the given local hour and runs it asynchronously.
func (s *Scheduler) Start(hour int) error {
	at := fmt.Sprintf("%02d:00", hour)
	if _, err := s.scheduler.Every(1).Day().At(at).Do(s.runSweep); err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}
	s.scheduler.StartAsync()
	s.log.WithField("at", at).Info("atrophy sweep scheduled")
	return nil
}

// Stop terminates all scheduled jobs.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) runSweep() {
	res, err := s.svc.ProcessAtrophy(context.Background())
	if err != nil {
		s.log.WithError(err).Error("atrophy sweep aborted")
		return
	}
	for _, f := range res.Failures {
		s.log.WithField("user", f.UserID).WithError(f.Err).Warn("atrophy skipped user")
	}
	s.log.WithFields(logrus.Fields{
		"scanned": res.Scanned,
		"decayed": res.Decayed,
	}).Info("atrophy sweep done")
}
