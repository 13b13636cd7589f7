package scheduler

import (
	"context"
	"time"

	"period_scheduler/internal/app"
	"period_scheduler/internal/app/trigger"
	"period_scheduler/internal/domain/recurrence"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// AnchorSchedule adapts a recurrence anchor to cron.Schedule.
type AnchorSchedule struct {
	Anchor recurrence.Anchor
}

// Next returns the zero time for Never anchors; cron never runs such an entry.
func (s AnchorSchedule) Next(t time.Time) time.Time {
	next, err := trigger.Next(t, s.Anchor)
	if err != nil || trigger.IsNever(next) {
		return time.Time{}
	}
	return next
}

type PeriodScheduler struct {
	cronEngine       *cron.Cron
	triggerService   *app.TriggerService
	closingService   *app.ClosingService
	jobs             []app.Job
	cronSpecClosings string // Runs on business days; the closing service decides what closes
	logger           *logrus.Entry
	now              func() time.Time
}

func NewPeriodScheduler(
	triggerService *app.TriggerService,
	closingService *app.ClosingService,
	jobs []app.Job,
	cronSpecClosings string, // e.g., "0 18 * * 1-5" (6 PM Monday to Friday)
	logger *logrus.Entry,
) *PeriodScheduler {
	return &PeriodScheduler{
		cronEngine:       cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		triggerService:   triggerService,
		closingService:   closingService,
		jobs:             jobs,
		cronSpecClosings: cronSpecClosings,
		logger:           logger,
		now:              time.Now,
	}
}

// Start registers all jobs and starts the cron engine. It fails without
// starting anything when a cron spec is invalid.
func (s *PeriodScheduler) Start() error {
	s.logger.Info("Starting period scheduler...")

	for _, job := range s.jobs {
		entryID := s.cronEngine.Schedule(AnchorSchedule{Anchor: job.Anchor}, cron.FuncJob(func() {
			s.fireJob(job)
		}))
		s.logger.WithFields(logrus.Fields{"job": job.Name, "anchor": job.Anchor.String(), "entry_id": entryID}).Info("Trigger job registered")
	}

	_, err := s.cronEngine.AddFunc(s.cronSpecClosings, s.checkClosings)
	if err != nil {
		s.logger.WithError(err).WithField("spec", s.cronSpecClosings).Error("Could not add closing check cron job")
		return err
	}

	s.cronEngine.Start()
	for _, entry := range s.cronEngine.Entries() {
		if !entry.Next.IsZero() {
			s.logger.WithFields(logrus.Fields{"entry_id": entry.ID, "next": entry.Next.Format("2006-01-02 15:04:05")}).Debug("Scheduled")
		}
	}
	s.logger.WithField("jobs", len(s.jobs)).Info("Period scheduler started.")
	return nil
}

func (s *PeriodScheduler) fireJob(job app.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute) // Context for the job
	defer cancel()
	if _, err := s.triggerService.Fire(ctx, job, s.now()); err != nil {
		s.logger.WithError(err).WithField("job", job.Name).Error("Trigger job failed")
	}
}

func (s *PeriodScheduler) checkClosings() {
	s.logger.Info("Cron job triggered for period closing check.")
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	closings, err := s.closingService.ProcessDate(ctx, s.now())
	if err != nil {
		s.logger.WithError(err).Error("Error during period closing check")
		return
	}
	s.logger.WithField("closings", len(closings)).Info("Period closing check done.")
}

func (s *PeriodScheduler) Stop() {
	s.logger.Info("Stopping period scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Period scheduler gracefully stopped.")
}
