// internal/app/trigger_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"period_scheduler/internal/app/trigger"
	"period_scheduler/internal/domain/period"
	"period_scheduler/internal/domain/recurrence"
	idb "period_scheduler/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// Job is a named recurrence read from configuration.
type Job struct {
	Name   string
	Anchor recurrence.Anchor
}

// TriggerService fires jobs and keeps their run history.
type TriggerService struct {
	repo     period.Repository
	notifier *Notifier
	logger   *logrus.Entry
}

func NewTriggerService(repo period.Repository, notifier *Notifier, logger *logrus.Entry) *TriggerService {
	return &TriggerService{repo: repo, notifier: notifier, logger: logger}
}

// Fire records that job ran at the given time and returns when it is due next.
func (s *TriggerService) Fire(ctx context.Context, job Job, at time.Time) (time.Time, error) {
	logCtx := s.logger.WithFields(logrus.Fields{"job": job.Name, "anchor": job.Anchor.String()})

	nextDue, err := trigger.Next(at, job.Anchor)
	if err != nil {
		logCtx.WithError(err).Error("Cannot compute next trigger")
		return time.Time{}, err
	}

	run := &period.TriggerRun{JobName: job.Name, Anchor: job.Anchor.String(), FiredAt: at, NextDue: nextDue}
	if err := s.repo.RecordRun(ctx, run); err != nil {
		logCtx.WithError(err).Error("Failed to record trigger run")
		return time.Time{}, fmt.Errorf("failed to record run of %s: %w", job.Name, err)
	}

	next := "never"
	if !trigger.IsNever(nextDue) {
		next = nextDue.Format("2006-01-02 15:04:05")
	}
	logCtx.WithField("next_due", next).Info("Trigger fired")
	s.notifier.Notify(fmt.Sprintf("%s fired at %s, next due %s.", job.Name, at.Format("2006-01-02 15:04:05"), next))
	return nextDue, nil
}

// CatchUp fires, once, every job whose next trigger after its last recorded
// run is already at or before now. Jobs without history are left to the
// scheduler. It returns the names of the jobs that were fired.
func (s *TriggerService) CatchUp(ctx context.Context, jobs []Job, now time.Time) ([]string, error) {
	var fired []string
	for _, job := range jobs {
		logCtx := s.logger.WithField("job", job.Name)

		last, err := s.repo.LastRun(ctx, job.Name)
		if errors.Is(err, idb.ErrRunNotFound) {
			logCtx.Debug("No run history; nothing to catch up")
			continue
		}
		if err != nil {
			return fired, fmt.Errorf("failed to load last run of %s: %w", job.Name, err)
		}

		// Stored timestamps come back in the database session zone; anchor
		// times are wall-clock times in the zone of now.
		due, err := trigger.Next(last.FiredAt.In(now.Location()), job.Anchor)
		if err != nil {
			return fired, err
		}
		if due.After(now) {
			logCtx.WithField("next_due", due.Format("2006-01-02 15:04:05")).Debug("Job is up to date")
			continue
		}

		logCtx.WithField("missed_due", due.Format("2006-01-02 15:04:05")).Warn("Trigger missed while stopped; firing now")
		if _, err := s.Fire(ctx, job, now); err != nil {
			return fired, err
		}
		fired = append(fired, job.Name)
	}
	return fired, nil
}
