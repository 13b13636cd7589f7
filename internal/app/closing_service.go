// internal/app/closing_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"period_scheduler/internal/app/businessday"
	"period_scheduler/internal/app/daterange"
	"period_scheduler/internal/domain/period"
	"period_scheduler/internal/infra/checkpoint"
	idb "period_scheduler/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// ClosingService detects dates that close a reporting period and records them.
type ClosingService struct {
	repo     period.Repository
	notifier *Notifier
	logger   *logrus.Entry
}

func NewClosingService(repo period.Repository, notifier *Notifier, logger *logrus.Entry) *ClosingService {
	return &ClosingService{repo: repo, notifier: notifier, logger: logger}
}

// ProcessDate classifies date against every period kind and makes sure a
// closing exists for each kind it closes. It is idempotent: closings already
// stored are returned as they are. Weekly and monthly closings that are new
// are announced through the notifier.
func (s *ClosingService) ProcessDate(ctx context.Context, date time.Time) ([]*period.Closing, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	logCtx := s.logger.WithField("date", day.Format("2006-01-02"))

	var closings []*period.Closing
	for _, kind := range period.Kinds {
		start, ok := businessday.FirstDayIfLastBusinessDay(kind, day)
		if !ok {
			continue
		}
		closing, created, err := s.ensureClosing(ctx, kind, start, day)
		if err != nil {
			logCtx.WithError(err).WithField("kind", kind).Error("Failed to record period closing")
			return closings, err
		}
		closings = append(closings, closing)

		if created {
			logCtx.WithFields(logrus.Fields{"kind": kind, "period_start": start.Format("2006-01-02")}).Info("Period closing recorded")
			if kind != period.Daily {
				s.notifier.Notify(fmt.Sprintf("%s period %s to %s closes today.", kind, start.Format("2006-01-02"), day.Format("2006-01-02")))
			}
		}
	}
	if len(closings) == 0 {
		logCtx.Debug("Date closes no period")
	}
	return closings, nil
}

func (s *ClosingService) ensureClosing(ctx context.Context, kind period.Kind, start, day time.Time) (*period.Closing, bool, error) {
	existing, err := s.repo.GetClosing(ctx, kind, day)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, idb.ErrClosingNotFound) {
		return nil, false, fmt.Errorf("failed to check existing %s closing: %w", kind, err)
	}

	closing := &period.Closing{Kind: kind, PeriodStart: start, ClosingDate: day}
	if err := s.repo.CreateClosing(ctx, closing); err != nil {
		if errors.Is(err, idb.ErrDuplicateClosing) {
			// Another run inserted it between the lookup and the insert.
			existing, getErr := s.repo.GetClosing(ctx, kind, day)
			if getErr != nil {
				return nil, false, fmt.Errorf("failed to reload duplicate %s closing: %w", kind, getErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create %s closing: %w", kind, err)
	}
	return closing, true, nil
}

// Backfill walks it and processes every date it produces. Progress is kept in
// store, so an interrupted backfill resumes at the window it stopped in.
func (s *ClosingService) Backfill(ctx context.Context, it *daterange.Iterator, store *checkpoint.Store) error {
	logCtx := s.logger.WithField("mode", it.Mode().String())
	logCtx.Info("Starting closing backfill")

	processed := 0
	err := checkpoint.Run(ctx, store, it.All(), func(ctx context.Context, _ int, w daterange.Window) error {
		for _, day := range w.Days() {
			if _, err := s.ProcessDate(ctx, day); err != nil {
				return fmt.Errorf("backfill failed at %s: %w", day.Format("2006-01-02"), err)
			}
			processed++
		}
		return nil
	})
	if err != nil {
		logCtx.WithError(err).WithField("days_processed", processed).Error("Closing backfill interrupted")
		return err
	}
	logCtx.WithField("days_processed", processed).Info("Closing backfill complete")
	return nil
}
