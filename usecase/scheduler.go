package usecase

import (
	"context"
	"fmt"
	"time"

	"comment-insight/domain/model"
	"comment-insight/infrastructure/logger"
)

const (
	DefaultBatchIntervalDays = 5
	DefaultBatchAt           = "02:00"
)

// BatchRunner is the part of the use case the scheduler drives
type BatchRunner interface {
	AnalyzeBatch(ctx context.Context) (*model.BatchResult, error)
}

// BatchScheduler triggers a batch analysis every intervalDays at a fixed local time.
// Overlap with HTTP-triggered batches is not prevented.
type BatchScheduler struct {
	runner       BatchRunner
	intervalDays int
	at           string
	runOnStart   bool
	now          func() time.Time
}

func NewBatchScheduler(runner BatchRunner, intervalDays int, at string, runOnStart bool) *BatchScheduler {
	if intervalDays <= 0 {
		intervalDays = DefaultBatchIntervalDays
	}
	if at == "" {
		at = DefaultBatchAt
	}
	return &BatchScheduler{
		runner:       runner,
		intervalDays: intervalDays,
		at:           at,
		runOnStart:   runOnStart,
		now:          time.Now,
	}
}

// NextRun returns when the next batch is due. Before any run it is the next
// occurrence of at; afterwards it is at on the day intervalDays after last,
// or the next occurrence of at when that moment has already passed.
func NextRun(now, last time.Time, intervalDays int, at string) (time.Time, error) {
	hour, minute, err := parseClock(at)
	if err != nil {
		return time.Time{}, err
	}
	if !last.IsZero() {
		day := last.In(now.Location()).AddDate(0, 0, intervalDays)
		due := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())
		if due.After(now) {
			return due, nil
		}
	}
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next, nil
}

func parseClock(at string) (int, int, error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid batch time %q: %w", at, model.ErrInvalidInput)
	}
	return t.Hour(), t.Minute(), nil
}

// Run blocks until ctx is cancelled
func (s *BatchScheduler) Run(ctx context.Context) error {
	log := logger.GetLogger().WithFields(map[string]interface{}{
		"interval_days": s.intervalDays,
		"at":            s.at,
	})
	if _, _, err := parseClock(s.at); err != nil {
		return err
	}

	var last time.Time
	if s.runOnStart {
		log.Info("running batch analysis on start")
		last = s.now()
		s.runBatch(ctx)
	}

	for {
		next, err := NextRun(s.now(), last, s.intervalDays, s.at)
		if err != nil {
			return err
		}
		log.WithField("next_run", next.Format(time.RFC3339)).Info("batch analysis scheduled")

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info("batch scheduler stopped")
			return nil
		case <-timer.C:
		}
		last = s.now()
		s.runBatch(ctx)
	}
}

func (s *BatchScheduler) runBatch(ctx context.Context) {
	log := logger.GetLogger()
	result, err := s.runner.AnalyzeBatch(ctx)
	if err != nil {
		log.WithError(err).Error("batch analysis failed")
		return
	}
	log.WithFields(map[string]interface{}{
		"total":      result.TotalURLs,
		"successful": result.Successful,
		"failed":     result.Failed,
	}).Info(result.Message)
}
