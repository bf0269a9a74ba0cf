package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"redcrm-backend/internal/usecase"
)

// ReminderWorker periodically fires the next-day worker reminders.
type ReminderWorker struct {
	interval time.Duration
	remindUC usecase.ReminderUseCase
	log      *zerolog.Logger
}

func NewReminderWorker(interval time.Duration, remindUC usecase.ReminderUseCase, logger *zerolog.Logger) *ReminderWorker {
	compLog := logger.With().Str("component", "ReminderWorker").Logger()
	return &ReminderWorker{
		interval: interval,
		remindUC: remindUC,
		log:      &compLog,
	}
}

func (w *ReminderWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting reminder worker")
	// Run once on startup, then on every tick
	w.runCheck(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping reminder worker")
			return ctx.Err()
		case <-ticker.C:
			w.runCheck(ctx)
		}
	}
}

func (w *ReminderWorker) runCheck(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	sent, err := w.remindUC.SendTomorrowReminders(runCtx)
	if err != nil {
		w.log.Error().Err(err).Msg("reminder check failed")
	}
	if sent > 0 {
		w.log.Info().Int("count", sent).Msg("worker reminders sent")
	}
}
