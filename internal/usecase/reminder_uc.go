package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"redcrm-backend/internal/domain/model"
	"redcrm-backend/internal/domain/ports/repository"
	"redcrm-backend/internal/infra/logging"
)

// Compile-time check
var _ ReminderUseCase = (*reminderUC)(nil)

// ReminderUseCase notifies workers about tomorrow's assignments.
type ReminderUseCase interface {
	// SendTomorrowReminders returns how many reminders were delivered.
	SendTomorrowReminders(ctx context.Context) (int, error)
}

type reminderUC struct {
	events   repository.EventRepository
	dispatch DispatchUseCase
	now      func() time.Time
	log      *zerolog.Logger
}

func NewReminderUseCase(events repository.EventRepository, dispatch DispatchUseCase, logger *zerolog.Logger) *reminderUC {
	return &reminderUC{events: events, dispatch: dispatch, now: time.Now, log: logging.Component(logger, "ReminderUC")}
}

func (u *reminderUC) SendTomorrowReminders(ctx context.Context) (int, error) {
	tomorrow := u.now().AddDate(0, 0, 1)
	events, err := u.events.FindByServiceDate(ctx, tomorrow)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, e := range events {
		// one reminder per worker per event, even when assigned to several devices
		notified := make(map[string]bool)
		for i := range e.Devices {
			d := &e.Devices[i]
			if d.ServiceDate == nil || !sameDay(*d.ServiceDate, tomorrow) {
				continue
			}
			body := renderWorkerReminder(d)
			for _, w := range d.Workers {
				if w.Phone == "" || notified[w.Phone] {
					continue
				}
				notified[w.Phone] = true
				res, err := u.dispatch.SendText(ctx, e.ID, w.Phone, body, model.MessageKindReminder)
				if err != nil {
					return sent, err
				}
				if res.OK {
					sent++
				} else {
					u.log.Warn().
						Str("event_id", e.ID).
						Str("worker", w.Name).
						Str("reason", res.Error).
						Msg("worker reminder not delivered")
				}
			}
		}
	}
	return sent, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
