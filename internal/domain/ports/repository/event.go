package repository

import (
	"context"
	"time"

	"redcrm-backend/internal/domain/model"
)

type EventRepository interface {
	Save(ctx context.Context, e *model.Event) error
	FindByID(ctx context.Context, id string) (*model.Event, error)
	// FindByServiceDate returns events having at least one device scheduled on
	// the given day, with devices and their workers populated. Used by the
	// next-day worker reminders.
	FindByServiceDate(ctx context.Context, day time.Time) ([]*model.Event, error)
	Delete(ctx context.Context, id string) error

	AppendLog(ctx context.Context, l *model.EventLog) error
	ListLogs(ctx context.Context, eventID string) ([]*model.EventLog, error)
}
