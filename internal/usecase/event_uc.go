package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"redcrm-backend/internal/domain"
	"redcrm-backend/internal/domain/model"
	"redcrm-backend/internal/domain/ports/repository"
)

// Compile-time check
var _ EventUseCase = (*eventUC)(nil)

type EventUseCase interface {
	Save(ctx context.Context, e *model.Event) error
	Get(ctx context.Context, id string) (*model.Event, error)
	Delete(ctx context.Context, id string) error
	ListLogs(ctx context.Context, eventID string) ([]*model.EventLog, error)
}

type eventUC struct {
	events repository.EventRepository
}

func NewEventUseCase(events repository.EventRepository) *eventUC {
	return &eventUC{events: events}
}

func (u *eventUC) Save(ctx context.Context, e *model.Event) error {
	if e.ClientID == "" {
		return fmt.Errorf("%w: event requires a client", domain.ErrInvalidInput)
	}
	if e.Advance > e.Amount {
		return fmt.Errorf("%w: advance exceeds total amount", domain.ErrInvalidInput)
	}
	if e.Amount < 0 || e.Advance < 0 {
		return fmt.Errorf("%w: negative amount", domain.ErrInvalidInput)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	for i := range e.Devices {
		if e.Devices[i].ID == "" {
			e.Devices[i].ID = uuid.NewString()
		}
		e.Devices[i].EventID = e.ID
	}
	return u.events.Save(ctx, e)
}

func (u *eventUC) Get(ctx context.Context, id string) (*model.Event, error) {
	return u.events.FindByID(ctx, id)
}

func (u *eventUC) Delete(ctx context.Context, id string) error {
	return u.events.Delete(ctx, id)
}

func (u *eventUC) ListLogs(ctx context.Context, eventID string) ([]*model.EventLog, error) {
	return u.events.ListLogs(ctx, eventID)
}
