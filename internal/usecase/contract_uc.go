package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"redcrm-backend/internal/domain"
	"redcrm-backend/internal/domain/model"
	"redcrm-backend/internal/domain/ports/repository"
	"redcrm-backend/internal/infra/logging"
)

// Compile-time check
var _ ContractUseCase = (*contractUC)(nil)

// ContractUseCase sends the contract and advance notifications for an event
// to every phone of the event's client, and exposes the per-event message
// history.
type ContractUseCase interface {
	SendContract(ctx context.Context, eventID string) ([]model.DeliveryResult, error)
	SendAdvanceNotice(ctx context.Context, eventID string) ([]model.DeliveryResult, error)
	ListMessageLogs(ctx context.Context, eventID, kind string) ([]*model.MessageLog, error)
}

type contractUC struct {
	events   repository.EventRepository
	logs     repository.MessageLogRepository
	dispatch DispatchUseCase
	log      *zerolog.Logger
}

func NewContractUseCase(events repository.EventRepository, logs repository.MessageLogRepository, dispatch DispatchUseCase, logger *zerolog.Logger) *contractUC {
	return &contractUC{events: events, logs: logs, dispatch: dispatch, log: logging.Component(logger, "ContractUC")}
}

func (u *contractUC) SendContract(ctx context.Context, eventID string) ([]model.DeliveryResult, error) {
	return u.sendToClient(ctx, eventID, model.MessageKindContract, renderContract)
}

func (u *contractUC) SendAdvanceNotice(ctx context.Context, eventID string) ([]model.DeliveryResult, error) {
	return u.sendToClient(ctx, eventID, model.MessageKindAdvance, renderAdvanceNotice)
}

func (u *contractUC) sendToClient(ctx context.Context, eventID, kind string, render func(*model.Event) string) ([]model.DeliveryResult, error) {
	e, err := u.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if e.Client == nil || len(e.Client.Phones) == 0 {
		return nil, fmt.Errorf("%w: event client has no phone numbers", domain.ErrInvalidInput)
	}

	body := render(e)
	results := make([]model.DeliveryResult, 0, len(e.Client.Phones))
	sent := 0
	for _, p := range e.Client.Phones {
		res, err := u.dispatch.SendText(ctx, eventID, p.Phone, body, kind)
		if err != nil {
			return results, err
		}
		if res.OK {
			sent++
		}
		results = append(results, res)
	}

	if err := u.events.AppendLog(ctx, &model.EventLog{
		ID:      uuid.NewString(),
		EventID: eventID,
		Message: fmt.Sprintf("%s sent to %d of %d client phones", kind, sent, len(e.Client.Phones)),
	}); err != nil {
		u.log.Error().Err(err).Str("event_id", eventID).Msg("failed to append event log")
	}

	return results, nil
}

func (u *contractUC) ListMessageLogs(ctx context.Context, eventID, kind string) ([]*model.MessageLog, error) {
	return u.logs.ListByEvent(ctx, eventID, kind)
}
