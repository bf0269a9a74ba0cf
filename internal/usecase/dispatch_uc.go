package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"redcrm-backend/internal/domain/model"
	"redcrm-backend/internal/domain/ports/adapter"
	"redcrm-backend/internal/domain/ports/repository"
	"redcrm-backend/internal/infra/logging"
	"redcrm-backend/internal/infra/worker"
)

// Compile-time check
var _ DispatchUseCase = (*dispatchUC)(nil)

// DispatchUseCase runs telegram sends on the dispatch worker pool and
// persists a MessageLog for every attempt that reached the dispatcher.
// Each pool worker owns one telegram session, so routing sends through the
// pool is what keeps sessions bound to a single execution slot.
type DispatchUseCase interface {
	SendText(ctx context.Context, eventID, phone, body, kind string) (model.DeliveryResult, error)
}

type dispatchUC struct {
	sender adapter.MessageSender
	pool   *worker.Pool
	logs   repository.MessageLogRepository
	log    *zerolog.Logger
}

func NewDispatchUseCase(sender adapter.MessageSender, pool *worker.Pool, logs repository.MessageLogRepository, logger *zerolog.Logger) *dispatchUC {
	return &dispatchUC{sender: sender, pool: pool, logs: logs, log: logging.Component(logger, "DispatchUC")}
}

// SendText blocks until the send finishes or ctx is done. The task itself
// runs on a pool worker with the pool's base context, so an impatient HTTP
// caller does not abort a send already in flight.
func (u *dispatchUC) SendText(ctx context.Context, eventID, phone, body, kind string) (model.DeliveryResult, error) {
	canonical := model.NormalizePhone(phone)
	resCh := make(chan model.DeliveryResult, 1)

	err := u.pool.Submit(func(wctx context.Context) error {
		res := u.sender.Send(wctx, canonical, body)

		rec := model.NewMessageLog(uuid.NewString(), eventID, canonical, kind, body, res)
		if err := u.logs.Save(wctx, rec); err != nil {
			// the delivery outcome is still reported to the caller
			u.log.Error().Err(err).Str("kind", kind).Msg("failed to persist message log")
		}

		resCh <- res
		return nil
	})
	if err != nil {
		if errors.Is(err, worker.ErrQueueFull) {
			return model.DeliveryResult{Error: "dispatch queue is full, retry later"}, nil
		}
		return model.DeliveryResult{}, err
	}

	select {
	case res := <-resCh:
		return res, nil
	case <-ctx.Done():
		return model.DeliveryResult{}, ctx.Err()
	}
}
