package telegram

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/gotd/td/tg"
	"github.com/rs/zerolog"

	"redcrm-backend/internal/domain"
	"redcrm-backend/internal/domain/model"
	"redcrm-backend/internal/domain/ports/adapter"
	"redcrm-backend/internal/infra/logging"
	"redcrm-backend/internal/infra/metrics"
)

// SessionProvider yields a connected API client bound to the caller's
// execution slot, holding the session-store lock for the duration of fn.
type SessionProvider interface {
	WithSession(ctx context.Context, fn func(ctx context.Context, api adapter.TelegramAPI) error) error
}

// Dispatcher sends one telegram message to a phone number:
// normalize/validate, per-phone gate, session readiness, resolution, a
// single send. Every failure comes back as DeliveryResult data; the call
// never panics and never fails the caller.
type Dispatcher struct {
	sessions    SessionProvider
	resolver    *Resolver
	gate        *Gate
	callTimeout time.Duration
	log         *zerolog.Logger
	dev         bool
}

var _ adapter.MessageSender = (*Dispatcher)(nil)

func NewDispatcher(sessions SessionProvider, resolver *Resolver, callTimeout time.Duration, logger *zerolog.Logger, dev bool) *Dispatcher {
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}
	return &Dispatcher{
		sessions:    sessions,
		resolver:    resolver,
		gate:        NewGate(),
		callTimeout: callTimeout,
		log:         logging.Component(logger, "Dispatcher"),
		dev:         dev,
	}
}

func (d *Dispatcher) Send(ctx context.Context, phone, text string) model.DeliveryResult {
	start := time.Now()
	res, status := d.send(ctx, phone, text)
	metrics.IncDispatch(status)
	metrics.ObserveDispatchLatency(time.Since(start), res.OK)
	return res
}

func (d *Dispatcher) send(ctx context.Context, rawPhone, text string) (model.DeliveryResult, string) {
	phone := model.NormalizePhone(rawPhone)
	if !model.ValidatePhone(phone) {
		return model.DeliveryResult{Error: domain.ErrInvalidPhone.Error()}, statusInvalidPhone
	}

	// Non-blocking: a second send to the same number while one is in flight
	// is answered immediately, without touching the provider. Callers treat
	// it as "busy, retry later".
	if !d.gate.TryAcquire(phone) {
		return model.DeliveryResult{Error: domain.ErrBusy.Error()}, statusBusy
	}
	defer d.gate.Release(phone)

	var out model.DeliveryResult
	err := d.sessions.WithSession(ctx, func(sctx context.Context, api adapter.TelegramAPI) error {
		id, err := d.resolver.Resolve(sctx, api, phone)
		if err != nil {
			return err
		}

		callCtx, cancel := context.WithTimeout(sctx, d.callTimeout)
		defer cancel()
		_, err = api.MessagesSendMessage(callCtx, &tg.MessagesSendMessageRequest{
			Peer:     &tg.InputPeerUser{UserID: id.UserID, AccessHash: id.AccessHash},
			Message:  text,
			RandomID: rand.Int63(),
		})
		if err != nil {
			return fmt.Errorf("send message: %w", err)
		}

		out = model.DeliveryResult{OK: true, RemoteUserID: id.UserID, Username: id.Username}
		return nil
	})
	if err != nil {
		status, msg := classifyError(err)
		d.log.Error().Err(err).
			Str("phone", logging.RedactPhone(phone, d.dev)).
			Str("status", status).
			Msg("send failed")
		return model.DeliveryResult{Error: msg}, status
	}

	d.log.Info().
		Str("phone", logging.RedactPhone(phone, d.dev)).
		Int64("telegram_user_id", out.RemoteUserID).
		Msg("message sent")
	return out, statusSuccess
}
