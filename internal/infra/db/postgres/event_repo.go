package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"redcrm-backend/internal/domain"
	"redcrm-backend/internal/domain/model"
	"redcrm-backend/internal/domain/ports/repository"
)

var _ repository.EventRepository = (*eventRepo)(nil)

type eventRepo struct {
	pool    *pgxpool.Pool
	clients repository.ClientRepository
}

func NewEventRepo(pool *pgxpool.Pool, clients repository.ClientRepository) repository.EventRepository {
	return &eventRepo{pool: pool, clients: clients}
}

func (r *eventRepo) Save(ctx context.Context, e *model.Event) error {
	const q = `
INSERT INTO events (id, client_id, amount, amount_usd, advance, advance_usd, computers, comment, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
ON CONFLICT (id) DO UPDATE
  SET amount      = EXCLUDED.amount,
      amount_usd  = EXCLUDED.amount_usd,
      advance     = EXCLUDED.advance,
      advance_usd = EXCLUDED.advance_usd,
      computers   = EXCLUDED.computers,
      comment     = EXCLUDED.comment,
      updated_at  = now()`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, q, e.ID, e.ClientID, e.Amount, e.AmountUSD, e.Advance, e.AdvanceUSD, e.Computers, e.Comment); err != nil {
		return fmt.Errorf("save event: %w", err)
	}

	// Devices are replaced wholesale, matching how the frontend submits them.
	if _, err := tx.Exec(ctx, `DELETE FROM devices WHERE event_id = $1`, e.ID); err != nil {
		return fmt.Errorf("clear devices: %w", err)
	}
	const qd = `
INSERT INTO devices (id, event_id, service_id, restaurant_name, service_date, camera_count, comment)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	const qw = `INSERT INTO device_workers (device_id, worker_id) VALUES ($1, $2)`
	for _, d := range e.Devices {
		if _, err := tx.Exec(ctx, qd, d.ID, e.ID, d.ServiceID, d.Restaurant, d.ServiceDate, d.CameraCount, d.Comment); err != nil {
			return fmt.Errorf("save device: %w", err)
		}
		for _, w := range d.Workers {
			if _, err := tx.Exec(ctx, qw, d.ID, w.ID); err != nil {
				return fmt.Errorf("save device worker: %w", err)
			}
		}
	}

	return tx.Commit(ctx)
}

func (r *eventRepo) FindByID(ctx context.Context, id string) (*model.Event, error) {
	const q = `
SELECT id, client_id, amount, amount_usd, advance, advance_usd, computers, comment, created_at, updated_at
  FROM events
 WHERE id = $1`

	var e model.Event
	row := r.pool.QueryRow(ctx, q, id)
	if err := row.Scan(&e.ID, &e.ClientID, &e.Amount, &e.AmountUSD, &e.Advance, &e.AdvanceUSD,
		&e.Computers, &e.Comment, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query event: %w", err)
	}

	client, err := r.clients.FindByID(ctx, e.ClientID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	e.Client = client

	devices, err := r.devicesOf(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	e.Devices = devices
	return &e, nil
}

// FindByServiceDate returns events having at least one device on the given
// day, devices and workers included. Time-of-day is ignored.
func (r *eventRepo) FindByServiceDate(ctx context.Context, day time.Time) ([]*model.Event, error) {
	const q = `
SELECT DISTINCT e.id
  FROM events e
  JOIN devices d ON d.event_id = e.id
 WHERE d.service_date = $1::date`

	rows, err := r.pool.Query(ctx, q, day.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("query events by date: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan event id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*model.Event, 0, len(ids))
	for _, id := range ids {
		e, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *eventRepo) Delete(ctx context.Context, id string) error {
	// devices and logs go with the event via ON DELETE CASCADE
	ct, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepo) AppendLog(ctx context.Context, l *model.EventLog) error {
	const q = `INSERT INTO event_logs (id, event_id, message, created_at) VALUES ($1, $2, $3, now())`
	if _, err := r.pool.Exec(ctx, q, l.ID, l.EventID, l.Message); err != nil {
		return fmt.Errorf("append event log: %w", err)
	}
	return nil
}

func (r *eventRepo) ListLogs(ctx context.Context, eventID string) ([]*model.EventLog, error) {
	const q = `
SELECT id, event_id, message, created_at
  FROM event_logs
 WHERE event_id = $1
 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, q, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event logs: %w", err)
	}
	defer rows.Close()

	var out []*model.EventLog
	for rows.Next() {
		var l model.EventLog
		if err := rows.Scan(&l.ID, &l.EventID, &l.Message, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event log: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

func (r *eventRepo) devicesOf(ctx context.Context, eventID string) ([]model.Device, error) {
	const q = `
SELECT d.id, d.event_id, d.service_id, s.name, d.restaurant_name, d.service_date, d.camera_count, d.comment
  FROM devices d
  JOIN services s ON s.id = d.service_id
 WHERE d.event_id = $1
 ORDER BY d.service_date NULLS LAST`

	rows, err := r.pool.Query(ctx, q, eventID)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()

	var out []model.Device
	for rows.Next() {
		var d model.Device
		if err := rows.Scan(&d.ID, &d.EventID, &d.ServiceID, &d.ServiceName, &d.Restaurant,
			&d.ServiceDate, &d.CameraCount, &d.Comment); err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const qw = `
SELECT w.id, w.name, w.phone, w.sort_order, w.created_at, w.updated_at
  FROM device_workers dw
  JOIN workers w ON w.id = dw.worker_id
 WHERE dw.device_id = $1
 ORDER BY w.sort_order`
	for i := range out {
		wrows, err := r.pool.Query(ctx, qw, out[i].ID)
		if err != nil {
			return nil, fmt.Errorf("list device workers: %w", err)
		}
		for wrows.Next() {
			var w model.Worker
			if err := wrows.Scan(&w.ID, &w.Name, &w.Phone, &w.Order, &w.CreatedAt, &w.UpdatedAt); err != nil {
				wrows.Close()
				return nil, fmt.Errorf("scan device worker: %w", err)
			}
			out[i].Workers = append(out[i].Workers, w)
		}
		err = wrows.Err()
		wrows.Close()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
