package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"redcrm-backend/internal/domain/model"
	"redcrm-backend/internal/domain/ports/repository"
)

var _ repository.MessageLogRepository = (*messageLogRepo)(nil)

type messageLogRepo struct {
	pool *pgxpool.Pool
}

func NewMessageLogRepo(pool *pgxpool.Pool) repository.MessageLogRepository {
	return &messageLogRepo{pool: pool}
}

func (r *messageLogRepo) Save(ctx context.Context, l *model.MessageLog) error {
	const q = `
INSERT INTO message_logs (id, event_id, phone, kind, status, error_text, body, telegram_user_id, sent_at)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, NULLIF($8, 0), $9)`

	if _, err := r.pool.Exec(ctx, q,
		l.ID, l.EventID, l.Phone, l.Kind, l.Status, l.ErrorText, l.Body, l.RemoteUserID, l.SentAt); err != nil {
		return fmt.Errorf("save message log: %w", err)
	}
	return nil
}

func (r *messageLogRepo) ListByEvent(ctx context.Context, eventID, kind string) ([]*model.MessageLog, error) {
	const q = `
SELECT id, COALESCE(event_id, ''), phone, kind, status, error_text, body, COALESCE(telegram_user_id, 0), sent_at
  FROM message_logs
 WHERE event_id = $1 AND ($2 = '' OR kind = $2)
 ORDER BY sent_at DESC`

	return r.query(ctx, q, eventID, kind)
}

func (r *messageLogRepo) ListByKind(ctx context.Context, kind string, limit int) ([]*model.MessageLog, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `
SELECT id, COALESCE(event_id, ''), phone, kind, status, error_text, body, COALESCE(telegram_user_id, 0), sent_at
  FROM message_logs
 WHERE kind = $1
 ORDER BY sent_at DESC
 LIMIT $2`

	return r.query(ctx, q, kind, limit)
}

func (r *messageLogRepo) query(ctx context.Context, q string, args ...interface{}) ([]*model.MessageLog, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query message logs: %w", err)
	}
	defer rows.Close()

	var out []*model.MessageLog
	for rows.Next() {
		var l model.MessageLog
		if err := rows.Scan(&l.ID, &l.EventID, &l.Phone, &l.Kind, &l.Status,
			&l.ErrorText, &l.Body, &l.RemoteUserID, &l.SentAt); err != nil {
			return nil, fmt.Errorf("scan message log: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}
