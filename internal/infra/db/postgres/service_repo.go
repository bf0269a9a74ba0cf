package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	"redcrm-backend/internal/domain"
	"redcrm-backend/internal/domain/model"
	"redcrm-backend/internal/domain/ports/repository"
)

var _ repository.ServiceRepository = (*serviceRepo)(nil)

type serviceRepo struct {
	pool *pgxpool.Pool
}

func NewServiceRepo(pool *pgxpool.Pool) repository.ServiceRepository {
	return &serviceRepo{pool: pool}
}

func (r *serviceRepo) Save(ctx context.Context, s *model.Service) error {
	const q = `
INSERT INTO services (id, name, color, is_active_camera, sort_order, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (id) DO UPDATE
  SET name             = EXCLUDED.name,
      color            = EXCLUDED.color,
      is_active_camera = EXCLUDED.is_active_camera,
      sort_order       = EXCLUDED.sort_order,
      updated_at       = now()`

	if _, err := r.pool.Exec(ctx, q, s.ID, s.Name, s.Color, s.ActiveCamera, s.Order); err != nil {
		var pgErr *pgconn.PgError
		// services.name carries a UNIQUE constraint
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: service %s", domain.ErrAlreadyExists, s.Name)
		}
		return fmt.Errorf("save service: %w", err)
	}
	return nil
}

func (r *serviceRepo) List(ctx context.Context) ([]*model.Service, error) {
	const q = `
SELECT id, name, color, is_active_camera, sort_order, created_at, updated_at
  FROM services
 ORDER BY sort_order, name`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var out []*model.Service
	for rows.Next() {
		var s model.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Color, &s.ActiveCamera, &s.Order, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *serviceRepo) UpdateOrder(ctx context.Context, ids []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const q = `UPDATE services SET sort_order = $2, updated_at = now() WHERE id = $1`
	for i, id := range ids {
		if _, err := tx.Exec(ctx, q, id, i); err != nil {
			return fmt.Errorf("update service order: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *serviceRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
