package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"redcrm-backend/internal/domain"
	"redcrm-backend/internal/domain/model"
	"redcrm-backend/internal/domain/ports/repository"
)

var _ repository.WorkerRepository = (*workerRepo)(nil)

type workerRepo struct {
	pool *pgxpool.Pool
}

func NewWorkerRepo(pool *pgxpool.Pool) repository.WorkerRepository {
	return &workerRepo{pool: pool}
}

func (r *workerRepo) Save(ctx context.Context, w *model.Worker) error {
	const q = `
INSERT INTO workers (id, name, phone, sort_order, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
ON CONFLICT (id) DO UPDATE
  SET name       = EXCLUDED.name,
      phone      = EXCLUDED.phone,
      sort_order = EXCLUDED.sort_order,
      updated_at = now()`

	if _, err := r.pool.Exec(ctx, q, w.ID, w.Name, w.Phone, w.Order); err != nil {
		return fmt.Errorf("save worker: %w", err)
	}
	return nil
}

func (r *workerRepo) FindByID(ctx context.Context, id string) (*model.Worker, error) {
	const q = `
SELECT id, name, phone, sort_order, created_at, updated_at
  FROM workers
 WHERE id = $1`

	var w model.Worker
	row := r.pool.QueryRow(ctx, q, id)
	if err := row.Scan(&w.ID, &w.Name, &w.Phone, &w.Order, &w.CreatedAt, &w.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query worker: %w", err)
	}
	return &w, nil
}

func (r *workerRepo) List(ctx context.Context) ([]*model.Worker, error) {
	const q = `
SELECT id, name, phone, sort_order, created_at, updated_at
  FROM workers
 ORDER BY sort_order, name`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	defer rows.Close()

	var out []*model.Worker
	for rows.Next() {
		var w model.Worker
		if err := rows.Scan(&w.ID, &w.Name, &w.Phone, &w.Order, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan worker: %w", err)
		}
		out = append(out, &w)
	}
	return out, rows.Err()
}

// UpdateOrder persists the manual UI ordering: position in ids becomes
// sort_order.
func (r *workerRepo) UpdateOrder(ctx context.Context, ids []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const q = `UPDATE workers SET sort_order = $2, updated_at = now() WHERE id = $1`
	for i, id := range ids {
		if _, err := tx.Exec(ctx, q, id, i); err != nil {
			return fmt.Errorf("update worker order: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *workerRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM workers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete worker: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
