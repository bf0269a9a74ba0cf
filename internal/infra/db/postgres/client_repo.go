package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"redcrm-backend/internal/domain"
	"redcrm-backend/internal/domain/model"
	"redcrm-backend/internal/domain/ports/repository"
)

var _ repository.ClientRepository = (*clientRepo)(nil)

type clientRepo struct {
	pool *pgxpool.Pool
}

func NewClientRepo(pool *pgxpool.Pool) repository.ClientRepository {
	return &clientRepo{pool: pool}
}

func (r *clientRepo) Save(ctx context.Context, c *model.Client) error {
	const q = `
INSERT INTO clients (id, name, is_vip, is_archived, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
ON CONFLICT (id) DO UPDATE
  SET name        = EXCLUDED.name,
      is_vip      = EXCLUDED.is_vip,
      is_archived = EXCLUDED.is_archived,
      updated_at  = now()`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, q, c.ID, c.Name, c.VIP, c.Archived); err != nil {
		return fmt.Errorf("save client: %w", err)
	}

	// Phones are replaced wholesale; the set per client is tiny.
	if _, err := tx.Exec(ctx, `DELETE FROM client_phones WHERE client_id = $1`, c.ID); err != nil {
		return fmt.Errorf("clear client phones: %w", err)
	}
	const qp = `INSERT INTO client_phones (id, client_id, phone) VALUES ($1, $2, $3)`
	for _, p := range c.Phones {
		if _, err := tx.Exec(ctx, qp, p.ID, c.ID, p.Phone); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return fmt.Errorf("%w: phone %s", domain.ErrAlreadyExists, p.Phone)
			}
			return fmt.Errorf("save client phone: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *clientRepo) FindByID(ctx context.Context, id string) (*model.Client, error) {
	const q = `
SELECT id, name, is_vip, is_archived, created_at, updated_at
  FROM clients
 WHERE id = $1`

	var c model.Client
	row := r.pool.QueryRow(ctx, q, id)
	if err := row.Scan(&c.ID, &c.Name, &c.VIP, &c.Archived, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query client: %w", err)
	}

	phones, err := r.phonesOf(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Phones = phones
	return &c, nil
}

func (r *clientRepo) List(ctx context.Context, includeArchived bool) ([]*model.Client, error) {
	const q = `
SELECT id, name, is_vip, is_archived, created_at, updated_at
  FROM clients
 WHERE $1 OR NOT is_archived
 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, q, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var out []*model.Client
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.VIP, &c.Archived, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, c := range out {
		phones, err := r.phonesOf(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		c.Phones = phones
	}
	return out, nil
}

func (r *clientRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *clientRepo) phonesOf(ctx context.Context, clientID string) ([]model.ClientPhone, error) {
	const q = `SELECT id, client_id, phone FROM client_phones WHERE client_id = $1 ORDER BY phone`
	rows, err := r.pool.Query(ctx, q, clientID)
	if err != nil {
		return nil, fmt.Errorf("list client phones: %w", err)
	}
	defer rows.Close()

	var out []model.ClientPhone
	for rows.Next() {
		var p model.ClientPhone
		if err := rows.Scan(&p.ID, &p.ClientID, &p.Phone); err != nil {
			return nil, fmt.Errorf("scan client phone: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
