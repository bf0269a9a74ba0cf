package repository

import (
	"context"

	"redcrm-backend/internal/domain/model"
)

type ClientRepository interface {
	Save(ctx context.Context, c *model.Client) error
	FindByID(ctx context.Context, id string) (*model.Client, error)
	List(ctx context.Context, includeArchived bool) ([]*model.Client, error)
	Delete(ctx context.Context, id string) error
}
