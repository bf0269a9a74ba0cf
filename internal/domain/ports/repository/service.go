package repository

import (
	"context"

	"redcrm-backend/internal/domain/model"
)

type ServiceRepository interface {
	Save(ctx context.Context, s *model.Service) error
	List(ctx context.Context) ([]*model.Service, error)
	UpdateOrder(ctx context.Context, ids []string) error
	Delete(ctx context.Context, id string) error
}
