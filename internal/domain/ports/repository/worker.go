package repository

import (
	"context"

	"redcrm-backend/internal/domain/model"
)

type WorkerRepository interface {
	Save(ctx context.Context, w *model.Worker) error
	FindByID(ctx context.Context, id string) (*model.Worker, error)
	List(ctx context.Context) ([]*model.Worker, error)
	UpdateOrder(ctx context.Context, ids []string) error
	Delete(ctx context.Context, id string) error
}
