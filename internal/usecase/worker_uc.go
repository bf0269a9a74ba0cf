package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"redcrm-backend/internal/domain"
	"redcrm-backend/internal/domain/model"
	"redcrm-backend/internal/domain/ports/repository"
)

// Compile-time check
var _ WorkerUseCase = (*workerUC)(nil)

type WorkerUseCase interface {
	Save(ctx context.Context, w *model.Worker) error
	List(ctx context.Context) ([]*model.Worker, error)
	UpdateOrder(ctx context.Context, ids []string) error
	Delete(ctx context.Context, id string) error
}

type workerUC struct {
	workers repository.WorkerRepository
}

func NewWorkerUseCase(workers repository.WorkerRepository) *workerUC {
	return &workerUC{workers: workers}
}

func (u *workerUC) Save(ctx context.Context, w *model.Worker) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.Name == "" {
		return fmt.Errorf("%w: worker name is required", domain.ErrInvalidInput)
	}
	phone := model.NormalizePhone(w.Phone)
	if !model.ValidatePhone(phone) {
		return fmt.Errorf("%w: %s", domain.ErrInvalidPhone, w.Phone)
	}
	w.Phone = phone
	return u.workers.Save(ctx, w)
}

func (u *workerUC) List(ctx context.Context) ([]*model.Worker, error) {
	return u.workers.List(ctx)
}

func (u *workerUC) UpdateOrder(ctx context.Context, ids []string) error {
	return u.workers.UpdateOrder(ctx, ids)
}

func (u *workerUC) Delete(ctx context.Context, id string) error {
	return u.workers.Delete(ctx, id)
}
