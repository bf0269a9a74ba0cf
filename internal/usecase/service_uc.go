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
var _ ServiceUseCase = (*serviceUC)(nil)

type ServiceUseCase interface {
	Save(ctx context.Context, s *model.Service) error
	List(ctx context.Context) ([]*model.Service, error)
	UpdateOrder(ctx context.Context, ids []string) error
	Delete(ctx context.Context, id string) error
}

type serviceUC struct {
	services repository.ServiceRepository
}

func NewServiceUseCase(services repository.ServiceRepository) *serviceUC {
	return &serviceUC{services: services}
}

func (u *serviceUC) Save(ctx context.Context, s *model.Service) error {
	if s.Name == "" {
		return fmt.Errorf("%w: service name is required", domain.ErrInvalidInput)
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Color == "" {
		s.Color = "#FFFFFF"
	}
	return u.services.Save(ctx, s)
}

func (u *serviceUC) List(ctx context.Context) ([]*model.Service, error) {
	return u.services.List(ctx)
}

func (u *serviceUC) UpdateOrder(ctx context.Context, ids []string) error {
	return u.services.UpdateOrder(ctx, ids)
}

func (u *serviceUC) Delete(ctx context.Context, id string) error {
	return u.services.Delete(ctx, id)
}
