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
var _ ClientUseCase = (*clientUC)(nil)

type ClientUseCase interface {
	Save(ctx context.Context, c *model.Client) error
	Get(ctx context.Context, id string) (*model.Client, error)
	List(ctx context.Context, includeArchived bool) ([]*model.Client, error)
	Delete(ctx context.Context, id string) error
}

type clientUC struct {
	clients repository.ClientRepository
}

func NewClientUseCase(clients repository.ClientRepository) *clientUC {
	return &clientUC{clients: clients}
}

// Save normalizes client phones at the boundary; everything downstream sees
// canonical numbers only.
func (u *clientUC) Save(ctx context.Context, c *model.Client) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	for i := range c.Phones {
		p := model.NormalizePhone(c.Phones[i].Phone)
		if !model.ValidatePhone(p) {
			return fmt.Errorf("%w: %s", domain.ErrInvalidPhone, c.Phones[i].Phone)
		}
		c.Phones[i].Phone = p
		if c.Phones[i].ID == "" {
			c.Phones[i].ID = uuid.NewString()
		}
		c.Phones[i].ClientID = c.ID
	}
	return u.clients.Save(ctx, c)
}

func (u *clientUC) Get(ctx context.Context, id string) (*model.Client, error) {
	return u.clients.FindByID(ctx, id)
}

func (u *clientUC) List(ctx context.Context, includeArchived bool) ([]*model.Client, error) {
	return u.clients.List(ctx, includeArchived)
}

func (u *clientUC) Delete(ctx context.Context, id string) error {
	return u.clients.Delete(ctx, id)
}
