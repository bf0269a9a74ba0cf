package usecase

import (
	"context"
	"errors"
	"testing"

	"redcrm-backend/internal/domain"
	"redcrm-backend/internal/domain/model"
)

func TestClientUC_SaveNormalizesPhones(t *testing.T) {
	repo := newMockClientRepo()
	uc := NewClientUseCase(repo)

	c := &model.Client{
		Name: "Aziza",
		Phones: []model.ClientPhone{
			{Phone: "99 890-414-0184"},
			{Phone: "935551122"},
		},
	}
	if err := uc.Save(context.Background(), c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if c.ID == "" {
		t.Error("Save should assign an id")
	}
	saved := repo.clients[c.ID]
	if saved.Phones[0].Phone != "+998904140184" || saved.Phones[1].Phone != "+998935551122" {
		t.Errorf("phones not canonical: %+v", saved.Phones)
	}
	for _, p := range saved.Phones {
		if p.ID == "" || p.ClientID != c.ID {
			t.Errorf("phone row not linked: %+v", p)
		}
	}
}

func TestClientUC_SaveRejectsBadPhone(t *testing.T) {
	uc := NewClientUseCase(newMockClientRepo())

	c := &model.Client{Name: "Aziza", Phones: []model.ClientPhone{{Phone: "12345"}}}
	err := uc.Save(context.Background(), c)

	if !errors.Is(err, domain.ErrInvalidPhone) {
		t.Errorf("expected ErrInvalidPhone, got %v", err)
	}
}

func TestClientUC_ListFiltersArchived(t *testing.T) {
	repo := newMockClientRepo()
	repo.clients["a"] = &model.Client{ID: "a", Name: "Active"}
	repo.clients["b"] = &model.Client{ID: "b", Name: "Gone", Archived: true}
	uc := NewClientUseCase(repo)

	visible, err := uc.List(context.Background(), false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != "a" {
		t.Errorf("expected only the active client, got %+v", visible)
	}

	all, err := uc.List(context.Background(), true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected both clients, got %d", len(all))
	}
}
