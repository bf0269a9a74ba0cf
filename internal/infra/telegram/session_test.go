package telegram

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"redcrm-backend/internal/config"
	"redcrm-backend/internal/domain"
	"redcrm-backend/internal/domain/ports/adapter"
)

func TestSessionManager_MissingCredentials(t *testing.T) {
	testCases := []struct {
		name string
		cfg  config.TelegramConfig
	}{
		{"No API Credentials", config.TelegramConfig{}},
		{"No Session Or Phone", config.TelegramConfig{APIID: 1, APIHash: "h"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			nop := zerolog.Nop()
			m := NewSessionManager(tc.cfg, &nop)
			defer m.Close()

			err := m.WithSession(context.Background(), func(_ context.Context, _ adapter.TelegramAPI) error {
				t.Fatal("fn must not run without credentials")
				return nil
			})

			if !errors.Is(err, domain.ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestSessionManager_BadSessionString(t *testing.T) {
	nop := zerolog.Nop()
	m := NewSessionManager(config.TelegramConfig{
		APIID:         1,
		APIHash:       "h",
		SessionString: "not a telethon session",
	}, &nop)
	defer m.Close()

	err := m.WithSession(context.Background(), func(_ context.Context, _ adapter.TelegramAPI) error {
		t.Fatal("fn must not run with an undecodable session")
		return nil
	})

	if err == nil {
		t.Error("expected decode error")
	}
}
