package repository

import (
	"context"

	"redcrm-backend/internal/domain/model"
)

type MessageLogRepository interface {
	Save(ctx context.Context, l *model.MessageLog) error
	ListByEvent(ctx context.Context, eventID, kind string) ([]*model.MessageLog, error)
	ListByKind(ctx context.Context, kind string, limit int) ([]*model.MessageLog, error)
}
