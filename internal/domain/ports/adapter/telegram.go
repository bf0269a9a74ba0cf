package adapter

import (
	"context"

	"github.com/gotd/td/tg"

	"redcrm-backend/internal/domain/model"
)

// TelegramAPI is the slice of the MTProto RPC surface the dispatch core
// needs. *tg.Client satisfies it; tests substitute a counting stub.
type TelegramAPI interface {
	ContactsImportContacts(ctx context.Context, contacts []tg.InputPhoneContact) (*tg.ContactsImportedContacts, error)
	ContactsDeleteContacts(ctx context.Context, id []tg.InputUserClass) (tg.UpdatesClass, error)
	UsersGetUsers(ctx context.Context, id []tg.InputUserClass) ([]tg.UserClass, error)
	MessagesSendMessage(ctx context.Context, request *tg.MessagesSendMessageRequest) (tg.UpdatesClass, error)
}

// MessageSender is the single operation the rest of the system needs from
// the telegram subsystem. It never returns a Go error: every failure mode is
// carried inside the DeliveryResult.
type MessageSender interface {
	Send(ctx context.Context, phone, text string) model.DeliveryResult
}
