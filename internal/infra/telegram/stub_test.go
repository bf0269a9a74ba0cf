package telegram

import (
	"context"

	"github.com/gotd/td/tg"

	"redcrm-backend/internal/domain/ports/adapter"
)

// stubAPI is a counting TelegramAPI double. Behavior is configured per call
// kind; every call increments its counter.
type stubAPI struct {
	importResult *tg.ContactsImportedContacts
	importErr    error
	getUsers     []tg.UserClass
	getUsersErr  error
	sendErr      error
	deleteErr    error

	importCalls  int
	getUserCalls int
	sendCalls    int
	deleteCalls  int
}

func (s *stubAPI) ContactsImportContacts(_ context.Context, _ []tg.InputPhoneContact) (*tg.ContactsImportedContacts, error) {
	s.importCalls++
	if s.importErr != nil {
		return nil, s.importErr
	}
	if s.importResult != nil {
		return s.importResult, nil
	}
	return &tg.ContactsImportedContacts{}, nil
}

func (s *stubAPI) ContactsDeleteContacts(_ context.Context, _ []tg.InputUserClass) (tg.UpdatesClass, error) {
	s.deleteCalls++
	if s.deleteErr != nil {
		return nil, s.deleteErr
	}
	return &tg.Updates{}, nil
}

func (s *stubAPI) UsersGetUsers(_ context.Context, _ []tg.InputUserClass) ([]tg.UserClass, error) {
	s.getUserCalls++
	if s.getUsersErr != nil {
		return nil, s.getUsersErr
	}
	return s.getUsers, nil
}

func (s *stubAPI) MessagesSendMessage(_ context.Context, _ *tg.MessagesSendMessageRequest) (tg.UpdatesClass, error) {
	s.sendCalls++
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	return &tg.Updates{}, nil
}

func stubUser(id, hash int64, username string) *tg.User {
	u := &tg.User{ID: id, FirstName: "Test"}
	u.SetAccessHash(hash)
	if username != "" {
		u.SetUsername(username)
	}
	return u
}

func importedOne(u *tg.User) *tg.ContactsImportedContacts {
	return &tg.ContactsImportedContacts{
		Imported: []tg.ImportedContact{{UserID: u.ID}},
		Users:    []tg.UserClass{u},
	}
}

// stubSessions hands fn a fixed API, optionally blocking until released so
// tests can hold a send in flight.
type stubSessions struct {
	api     adapter.TelegramAPI
	err     error
	entered chan struct{} // closed-on-use signal, optional
	release chan struct{} // fn waits for this when set
}

func (s *stubSessions) WithSession(ctx context.Context, fn func(ctx context.Context, api adapter.TelegramAPI) error) error {
	if s.err != nil {
		return s.err
	}
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	return fn(ctx, s.api)
}
