package usecase

import (
	"context"
	"sync"
	"time"

	"redcrm-backend/internal/domain"
	"redcrm-backend/internal/domain/model"
)

// Hand-rolled mocks for the repository and adapter ports.

type mockClientRepo struct {
	clients map[string]*model.Client
	saveErr error
}

func newMockClientRepo() *mockClientRepo {
	return &mockClientRepo{clients: make(map[string]*model.Client)}
}

func (m *mockClientRepo) Save(_ context.Context, c *model.Client) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.clients[c.ID] = c
	return nil
}

func (m *mockClientRepo) FindByID(_ context.Context, id string) (*model.Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (m *mockClientRepo) List(_ context.Context, includeArchived bool) ([]*model.Client, error) {
	var out []*model.Client
	for _, c := range m.clients {
		if c.Archived && !includeArchived {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *mockClientRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.clients[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.clients, id)
	return nil
}

type mockEventRepo struct {
	events  map[string]*model.Event
	byDate  []*model.Event
	logs    []*model.EventLog
	findErr error
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[string]*model.Event)}
}

func (m *mockEventRepo) Save(_ context.Context, e *model.Event) error {
	m.events[e.ID] = e
	return nil
}

func (m *mockEventRepo) FindByID(_ context.Context, id string) (*model.Event, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	e, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (m *mockEventRepo) FindByServiceDate(_ context.Context, _ time.Time) ([]*model.Event, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.byDate, nil
}

func (m *mockEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *mockEventRepo) AppendLog(_ context.Context, l *model.EventLog) error {
	m.logs = append(m.logs, l)
	return nil
}

func (m *mockEventRepo) ListLogs(_ context.Context, eventID string) ([]*model.EventLog, error) {
	var out []*model.EventLog
	for _, l := range m.logs {
		if l.EventID == eventID {
			out = append(out, l)
		}
	}
	return out, nil
}

type mockMessageLogRepo struct {
	mu      sync.Mutex
	saved   []*model.MessageLog
	saveErr error
}

func (m *mockMessageLogRepo) Save(_ context.Context, l *model.MessageLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, l)
	return nil
}

func (m *mockMessageLogRepo) ListByEvent(_ context.Context, eventID, kind string) ([]*model.MessageLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.MessageLog
	for _, l := range m.saved {
		if l.EventID == eventID && (kind == "" || l.Kind == kind) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockMessageLogRepo) ListByKind(_ context.Context, kind string, _ int) ([]*model.MessageLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.MessageLog
	for _, l := range m.saved {
		if l.Kind == kind {
			out = append(out, l)
		}
	}
	return out, nil
}

// mockSender records every dispatched phone/body and answers from results,
// falling back to success.
type mockSender struct {
	mu      sync.Mutex
	phones  []string
	bodies  []string
	results map[string]model.DeliveryResult
}

func newMockSender() *mockSender {
	return &mockSender{results: make(map[string]model.DeliveryResult)}
}

func (m *mockSender) Send(_ context.Context, phone, text string) model.DeliveryResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phones = append(m.phones, phone)
	m.bodies = append(m.bodies, text)
	if r, ok := m.results[phone]; ok {
		return r
	}
	return model.DeliveryResult{OK: true, RemoteUserID: 1}
}

// mockDispatch bypasses the worker pool and calls the sender inline.
type mockDispatch struct {
	sender *mockSender
	calls  []string // "eventID|phone|kind"
	err    error
}

func (m *mockDispatch) SendText(ctx context.Context, eventID, phone, body, kind string) (model.DeliveryResult, error) {
	if m.err != nil {
		return model.DeliveryResult{}, m.err
	}
	m.calls = append(m.calls, eventID+"|"+phone+"|"+kind)
	return m.sender.Send(ctx, model.NormalizePhone(phone), body), nil
}
