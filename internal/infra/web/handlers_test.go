package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"redcrm-backend/internal/domain"
	"redcrm-backend/internal/domain/model"
)

type stubClientUC struct {
	saved  *model.Client
	client *model.Client
}

func (s *stubClientUC) Save(_ context.Context, c *model.Client) error {
	c.ID = "cl-1"
	s.saved = c
	return nil
}

func (s *stubClientUC) Get(_ context.Context, id string) (*model.Client, error) {
	if s.client == nil || s.client.ID != id {
		return nil, domain.ErrNotFound
	}
	return s.client, nil
}

func (s *stubClientUC) List(_ context.Context, _ bool) ([]*model.Client, error) { return nil, nil }
func (s *stubClientUC) Delete(_ context.Context, _ string) error               { return nil }

type stubContractUC struct {
	results []model.DeliveryResult
	err     error
	eventID string
}

func (s *stubContractUC) SendContract(_ context.Context, eventID string) ([]model.DeliveryResult, error) {
	s.eventID = eventID
	return s.results, s.err
}

func (s *stubContractUC) SendAdvanceNotice(_ context.Context, eventID string) ([]model.DeliveryResult, error) {
	s.eventID = eventID
	return s.results, s.err
}

func (s *stubContractUC) ListMessageLogs(_ context.Context, _, _ string) ([]*model.MessageLog, error) {
	return nil, nil
}

type stubReminderUC struct{ sent int }

func (s *stubReminderUC) SendTomorrowReminders(_ context.Context) (int, error) { return s.sent, nil }

func newTestServer(clientUC *stubClientUC, contractUC *stubContractUC, reminderUC *stubReminderUC) http.Handler {
	nop := zerolog.Nop()
	s := NewServer(clientUC, nil, nil, nil, contractUC, reminderUC, "test-key", &nop)
	return s.Router()
}

func authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer test-key")
	return req
}

func TestAuthMiddleware(t *testing.T) {
	h := newTestServer(&stubClientUC{}, &stubContractUC{}, &stubReminderUC{})

	testCases := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"No Header", "", http.StatusUnauthorized},
		{"Malformed", "test-key", http.StatusUnauthorized},
		{"Wrong Scheme", "Basic test-key", http.StatusUnauthorized},
		{"Wrong Key", "Bearer nope", http.StatusForbidden},
		{"Valid", "Bearer test-key", http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/clients/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}

func TestAuthMiddleware_NoKeyConfigured(t *testing.T) {
	nop := zerolog.Nop()
	s := NewServer(&stubClientUC{}, nil, nil, nil, &stubContractUC{}, &stubReminderUC{}, "", &nop)
	h := s.Router()

	req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/clients/", nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 when no api key is configured", rec.Code)
	}
}

func TestHealthz_NoAuthNeeded(t *testing.T) {
	h := newTestServer(&stubClientUC{}, &stubContractUC{}, &stubReminderUC{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestSaveClient(t *testing.T) {
	uc := &stubClientUC{}
	h := newTestServer(uc, &stubContractUC{}, &stubReminderUC{})

	body := `{"name":"Aziza","phones":["+998904140184"]}`
	req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/clients/", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if uc.saved == nil || uc.saved.Name != "Aziza" || len(uc.saved.Phones) != 1 {
		t.Errorf("unexpected saved client: %+v", uc.saved)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["id"] != "cl-1" {
		t.Errorf("response id = %q", resp["id"])
	}
}

func TestSaveClient_BadJSON(t *testing.T) {
	h := newTestServer(&stubClientUC{}, &stubContractUC{}, &stubReminderUC{})

	req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/clients/", strings.NewReader("{")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetClient_NotFound(t *testing.T) {
	h := newTestServer(&stubClientUC{}, &stubContractUC{}, &stubReminderUC{})

	req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/clients/missing", nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSendContract(t *testing.T) {
	uc := &stubContractUC{results: []model.DeliveryResult{
		{OK: true, RemoteUserID: 42, Username: "anna"},
		{Error: "recipient not registered on telegram"},
	}}
	h := newTestServer(&stubClientUC{}, uc, &stubReminderUC{})

	req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/events/ev-1/send_contract", nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if uc.eventID != "ev-1" {
		t.Errorf("eventID = %q, want ev-1", uc.eventID)
	}
	var resp struct {
		Results []model.DeliveryResult `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 2 || !resp.Results[0].OK || resp.Results[1].OK {
		t.Errorf("unexpected results: %+v", resp.Results)
	}
	if resp.Results[1].Error != "recipient not registered on telegram" {
		t.Errorf("unexpected error text: %q", resp.Results[1].Error)
	}
}

func TestNotifyWorkers(t *testing.T) {
	h := newTestServer(&stubClientUC{}, &stubContractUC{}, &stubReminderUC{sent: 3})

	req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/workers/notify", nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["sent"] != 3 {
		t.Errorf("sent = %d, want 3", resp["sent"])
	}
}
