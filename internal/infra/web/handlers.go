package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"redcrm-backend/internal/domain"
	"redcrm-backend/internal/domain/model"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidPhone),
		errors.Is(err, domain.ErrAlreadyExists):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// ---- clients ----

type clientPayload struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	VIP      bool     `json:"is_vip"`
	Archived bool     `json:"is_archived"`
	Phones   []string `json:"phones"`
}

func (s *Server) saveClient(w http.ResponseWriter, r *http.Request) {
	var p clientPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	c := &model.Client{ID: p.ID, Name: p.Name, VIP: p.VIP, Archived: p.Archived}
	for _, phone := range p.Phones {
		c.Phones = append(c.Phones, model.ClientPhone{Phone: phone})
	}
	if err := s.clientUC.Save(r.Context(), c); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": c.ID})
}

func (s *Server) getClient(w http.ResponseWriter, r *http.Request) {
	c, err := s.clientUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) listClients(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("archived") == "true"
	clients, err := s.clientUC.List(r.Context(), includeArchived)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (s *Server) deleteClient(w http.ResponseWriter, r *http.Request) {
	if err := s.clientUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- workers ----

type workerPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Order int    `json:"order"`
}

func (s *Server) saveWorker(w http.ResponseWriter, r *http.Request) {
	var p workerPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	wk := &model.Worker{ID: p.ID, Name: p.Name, Phone: p.Phone, Order: p.Order}
	if err := s.workerUC.Save(r.Context(), wk); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": wk.ID})
}

func (s *Server) listWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := s.workerUC.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workers)
}

type orderPayload struct {
	IDs []string `json:"ids"`
}

func (s *Server) orderWorkers(w http.ResponseWriter, r *http.Request) {
	var p orderPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := s.workerUC.UpdateOrder(r.Context(), p.IDs); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteWorker(w http.ResponseWriter, r *http.Request) {
	if err := s.workerUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// notifyWorkers triggers the next-day reminders manually, outside the
// scheduler tick.
func (s *Server) notifyWorkers(w http.ResponseWriter, r *http.Request) {
	sent, err := s.reminderUC.SendTomorrowReminders(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"sent": sent})
}

// ---- services ----

type servicePayload struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Color        string `json:"color"`
	ActiveCamera bool   `json:"is_active_camera"`
	Order        int    `json:"order"`
}

func (s *Server) saveService(w http.ResponseWriter, r *http.Request) {
	var p servicePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	svc := &model.Service{ID: p.ID, Name: p.Name, Color: p.Color, ActiveCamera: p.ActiveCamera, Order: p.Order}
	if err := s.serviceUC.Save(r.Context(), svc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": svc.ID})
}

func (s *Server) listServices(w http.ResponseWriter, r *http.Request) {
	services, err := s.serviceUC.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

func (s *Server) orderServices(w http.ResponseWriter, r *http.Request) {
	var p orderPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := s.serviceUC.UpdateOrder(r.Context(), p.IDs); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteService(w http.ResponseWriter, r *http.Request) {
	if err := s.serviceUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- events ----

type devicePayload struct {
	ID          string   `json:"id"`
	ServiceID   string   `json:"service_id"`
	Restaurant  string   `json:"restaurant_name"`
	ServiceDate string   `json:"service_date"` // YYYY-MM-DD
	CameraCount int      `json:"camera_count"`
	Comment     string   `json:"comment"`
	WorkerIDs   []string `json:"worker_ids"`
}

type eventPayload struct {
	ID         string          `json:"id"`
	ClientID   string          `json:"client_id"`
	Amount     int64           `json:"amount"`
	AmountUSD  bool            `json:"amount_usd"`
	Advance    int64           `json:"advance"`
	AdvanceUSD bool            `json:"advance_usd"`
	Computers  int             `json:"computers"`
	Comment    string          `json:"comment"`
	Devices    []devicePayload `json:"devices"`
}

func (s *Server) saveEvent(w http.ResponseWriter, r *http.Request) {
	var p eventPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	e := &model.Event{
		ID:         p.ID,
		ClientID:   p.ClientID,
		Amount:     p.Amount,
		AmountUSD:  p.AmountUSD,
		Advance:    p.Advance,
		AdvanceUSD: p.AdvanceUSD,
		Computers:  p.Computers,
		Comment:    p.Comment,
	}
	for _, dp := range p.Devices {
		d := model.Device{
			ID:          dp.ID,
			ServiceID:   dp.ServiceID,
			Restaurant:  dp.Restaurant,
			CameraCount: dp.CameraCount,
			Comment:     dp.Comment,
		}
		if dp.ServiceDate != "" {
			t, err := time.Parse("2006-01-02", dp.ServiceDate)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid service_date"})
				return
			}
			d.ServiceDate = &t
		}
		for _, id := range dp.WorkerIDs {
			d.Workers = append(d.Workers, model.Worker{ID: id})
		}
		e.Devices = append(e.Devices, d)
	}
	if err := s.eventUC.Save(r.Context(), e); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": e.ID})
}

func (s *Server) getEvent(w http.ResponseWriter, r *http.Request) {
	e, err := s.eventUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.eventUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listEventLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.eventUC.ListLogs(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// ---- telegram sends ----

func (s *Server) sendContract(w http.ResponseWriter, r *http.Request) {
	results, err := s.contractUC.SendContract(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

func (s *Server) sendAdvance(w http.ResponseWriter, r *http.Request) {
	results, err := s.contractUC.SendAdvanceNotice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

func (s *Server) listMessageLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.contractUC.ListMessageLogs(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("kind"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
