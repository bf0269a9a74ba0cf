package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"redcrm-backend/internal/usecase"
)

// Server exposes the management API: CRUD for the booking domain plus the
// telegram send endpoints. Everything under /api/v1 sits behind a bearer
// token; health and metrics do not.
type Server struct {
	clientUC   usecase.ClientUseCase
	workerUC   usecase.WorkerUseCase
	serviceUC  usecase.ServiceUseCase
	eventUC    usecase.EventUseCase
	contractUC usecase.ContractUseCase
	reminderUC usecase.ReminderUseCase
	apiKey     string
	log        *zerolog.Logger
}

func NewServer(
	clientUC usecase.ClientUseCase,
	workerUC usecase.WorkerUseCase,
	serviceUC usecase.ServiceUseCase,
	eventUC usecase.EventUseCase,
	contractUC usecase.ContractUseCase,
	reminderUC usecase.ReminderUseCase,
	apiKey string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		clientUC:   clientUC,
		workerUC:   workerUC,
		serviceUC:  serviceUC,
		eventUC:    eventUC,
		contractUC: contractUC,
		reminderUC: reminderUC,
		apiKey:     apiKey,
		log:        logger,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", s.listClients)
			r.Post("/", s.saveClient)
			r.Get("/{id}", s.getClient)
			r.Delete("/{id}", s.deleteClient)
		})

		r.Route("/workers", func(r chi.Router) {
			r.Get("/", s.listWorkers)
			r.Post("/", s.saveWorker)
			r.Post("/order", s.orderWorkers)
			r.Delete("/{id}", s.deleteWorker)
			r.Post("/notify", s.notifyWorkers)
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", s.listServices)
			r.Post("/", s.saveService)
			r.Post("/order", s.orderServices)
			r.Delete("/{id}", s.deleteService)
		})

		r.Route("/events", func(r chi.Router) {
			r.Post("/", s.saveEvent)
			r.Get("/{id}", s.getEvent)
			r.Delete("/{id}", s.deleteEvent)
			r.Get("/{id}/logs", s.listEventLogs)
			r.Post("/{id}/send_contract", s.sendContract)
			r.Post("/{id}/send_advance", s.sendAdvance)
			r.Get("/{id}/message_logs", s.listMessageLogs)
		})
	})

	return r
}

// authMiddleware provides simple Bearer token authentication for the API.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "bearer") {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}

		if tokenParts[1] != s.apiKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
