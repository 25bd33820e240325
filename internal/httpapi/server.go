package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"netpulse/internal/domain"
	"netpulse/internal/httpapi/middleware"
	"netpulse/internal/store"
)

// Trigger is the manual-cycle entry point, satisfied by *scheduler.Scheduler.
type Trigger interface {
	TriggerNow()
}

type Server struct {
	Logger  *zap.Logger
	Store   *store.Store
	Targets []domain.Target
	Trigger Trigger

	TriggerAPIKeys []string
	TriggerRPM     int
	TriggerBurst   int
}

func NewServer(l *zap.Logger, st *store.Store, targets []domain.Target, trig Trigger) *Server {
	return &Server{Logger: l, Store: st, Targets: targets, Trigger: trig}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/api/status", s.handleStatus)
	r.Get("/api/targets", s.handleTargets)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireKey(s.TriggerAPIKeys))
		r.Use(middleware.RateLimit(s.TriggerRPM, s.TriggerBurst))
		r.Post("/api/trigger", s.handleTrigger)
	})

	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Store.Snapshot())
}

func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Targets)
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	s.Trigger.TriggerNow()
	s.Logger.Info("trigger_requested", zap.String("remote", r.RemoteAddr))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte(`{"status":"triggered"}`))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
