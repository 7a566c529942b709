// Package api exposes HTTP handlers for the Metropolitan backend.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/isira-aw/Metropolitan-B/internal/clock"
	"github.com/isira-aw/Metropolitan-B/internal/directory"
	"github.com/isira-aw/Metropolitan-B/internal/domain"
	"github.com/isira-aw/Metropolitan-B/internal/events"
	"github.com/isira-aw/Metropolitan-B/internal/jobcard"
	"github.com/isira-aw/Metropolitan-B/internal/tracking"
)

// SessionNotifier queues end-of-day notification events.
type SessionNotifier interface {
	EnqueueSessionEnded(ctx context.Context, evt events.SessionEnded) error
}

// Handler coordinates HTTP requests with the domain services.
type Handler struct {
	directory *directory.Service
	jobcards  *jobcard.Service
	tracking  *tracking.Engine
	sessions  SessionNotifier
	clock     clock.Clock
	loc       *time.Location
}

// NewHandler builds a Handler. loc is the business timezone used to interpret
// date query parameters.
func NewHandler(dir *directory.Service, cards *jobcard.Service, engine *tracking.Engine, sessions SessionNotifier, clk clock.Clock, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		directory: dir,
		jobcards:  cards,
		tracking:  engine,
		sessions:  sessions,
		clock:     clk,
		loc:       loc,
	}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/auth/login", h.login)
	mux.HandleFunc("/auth/register", h.register)
	mux.HandleFunc("/v1/employees", h.employees)
	mux.HandleFunc("/v1/employees/", h.employeeByEmail)
	mux.HandleFunc("/v1/generators", h.generators)
	mux.HandleFunc("/v1/generators/", h.generatorByID)
	mux.HandleFunc("/v1/jobcards", h.jobCards)
	mux.HandleFunc("/v1/jobcards/", h.jobCardByID)
	mux.HandleFunc("/v1/minijobcards", h.miniJobCards)
	mux.HandleFunc("/v1/minijobcards/", h.miniJobCardByID)
	mux.HandleFunc("/v1/tracking/events", h.trackingEvents)
	mux.HandleFunc("/v1/tracking/endday", h.endDay)
	mux.HandleFunc("/v1/tracking/summary", h.dailySummary)
	mux.HandleFunc("/v1/reports/ot", h.overtimeReport)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// parseDate interprets a "YYYY-MM-DD" query value in the business timezone.
func (h *Handler) parseDate(raw string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", raw, h.loc)
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// writeDomainError maps sentinel errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrSameStatus),
		errors.Is(err, domain.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, domain.ErrEmployeeExists):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, domain.ErrEmployeeNotFound),
		errors.Is(err, domain.ErrGeneratorNotFound),
		errors.Is(err, domain.ErrJobCardNotFound),
		errors.Is(err, domain.ErrMiniJobCardNotFound),
		errors.Is(err, domain.ErrTimesheetNotFound),
		errors.Is(err, domain.ErrNoActiveSession):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}
