package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/isira-aw/Metropolitan-B/internal/auth"
	"github.com/isira-aw/Metropolitan-B/internal/domain"
	"github.com/isira-aw/Metropolitan-B/internal/jobcard"
)

func (h *Handler) jobCards(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createJobCard(w, r)
	case http.MethodGet:
		h.listJobCards(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) createJobCard(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.IsAdmin() {
		writeError(w, http.StatusForbidden, "forbidden", "admin role required")
		return
	}

	var req CreateJobCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	date, err := h.parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "date must be YYYY-MM-DD")
		return
	}

	card, err := h.jobcards.Create(r.Context(), jobcard.CreateInput{
		GeneratorID:    req.GeneratorID,
		JobType:        domain.JobCardType(req.JobType),
		Date:           date,
		EstimatedTime:  req.EstimatedTime,
		EmployeeEmails: req.EmployeeEmails,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toJobCardView(*card))
}

func (h *Handler) listJobCards(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.FromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	filter := domain.JobCardFilter{
		JobType:       domain.JobCardType(r.URL.Query().Get("job_type")),
		GeneratorID:   r.URL.Query().Get("generator_id"),
		EmployeeEmail: r.URL.Query().Get("employee"),
	}
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := h.parseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "date must be YYYY-MM-DD")
			return
		}
		filter.Date = date
	}

	cards, err := h.jobcards.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]JobCardView, 0, len(cards))
	for _, card := range cards {
		items = append(items, toJobCardView(card))
	}
	writeJSON(w, http.StatusOK, ListJobCardsResponse{Items: items})
}

func (h *Handler) jobCardByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/jobcards/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing job card id")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	switch r.Method {
	case http.MethodGet:
		card, err := h.jobcards.Get(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toJobCardView(*card))
	case http.MethodDelete:
		if !claims.IsAdmin() {
			writeError(w, http.StatusForbidden, "forbidden", "admin role required")
			return
		}
		if err := h.jobcards.Delete(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) miniJobCards(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	filter := domain.MiniJobCardFilter{
		EmployeeEmail: r.URL.Query().Get("employee"),
		JobCardID:     r.URL.Query().Get("jobcard_id"),
		Status:        domain.JobStatus(r.URL.Query().Get("status")),
	}
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := h.parseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "date must be YYYY-MM-DD")
			return
		}
		filter.Date = date
	}

	// Non-admins only ever see their own mini job cards.
	if !claims.IsAdmin() {
		filter.EmployeeEmail = claims.Email
	}

	minis, err := h.jobcards.ListMinis(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]MiniJobCardView, 0, len(minis))
	for _, mini := range minis {
		items = append(items, toMiniJobCardView(mini))
	}
	writeJSON(w, http.StatusOK, ListMiniJobCardsResponse{Items: items})
}

func (h *Handler) miniJobCardByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/minijobcards/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing mini job card id")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	switch r.Method {
	case http.MethodGet:
		mini, err := h.jobcards.GetMini(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if !claims.IsAdmin() && mini.EmployeeEmail != claims.Email {
			writeError(w, http.StatusForbidden, "forbidden", "cannot view other employees' job cards")
			return
		}
		writeJSON(w, http.StatusOK, toMiniJobCardView(*mini))
	case http.MethodPut:
		h.updateMiniJobCard(w, r, claims, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) updateMiniJobCard(w http.ResponseWriter, r *http.Request, claims *auth.Claims, id string) {
	var req UpdateMiniJobCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	mini, err := h.jobcards.GetMini(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !claims.IsAdmin() && mini.EmployeeEmail != claims.Email {
		writeError(w, http.StatusForbidden, "forbidden", "cannot update other employees' job cards")
		return
	}

	updated, err := h.jobcards.UpdateMiniStatus(r.Context(), id, domain.JobStatus(req.Status), req.Location)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMiniJobCardView(*updated))
}

// CreateJobCardRequest is the payload for POST /v1/jobcards.
type CreateJobCardRequest struct {
	GeneratorID    string   `json:"generator_id"`
	JobType        string   `json:"job_type"`
	Date           string   `json:"date"`
	EstimatedTime  string   `json:"estimated_time"`
	EmployeeEmails []string `json:"employee_emails"`
}

// Validate ensures request correctness.
func (r CreateJobCardRequest) Validate() error {
	if strings.TrimSpace(r.GeneratorID) == "" {
		return errors.New("generator_id is required")
	}
	if strings.TrimSpace(r.JobType) == "" {
		return errors.New("job_type is required")
	}
	if strings.TrimSpace(r.Date) == "" {
		return errors.New("date is required")
	}
	if len(r.EmployeeEmails) == 0 {
		return errors.New("employee_emails must not be empty")
	}
	return nil
}

// UpdateMiniJobCardRequest is the payload for PUT /v1/minijobcards/{id}.
type UpdateMiniJobCardRequest struct {
	Status   string `json:"status"`
	Location string `json:"location"`
}

// Validate ensures request correctness.
func (r UpdateMiniJobCardRequest) Validate() error {
	if strings.TrimSpace(r.Status) == "" {
		return errors.New("status is required")
	}
	return nil
}

// JobCardView exposes job card details.
type JobCardView struct {
	JobCardID      string    `json:"job_card_id"`
	GeneratorID    string    `json:"generator_id"`
	JobType        string    `json:"job_type"`
	Date           string    `json:"date"`
	EstimatedTime  string    `json:"estimated_time,omitempty"`
	EmployeeEmails []string  `json:"employee_emails"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ListJobCardsResponse packages list results.
type ListJobCardsResponse struct {
	Items []JobCardView `json:"items"`
}

// MiniJobCardView exposes mini job card details.
type MiniJobCardView struct {
	MiniJobCardID string    `json:"mini_job_card_id"`
	JobCardID     string    `json:"job_card_id"`
	EmployeeEmail string    `json:"employee_email"`
	Status        string    `json:"status"`
	Date          string    `json:"date"`
	Time          time.Time `json:"time"`
	Location      string    `json:"location,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ListMiniJobCardsResponse packages list results.
type ListMiniJobCardsResponse struct {
	Items []MiniJobCardView `json:"items"`
}

func toJobCardView(card domain.JobCard) JobCardView {
	return JobCardView{
		JobCardID:      card.ID,
		GeneratorID:    card.GeneratorID,
		JobType:        string(card.JobType),
		Date:           card.Date.Format("2006-01-02"),
		EstimatedTime:  card.EstimatedTime,
		EmployeeEmails: card.EmployeeEmails,
		CreatedAt:      card.CreatedAt,
		UpdatedAt:      card.UpdatedAt,
	}
}

func toMiniJobCardView(mini domain.MiniJobCard) MiniJobCardView {
	return MiniJobCardView{
		MiniJobCardID: mini.ID,
		JobCardID:     mini.JobCardID,
		EmployeeEmail: mini.EmployeeEmail,
		Status:        string(mini.Status),
		Date:          mini.Date.Format("2006-01-02"),
		Time:          mini.Time,
		Location:      mini.Location,
		CreatedAt:     mini.CreatedAt,
		UpdatedAt:     mini.UpdatedAt,
	}
}
