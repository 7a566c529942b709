package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/isira-aw/Metropolitan-B/internal/auth"
	"github.com/isira-aw/Metropolitan-B/internal/domain"
	"github.com/isira-aw/Metropolitan-B/internal/events"
	"github.com/isira-aw/Metropolitan-B/internal/tracking"
)

func (h *Handler) trackingEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	var req StatusEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	email := h.resolveEmployee(claims, req.EmployeeEmail)
	if email == "" {
		writeError(w, http.StatusForbidden, "forbidden", "cannot record events for other employees")
		return
	}

	ts, err := h.tracking.RecordStatusEvent(r.Context(), email, req.Location, domain.JobStatus(req.OldStatus), domain.JobStatus(req.NewStatus))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTimesheetView(ts))
}

func (h *Handler) endDay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	var req EndDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	email := h.resolveEmployee(claims, req.EmployeeEmail)
	if email == "" {
		writeError(w, http.StatusForbidden, "forbidden", "cannot end sessions for other employees")
		return
	}

	ts, err := h.tracking.EndDay(r.Context(), email, req.Location)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.queueSessionEnded(r, email, ts)
	writeJSON(w, http.StatusOK, toTimesheetView(ts))
}

// queueSessionEnded enqueues the end-of-day summary email. The day is already
// closed at this point, so failures are logged rather than surfaced.
func (h *Handler) queueSessionEnded(r *http.Request, email string, ts *tracking.Timesheet) {
	if h.sessions == nil {
		return
	}

	name := email
	if employee, err := h.directory.GetEmployee(r.Context(), email); err == nil {
		name = employee.Name
	}

	evt := events.SessionEnded{
		EmployeeEmail:    email,
		EmployeeName:     name,
		Date:             ts.Date.Format("2006-01-02"),
		FirstTime:        ts.FirstEventAt.Format("15:04"),
		LastTime:         ts.LastEventAt.Format("15:04"),
		LastLocation:     ts.LastLocation,
		MorningOTMinutes: ts.MorningOTMinutes,
		EveningOTMinutes: ts.EveningOTMinutes,
		EndedAt:          h.clock.Now(),
	}
	if err := h.sessions.EnqueueSessionEnded(r.Context(), evt); err != nil {
		log.Printf("api: enqueue session.ended for %s: %v", email, err)
	}
}

func (h *Handler) dailySummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	email := h.resolveEmployee(claims, r.URL.Query().Get("employee"))
	if email == "" {
		writeError(w, http.StatusForbidden, "forbidden", "cannot view other employees' summaries")
		return
	}

	day := h.clock.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := h.parseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	ts, err := h.tracking.DailySummary(r.Context(), email, day)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTimesheetView(ts))
}

func (h *Handler) overtimeReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	email := h.resolveEmployee(claims, r.URL.Query().Get("employee"))
	if email == "" {
		writeError(w, http.StatusForbidden, "forbidden", "cannot view other employees' reports")
		return
	}

	startRaw := r.URL.Query().Get("start")
	endRaw := r.URL.Query().Get("end")
	if startRaw == "" || endRaw == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "start and end parameters are required")
		return
	}
	start, err := h.parseDate(startRaw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "start must be YYYY-MM-DD")
		return
	}
	end, err := h.parseDate(endRaw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "end must be YYYY-MM-DD")
		return
	}

	report, err := h.tracking.RangeReport(r.Context(), email, start, end)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// resolveEmployee returns the employee an operation targets. Admins may name
// anyone; everyone else is pinned to their own email. An empty return means
// the caller asked for someone else without the role to do so.
func (h *Handler) resolveEmployee(claims *auth.Claims, requested string) string {
	requested = strings.TrimSpace(requested)
	if requested == "" || requested == claims.Email {
		return claims.Email
	}
	if claims.IsAdmin() {
		return requested
	}
	return ""
}

// StatusEventRequest is the payload for POST /v1/tracking/events.
type StatusEventRequest struct {
	EmployeeEmail string `json:"employee_email"`
	Location      string `json:"location"`
	OldStatus     string `json:"old_status"`
	NewStatus     string `json:"new_status"`
}

// Validate ensures request correctness.
func (r StatusEventRequest) Validate() error {
	if strings.TrimSpace(r.OldStatus) == "" {
		return errors.New("old_status is required")
	}
	if strings.TrimSpace(r.NewStatus) == "" {
		return errors.New("new_status is required")
	}
	if !domain.JobStatus(r.OldStatus).Valid() {
		return errors.New("old_status is not a known status")
	}
	if !domain.JobStatus(r.NewStatus).Valid() {
		return errors.New("new_status is not a known status")
	}
	return nil
}

// EndDayRequest is the payload for POST /v1/tracking/endday.
type EndDayRequest struct {
	EmployeeEmail string `json:"employee_email"`
	Location      string `json:"location"`
}

// TimesheetView renders a day accumulator. Bucket and overtime values are
// "HH:mm" strings wrapped to a 24-hour clock; stored minutes stay exact.
type TimesheetView struct {
	EmployeeEmail string `json:"employee_email"`
	Date          string `json:"date"`
	FirstTime     string `json:"first_time"`
	LastTime      string `json:"last_time"`
	FirstLocation string `json:"first_location,omitempty"`
	LastLocation  string `json:"last_location,omitempty"`
	OnHold        string `json:"on_hold"`
	InProgress    string `json:"in_progress"`
	Assigned      string `json:"assigned"`
	MorningOT     string `json:"morning_ot"`
	EveningOT     string `json:"evening_ot"`
	LastStatus    string `json:"last_status"`
}

func toTimesheetView(ts *tracking.Timesheet) TimesheetView {
	return TimesheetView{
		EmployeeEmail: ts.EmployeeEmail,
		Date:          ts.Date.Format("2006-01-02"),
		FirstTime:     ts.FirstEventAt.Format("15:04"),
		LastTime:      ts.LastEventAt.Format("15:04"),
		FirstLocation: ts.FirstLocation,
		LastLocation:  ts.LastLocation,
		OnHold:        tracking.FormatMinutes(ts.OnHoldMinutes, true),
		InProgress:    tracking.FormatMinutes(ts.InProgressMinutes, true),
		Assigned:      tracking.FormatMinutes(ts.AssignedMinutes, true),
		MorningOT:     tracking.FormatMinutes(ts.MorningOTMinutes, true),
		EveningOT:     tracking.FormatMinutes(ts.EveningOTMinutes, true),
		LastStatus:    string(ts.LastStatus),
	}
}
