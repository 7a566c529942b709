package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/isira-aw/Metropolitan-B/internal/auth"
	"github.com/isira-aw/Metropolitan-B/internal/directory"
	"github.com/isira-aw/Metropolitan-B/internal/domain"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	token, employee, err := h.directory.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token: token,
		Email: employee.Email,
		Name:  employee.Name,
		Role:  string(employee.Role),
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.IsAdmin() {
		writeError(w, http.StatusForbidden, "forbidden", "admin role required")
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	employee, err := h.directory.Register(r.Context(), req.toInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeView(*employee))
}

func (h *Handler) employees(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.IsAdmin() {
		writeError(w, http.StatusForbidden, "forbidden", "admin role required")
		return
	}

	employees, err := h.directory.ListEmployees(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]EmployeeView, 0, len(employees))
	for _, emp := range employees {
		items = append(items, toEmployeeView(emp))
	}
	writeJSON(w, http.StatusOK, ListEmployeesResponse{Items: items})
}

func (h *Handler) employeeByEmail(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimPrefix(r.URL.Path, "/v1/employees/")
	if email == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing employee email")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	// Employees may look up only themselves; admins may look up anyone.
	if !claims.IsAdmin() && claims.Email != email {
		writeError(w, http.StatusForbidden, "forbidden", "cannot view other employees")
		return
	}

	employee, err := h.directory.GetEmployee(r.Context(), email)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeView(*employee))
}

func (h *Handler) generators(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createGenerator(w, r)
	case http.MethodGet:
		h.listGenerators(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) createGenerator(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.IsAdmin() {
		writeError(w, http.StatusForbidden, "forbidden", "admin role required")
		return
	}

	var req CreateGeneratorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	gen, err := h.directory.CreateGenerator(r.Context(), req.toInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGeneratorView(*gen))
}

func (h *Handler) listGenerators(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.FromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	generators, err := h.directory.ListGenerators(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]GeneratorView, 0, len(generators))
	for _, gen := range generators {
		items = append(items, toGeneratorView(gen))
	}
	writeJSON(w, http.StatusOK, ListGeneratorsResponse{Items: items})
}

func (h *Handler) generatorByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/generators/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing generator id")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if _, ok := auth.FromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	gen, err := h.directory.GetGenerator(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGeneratorView(*gen))
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate ensures request correctness.
func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return errors.New("email is required")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

// LoginResponse carries the issued token and the employee identity.
type LoginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	ContactNumber string `json:"contact_number"`
	Role          string `json:"role"`
	Password      string `json:"password"`
}

func (r RegisterRequest) toInput() directory.RegisterInput {
	return directory.RegisterInput{
		Email:         r.Email,
		Name:          r.Name,
		ContactNumber: r.ContactNumber,
		Role:          domain.Role(r.Role),
		Password:      r.Password,
	}
}

// EmployeeView exposes employee details without the password hash.
type EmployeeView struct {
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	ContactNumber string    `json:"contact_number,omitempty"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ListEmployeesResponse packages list results.
type ListEmployeesResponse struct {
	Items []EmployeeView `json:"items"`
}

// CreateGeneratorRequest is the payload for POST /v1/generators.
type CreateGeneratorRequest struct {
	Name          string `json:"name"`
	Capacity      string `json:"capacity"`
	ContactNumber string `json:"contact_number"`
	Email         string `json:"email"`
	Description   string `json:"description"`
}

func (r CreateGeneratorRequest) toInput() directory.GeneratorInput {
	return directory.GeneratorInput{
		Name:          r.Name,
		Capacity:      r.Capacity,
		ContactNumber: r.ContactNumber,
		Email:         r.Email,
		Description:   r.Description,
	}
}

// GeneratorView exposes generator details.
type GeneratorView struct {
	GeneratorID   string    `json:"generator_id"`
	Name          string    `json:"name"`
	Capacity      string    `json:"capacity,omitempty"`
	ContactNumber string    `json:"contact_number,omitempty"`
	Email         string    `json:"email,omitempty"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ListGeneratorsResponse packages list results.
type ListGeneratorsResponse struct {
	Items []GeneratorView `json:"items"`
}

func toEmployeeView(emp domain.Employee) EmployeeView {
	return EmployeeView{
		Email:         emp.Email,
		Name:          emp.Name,
		ContactNumber: emp.ContactNumber,
		Role:          string(emp.Role),
		CreatedAt:     emp.CreatedAt,
		UpdatedAt:     emp.UpdatedAt,
	}
}

func toGeneratorView(gen domain.Generator) GeneratorView {
	return GeneratorView{
		GeneratorID:   gen.ID,
		Name:          gen.Name,
		Capacity:      gen.Capacity,
		ContactNumber: gen.ContactNumber,
		Email:         gen.Email,
		Description:   gen.Description,
		CreatedAt:     gen.CreatedAt,
		UpdatedAt:     gen.UpdatedAt,
	}
}
