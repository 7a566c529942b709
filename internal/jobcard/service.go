// Package jobcard coordinates job card CRUD, mini job card fan-out, and the
// status transitions that drive time tracking.
package jobcard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/isira-aw/Metropolitan-B/internal/clock"
	"github.com/isira-aw/Metropolitan-B/internal/domain"
	"github.com/isira-aw/Metropolitan-B/internal/events"
	"github.com/isira-aw/Metropolitan-B/internal/tracking"
)

// Repository is the persistence surface the service needs.
type Repository interface {
	CreateJobCard(ctx context.Context, card domain.JobCard, minis []domain.MiniJobCard, assigned []events.JobCardAssigned) error
	GetJobCard(ctx context.Context, id string) (*domain.JobCard, error)
	ListJobCards(ctx context.Context, filter domain.JobCardFilter) ([]domain.JobCard, error)
	DeleteJobCard(ctx context.Context, id string) error
	GetMiniJobCard(ctx context.Context, id string) (*domain.MiniJobCard, error)
	ListMiniJobCards(ctx context.Context, filter domain.MiniJobCardFilter) ([]domain.MiniJobCard, error)
	UpdateMiniJobCard(ctx context.Context, mini domain.MiniJobCard, changed events.JobStatusChanged) error
	FindEmployee(ctx context.Context, email string) (*domain.Employee, error)
	GetGenerator(ctx context.Context, id string) (*domain.Generator, error)
}

// Tracker consumes status transitions for timesheet accumulation.
type Tracker interface {
	RecordStatusEvent(ctx context.Context, employeeEmail, location string, oldStatus, newStatus domain.JobStatus) (*tracking.Timesheet, error)
}

// Service implements job card operations on top of a Repository and Tracker.
type Service struct {
	repo    Repository
	tracker Tracker
	clock   clock.Clock
}

// NewService constructs a Service.
func NewService(repo Repository, tracker Tracker, clk clock.Clock) *Service {
	return &Service{repo: repo, tracker: tracker, clock: clk}
}

// CreateInput carries everything needed to raise a job card.
type CreateInput struct {
	GeneratorID    string
	JobType        domain.JobCardType
	Date           time.Time
	EstimatedTime  string
	EmployeeEmails []string
}

func (in CreateInput) validate() error {
	if in.GeneratorID == "" {
		return fmt.Errorf("%w: generator id is required", domain.ErrValidation)
	}
	if in.JobType != domain.JobTypeService && in.JobType != domain.JobTypeRepair {
		return fmt.Errorf("%w: job type must be SERVICE or REPAIR", domain.ErrValidation)
	}
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	if len(in.EmployeeEmails) == 0 {
		return fmt.Errorf("%w: at least one employee is required", domain.ErrValidation)
	}
	for _, email := range in.EmployeeEmails {
		if strings.TrimSpace(email) == "" {
			return fmt.Errorf("%w: employee email must not be blank", domain.ErrValidation)
		}
	}
	return nil
}

// Create raises a job card, fans out one PENDING mini job card per assigned
// employee, and queues an assignment notification for each. Everything is
// written in one transaction by the repository.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.JobCard, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	gen, err := s.repo.GetGenerator(ctx, in.GeneratorID)
	if err != nil {
		return nil, fmt.Errorf("find generator: %w", err)
	}
	if gen == nil {
		return nil, domain.ErrGeneratorNotFound
	}

	employees := make([]*domain.Employee, 0, len(in.EmployeeEmails))
	for _, email := range in.EmployeeEmails {
		emp, err := s.repo.FindEmployee(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("find employee %s: %w", email, err)
		}
		if emp == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrEmployeeNotFound, email)
		}
		employees = append(employees, emp)
	}

	now := s.clock.Now()
	card := domain.JobCard{
		ID:             uuid.NewString(),
		GeneratorID:    in.GeneratorID,
		JobType:        in.JobType,
		Date:           clock.Day(in.Date),
		EstimatedTime:  in.EstimatedTime,
		EmployeeEmails: in.EmployeeEmails,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	minis := make([]domain.MiniJobCard, 0, len(employees))
	assigned := make([]events.JobCardAssigned, 0, len(employees))
	for _, emp := range employees {
		mini := domain.MiniJobCard{
			ID:            uuid.NewString(),
			JobCardID:     card.ID,
			EmployeeEmail: emp.Email,
			Status:        domain.StatusPending,
			Date:          card.Date,
			Time:          now,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		minis = append(minis, mini)
		assigned = append(assigned, events.JobCardAssigned{
			JobCardID:     card.ID,
			MiniJobCardID: mini.ID,
			EmployeeEmail: emp.Email,
			EmployeeName:  emp.Name,
			GeneratorName: gen.Name,
			JobType:       string(card.JobType),
			Date:          card.Date.Format("2006-01-02"),
			EstimatedTime: card.EstimatedTime,
			AssignedAt:    now,
		})
	}

	if err := s.repo.CreateJobCard(ctx, card, minis, assigned); err != nil {
		return nil, fmt.Errorf("create job card: %w", err)
	}
	return &card, nil
}

// Get returns the job card or domain.ErrJobCardNotFound.
func (s *Service) Get(ctx context.Context, id string) (*domain.JobCard, error) {
	card, err := s.repo.GetJobCard(ctx, id)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, domain.ErrJobCardNotFound
	}
	return card, nil
}

// List returns job cards matching the filter.
func (s *Service) List(ctx context.Context, filter domain.JobCardFilter) ([]domain.JobCard, error) {
	return s.repo.ListJobCards(ctx, filter)
}

// Delete removes the job card; its mini job cards cascade away with it.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteJobCard(ctx, id)
}

// GetMini returns the mini job card or domain.ErrMiniJobCardNotFound.
func (s *Service) GetMini(ctx context.Context, id string) (*domain.MiniJobCard, error) {
	mini, err := s.repo.GetMiniJobCard(ctx, id)
	if err != nil {
		return nil, err
	}
	if mini == nil {
		return nil, domain.ErrMiniJobCardNotFound
	}
	return mini, nil
}

// ListMinis returns mini job cards matching the filter.
func (s *Service) ListMinis(ctx context.Context, filter domain.MiniJobCardFilter) ([]domain.MiniJobCard, error) {
	return s.repo.ListMiniJobCards(ctx, filter)
}

// UpdateMiniStatus transitions a mini job card, feeds the transition to the
// time tracker, and records the status-changed event. The same-status guard
// runs before anything is written.
func (s *Service) UpdateMiniStatus(ctx context.Context, miniID string, newStatus domain.JobStatus, location string) (*domain.MiniJobCard, error) {
	if !newStatus.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, newStatus)
	}

	mini, err := s.repo.GetMiniJobCard(ctx, miniID)
	if err != nil {
		return nil, err
	}
	if mini == nil {
		return nil, domain.ErrMiniJobCardNotFound
	}
	if mini.Status == newStatus {
		return nil, domain.ErrSameStatus
	}

	oldStatus := mini.Status
	now := s.clock.Now()

	if _, err := s.tracker.RecordStatusEvent(ctx, mini.EmployeeEmail, location, oldStatus, newStatus); err != nil {
		return nil, err
	}

	mini.Status = newStatus
	mini.Date = clock.Day(now)
	mini.Time = now
	mini.Location = location
	mini.UpdatedAt = now

	changed := events.JobStatusChanged{
		MiniJobCardID: mini.ID,
		JobCardID:     mini.JobCardID,
		EmployeeEmail: mini.EmployeeEmail,
		OldStatus:     string(oldStatus),
		NewStatus:     string(newStatus),
		Location:      location,
		OccurredAt:    now,
	}
	if err := s.repo.UpdateMiniJobCard(ctx, *mini, changed); err != nil {
		return nil, fmt.Errorf("update mini job card: %w", err)
	}
	return mini, nil
}
