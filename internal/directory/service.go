// Package directory manages the employee and generator registers plus the
// login/register surface built on them.
package directory

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/isira-aw/Metropolitan-B/internal/auth"
	"github.com/isira-aw/Metropolitan-B/internal/domain"
)

// Repository is the persistence surface the service needs.
type Repository interface {
	CreateEmployee(ctx context.Context, employee domain.Employee) error
	FindEmployee(ctx context.Context, email string) (*domain.Employee, error)
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	CreateGenerator(ctx context.Context, gen domain.Generator) error
	GetGenerator(ctx context.Context, id string) (*domain.Generator, error)
	ListGenerators(ctx context.Context) ([]domain.Generator, error)
}

// Service implements directory operations and credential checks.
type Service struct {
	repo    Repository
	authCfg auth.Config
}

// NewService constructs a Service.
func NewService(repo Repository, authCfg auth.Config) *Service {
	return &Service{repo: repo, authCfg: authCfg}
}

// RegisterInput carries a new employee registration.
type RegisterInput struct {
	Email         string
	Name          string
	ContactNumber string
	Role          domain.Role
	Password      string
}

func (in RegisterInput) validate() error {
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if in.Role != domain.RoleAdmin && in.Role != domain.RoleEmployee {
		return fmt.Errorf("%w: role must be ADMIN or EMPLOYEE", domain.ErrValidation)
	}
	if len(in.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}
	return nil
}

// Register creates an employee with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.Employee, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindEmployee(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("find employee: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmployeeExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	employee := domain.Employee{
		Email:         in.Email,
		Name:          in.Name,
		ContactNumber: in.ContactNumber,
		Role:          in.Role,
		PasswordHash:  string(hash),
	}
	if err := s.repo.CreateEmployee(ctx, employee); err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	return &employee, nil
}

// Login verifies credentials and issues a bearer token. Unknown emails and
// wrong passwords produce the same error so the endpoint leaks nothing.
func (s *Service) Login(ctx context.Context, email, password string) (string, *domain.Employee, error) {
	employee, err := s.repo.FindEmployee(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("find employee: %w", err)
	}
	if employee == nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := auth.Issue(*employee, s.authCfg)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, employee, nil
}

// GetEmployee returns the employee or domain.ErrEmployeeNotFound.
func (s *Service) GetEmployee(ctx context.Context, email string) (*domain.Employee, error) {
	employee, err := s.repo.FindEmployee(ctx, email)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, domain.ErrEmployeeNotFound
	}
	return employee, nil
}

// ListEmployees returns all employees.
func (s *Service) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return s.repo.ListEmployees(ctx)
}

// GeneratorInput carries a new generator registration.
type GeneratorInput struct {
	Name          string
	Capacity      string
	ContactNumber string
	Email         string
	Description   string
}

// CreateGenerator registers a generator asset.
func (s *Service) CreateGenerator(ctx context.Context, in GeneratorInput) (*domain.Generator, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: generator name is required", domain.ErrValidation)
	}

	gen := domain.Generator{
		ID:            uuid.NewString(),
		Name:          in.Name,
		Capacity:      in.Capacity,
		ContactNumber: in.ContactNumber,
		Email:         in.Email,
		Description:   in.Description,
	}
	if err := s.repo.CreateGenerator(ctx, gen); err != nil {
		return nil, fmt.Errorf("create generator: %w", err)
	}
	return &gen, nil
}

// GetGenerator returns the generator or domain.ErrGeneratorNotFound.
func (s *Service) GetGenerator(ctx context.Context, id string) (*domain.Generator, error) {
	gen, err := s.repo.GetGenerator(ctx, id)
	if err != nil {
		return nil, err
	}
	if gen == nil {
		return nil, domain.ErrGeneratorNotFound
	}
	return gen, nil
}

// ListGenerators returns all generators.
func (s *Service) ListGenerators(ctx context.Context) ([]domain.Generator, error) {
	return s.repo.ListGenerators(ctx)
}
