// Package postgres provides pgx-backed persistence for the Metropolitan backend.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/isira-aw/Metropolitan-B/internal/domain"
)

// Repository provides Postgres-backed persistence for employees, generators,
// job cards, timesheets, and the notification outbox. Timestamps read back
// from the database are converted into the business timezone so downstream
// time-of-day arithmetic stays correct.
type Repository struct {
	pool *pgxpool.Pool
	loc  *time.Location
}

// NewRepository constructs a Repository bound to the business timezone.
func NewRepository(pool *pgxpool.Pool, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.UTC
	}
	return &Repository{pool: pool, loc: loc}
}

// CreateEmployee inserts a new employee row.
func (r *Repository) CreateEmployee(ctx context.Context, employee domain.Employee) error {
	const stmt = `INSERT INTO employees (email, name, contact_number, role, password_hash, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,NOW(),NOW())`

	_, err := r.pool.Exec(ctx, stmt,
		employee.Email,
		employee.Name,
		employee.ContactNumber,
		employee.Role,
		employee.PasswordHash,
	)
	return err
}

// FindEmployee returns nil when no employee exists for the email.
func (r *Repository) FindEmployee(ctx context.Context, email string) (*domain.Employee, error) {
	const query = `SELECT email, name, contact_number, role, password_hash, created_at, updated_at
        FROM employees WHERE email=$1`

	row := r.pool.QueryRow(ctx, query, email)
	var emp domain.Employee
	if err := row.Scan(&emp.Email, &emp.Name, &emp.ContactNumber, &emp.Role, &emp.PasswordHash, &emp.CreatedAt, &emp.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &emp, nil
}

// ListEmployees returns all employees ordered by name.
func (r *Repository) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	const query = `SELECT email, name, contact_number, role, password_hash, created_at, updated_at
        FROM employees ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Employee
	for rows.Next() {
		var emp domain.Employee
		if err := rows.Scan(&emp.Email, &emp.Name, &emp.ContactNumber, &emp.Role, &emp.PasswordHash, &emp.CreatedAt, &emp.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

// CreateGenerator inserts a generator row.
func (r *Repository) CreateGenerator(ctx context.Context, gen domain.Generator) error {
	const stmt = `INSERT INTO generators (generator_id, name, capacity, contact_number, email, description, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())`

	_, err := r.pool.Exec(ctx, stmt,
		gen.ID,
		gen.Name,
		gen.Capacity,
		gen.ContactNumber,
		gen.Email,
		gen.Description,
	)
	return err
}

// GetGenerator returns nil when the id is unknown.
func (r *Repository) GetGenerator(ctx context.Context, id string) (*domain.Generator, error) {
	const query = `SELECT generator_id, name, capacity, contact_number, email, description, created_at, updated_at
        FROM generators WHERE generator_id=$1`

	row := r.pool.QueryRow(ctx, query, id)
	var gen domain.Generator
	if err := row.Scan(&gen.ID, &gen.Name, &gen.Capacity, &gen.ContactNumber, &gen.Email, &gen.Description, &gen.CreatedAt, &gen.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &gen, nil
}

// ListGenerators returns all generators ordered by name.
func (r *Repository) ListGenerators(ctx context.Context) ([]domain.Generator, error) {
	const query = `SELECT generator_id, name, capacity, contact_number, email, description, created_at, updated_at
        FROM generators ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Generator
	for rows.Next() {
		var gen domain.Generator
		if err := rows.Scan(&gen.ID, &gen.Name, &gen.Capacity, &gen.ContactNumber, &gen.Email, &gen.Description, &gen.CreatedAt, &gen.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, gen)
	}
	return out, rows.Err()
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
