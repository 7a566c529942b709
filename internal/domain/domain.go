// Package domain defines the business entities for the Metropolitan backend.
package domain

import "time"

// JobStatus is the lifecycle state of a mini job card.
type JobStatus string

const (
	StatusPending    JobStatus = "PENDING"
	StatusAssigned   JobStatus = "ASSIGNED"
	StatusInProgress JobStatus = "IN_PROGRESS"
	StatusOnHold     JobStatus = "ON_HOLD"
	StatusCompleted  JobStatus = "COMPLETED"
	StatusCancelled  JobStatus = "CANCELLED"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s JobStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusInProgress, StatusOnHold, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Trackable reports whether elapsed time is accumulated while in this status.
// PENDING, COMPLETED and CANCELLED carry no time buckets.
func (s JobStatus) Trackable() bool {
	switch s {
	case StatusAssigned, StatusInProgress, StatusOnHold:
		return true
	}
	return false
}

// JobCardType distinguishes service visits from repair callouts.
type JobCardType string

const (
	JobTypeService JobCardType = "SERVICE"
	JobTypeRepair  JobCardType = "REPAIR"
)

// Role controls what an authenticated employee may do.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

// Employee is keyed by email, matching the company directory.
type Employee struct {
	Email         string
	Name          string
	ContactNumber string
	Role          Role
	PasswordHash  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Generator is a customer asset that job cards are raised against.
type Generator struct {
	ID            string
	Name          string
	Capacity      string
	ContactNumber string
	Email         string
	Description   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// JobCard is a unit of work on a generator, shared by one or more employees.
type JobCard struct {
	ID             string
	GeneratorID    string
	JobType        JobCardType
	Date           time.Time
	EstimatedTime  string
	EmployeeEmails []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// JobCardFilter narrows job card listings. Zero-valued fields are ignored.
type JobCardFilter struct {
	JobType       JobCardType
	GeneratorID   string
	EmployeeEmail string
	Date          time.Time
}

// MiniJobCardFilter narrows mini job card listings. Zero-valued fields are ignored.
type MiniJobCardFilter struct {
	EmployeeEmail string
	JobCardID     string
	Status        JobStatus
	Date          time.Time
}

// MiniJobCard is the per-employee shard of a job card. Status transitions on
// this entity drive the time-tracking engine.
type MiniJobCard struct {
	ID            string
	JobCardID     string
	EmployeeEmail string
	Status        JobStatus
	Date          time.Time
	Time          time.Time
	Location      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
