// Package events defines the payloads exchanged between the API, the outbox
// dispatcher, and the notifier.
package events

import "time"

// Event type identifiers recorded in outbox rows and Kafka headers.
const (
	TypeJobCardAssigned  = "jobcard.assigned"
	TypeJobStatusChanged = "jobcard.status_changed"
	TypeSessionEnded     = "session.ended"
)

// JobCardAssigned is emitted once per employee when a job card is created.
// The notifier turns it into an assignment email; employee name and generator
// details are denormalised here so delivery needs no further lookups.
type JobCardAssigned struct {
	JobCardID     string    `json:"job_card_id"`
	MiniJobCardID string    `json:"mini_job_card_id"`
	EmployeeEmail string    `json:"employee_email"`
	EmployeeName  string    `json:"employee_name"`
	GeneratorName string    `json:"generator_name"`
	JobType       string    `json:"job_type"`
	Date          string    `json:"date"`
	EstimatedTime string    `json:"estimated_time,omitempty"`
	AssignedAt    time.Time `json:"assigned_at"`
}

// JobStatusChanged tracks mini job card transitions for the downstream event log.
type JobStatusChanged struct {
	MiniJobCardID string    `json:"mini_job_card_id"`
	JobCardID     string    `json:"job_card_id"`
	EmployeeEmail string    `json:"employee_email"`
	OldStatus     string    `json:"old_status"`
	NewStatus     string    `json:"new_status"`
	Location      string    `json:"location,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// SessionEnded is emitted when an employee closes out their working day. The
// notifier mails the employee a summary of the final timesheet.
type SessionEnded struct {
	EmployeeEmail    string    `json:"employee_email"`
	EmployeeName     string    `json:"employee_name"`
	Date             string    `json:"date"`
	FirstTime        string    `json:"first_time"`
	LastTime         string    `json:"last_time"`
	LastLocation     string    `json:"last_location,omitempty"`
	MorningOTMinutes int       `json:"morning_ot_minutes"`
	EveningOTMinutes int       `json:"evening_ot_minutes"`
	EndedAt          time.Time `json:"ended_at"`
}
