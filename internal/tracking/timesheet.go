package tracking

import (
	"fmt"
	"time"

	"github.com/isira-aw/Metropolitan-B/internal/clock"
	"github.com/isira-aw/Metropolitan-B/internal/domain"
)

// Timesheet accumulates one employee's tracked time for one calendar day in
// the business timezone. Minute buckets hold exact totals; any wrapping to a
// 24-hour clock happens only when a value is formatted for display.
type Timesheet struct {
	EmployeeEmail string
	Date          time.Time

	FirstEventAt  time.Time
	LastEventAt   time.Time
	FirstLocation string
	LastLocation  string

	OnHoldMinutes     int
	InProgressMinutes int
	AssignedMinutes   int

	MorningOTMinutes int
	EveningOTMinutes int

	LastStatus         domain.JobStatus
	LastStatusChangeAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTimesheet opens a timesheet from the first trackable event of the day.
// The last event mirrors the first so the record is never half-initialised.
func NewTimesheet(employeeEmail string, at time.Time, location string, status domain.JobStatus) *Timesheet {
	return &Timesheet{
		EmployeeEmail:      employeeEmail,
		Date:               clock.Day(at),
		FirstEventAt:       at,
		LastEventAt:        at,
		FirstLocation:      location,
		LastLocation:       location,
		LastStatus:         status,
		LastStatusChangeAt: at,
		CreatedAt:          at,
		UpdatedAt:          at,
	}
}

// TrackedMinutes is the sum of all three status buckets.
func (t *Timesheet) TrackedMinutes() int {
	return t.OnHoldMinutes + t.InProgressMinutes + t.AssignedMinutes
}

// credit adds elapsed minutes to the bucket matching the status the timesheet
// was in. Untracked statuses credit nothing.
func (t *Timesheet) credit(status domain.JobStatus, minutes int) {
	if minutes <= 0 {
		return
	}
	switch status {
	case domain.StatusOnHold:
		t.OnHoldMinutes += minutes
	case domain.StatusInProgress:
		t.InProgressMinutes += minutes
	case domain.StatusAssigned:
		t.AssignedMinutes += minutes
	}
}

// FormatMinutes renders a minute total as "HH:mm". With wrapDay set the hour
// component wraps modulo 24 for single-day display; the caller's stored total
// is untouched either way.
func FormatMinutes(total int, wrapDay bool) string {
	if total < 0 {
		total = 0
	}
	hours := total / 60
	if wrapDay {
		hours %= 24
	}
	return fmt.Sprintf("%02d:%02d", hours, total%60)
}
