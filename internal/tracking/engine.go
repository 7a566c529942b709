// Package tracking implements the per-day time accumulation and overtime
// bookkeeping behind job card status transitions.
package tracking

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/isira-aw/Metropolitan-B/internal/clock"
	"github.com/isira-aw/Metropolitan-B/internal/domain"
	"github.com/isira-aw/Metropolitan-B/internal/observability"
)

// Store persists timesheets keyed by (employee, calendar day).
// FindTimesheet returns nil without error when no row exists.
type Store interface {
	FindTimesheet(ctx context.Context, employeeEmail string, day time.Time) (*Timesheet, error)
	SaveTimesheet(ctx context.Context, ts *Timesheet) error
}

// AuditEntry mirrors one row of the employee action log.
type AuditEntry struct {
	EmployeeEmail string
	Action        string
	Status        string
	Location      string
	GeneratorName string
	Date          time.Time
	Time          time.Time
}

// AuditLog appends action entries. Calls are best-effort: the engine logs and
// swallows append failures rather than rolling back timesheet updates.
type AuditLog interface {
	Append(ctx context.Context, entry AuditEntry) error
}

// Options carries the business-calendar tunables for the engine.
type Options struct {
	WorkdayStartMin int // minutes since midnight, e.g. 480 for 08:00
	WorkdayEndMin   int // minutes since midnight, e.g. 1020 for 17:00
	ReportMaxDays   int // inclusive upper bound on report range length
}

// Engine maintains day accumulators: first/last clock events, per-status
// minute buckets, and derived morning/evening overtime.
type Engine struct {
	store  Store
	audit  AuditLog
	clock  clock.Clock
	logger *log.Logger

	startMin      int
	endMin        int
	reportMaxDays int
}

// NewEngine constructs an Engine. Zero option fields fall back to the
// 08:00-17:00 workday and a 31-day report cap.
func NewEngine(store Store, audit AuditLog, clk clock.Clock, opts Options) *Engine {
	if opts.WorkdayStartMin <= 0 {
		opts.WorkdayStartMin = 8 * 60
	}
	if opts.WorkdayEndMin <= 0 {
		opts.WorkdayEndMin = 17 * 60
	}
	if opts.ReportMaxDays <= 0 {
		opts.ReportMaxDays = 31
	}
	return &Engine{
		store:         store,
		audit:         audit,
		clock:         clk,
		logger:        log.New(log.Writer(), "[tracking] ", log.LstdFlags),
		startMin:      opts.WorkdayStartMin,
		endMin:        opts.WorkdayEndMin,
		reportMaxDays: opts.ReportMaxDays,
	}
}

// RecordStatusEvent consumes a status transition for an employee. It opens the
// day's timesheet on the first event, credits the elapsed time to the bucket
// of the outgoing status, refreshes last event time/location, and recomputes
// overtime. Same-status transitions are rejected before any mutation.
func (e *Engine) RecordStatusEvent(ctx context.Context, employeeEmail, location string, oldStatus, newStatus domain.JobStatus) (*Timesheet, error) {
	if strings.TrimSpace(employeeEmail) == "" {
		return nil, fmt.Errorf("%w: employee email is required", domain.ErrValidation)
	}
	if oldStatus == newStatus {
		return nil, domain.ErrSameStatus
	}

	now := e.clock.Now()
	ts, err := e.store.FindTimesheet(ctx, employeeEmail, clock.Day(now))
	if err != nil {
		return nil, fmt.Errorf("find timesheet: %w", err)
	}

	if ts == nil {
		ts = NewTimesheet(employeeEmail, now, location, newStatus)
		e.recomputeOvertime(ts)
	} else {
		elapsed := minutesBetween(ts.LastStatusChangeAt, now)
		ts.credit(oldStatus, elapsed)
		ts.LastEventAt = now
		ts.LastLocation = location
		ts.LastStatus = newStatus
		ts.LastStatusChangeAt = now
		ts.UpdatedAt = now
		e.recomputeOvertime(ts)
	}

	if err := e.store.SaveTimesheet(ctx, ts); err != nil {
		return nil, fmt.Errorf("save timesheet: %w", err)
	}
	observability.RecordStatusEvent(string(newStatus))
	observability.RecordTimesheetSaved(now)

	e.appendAudit(ctx, AuditEntry{
		EmployeeEmail: employeeEmail,
		Action:        "UPDATE_MINI_JOB_CARD",
		Status:        fmt.Sprintf("%s to %s", oldStatus, newStatus),
		Location:      location,
		Date:          clock.Day(now),
		Time:          now,
	})
	return ts, nil
}

// EndDay closes the employee's session: it stamps the final event time and
// location, recomputes overtime, and returns the final snapshot. A missing
// timesheet is a no-active-session error and nothing is created.
func (e *Engine) EndDay(ctx context.Context, employeeEmail, endLocation string) (*Timesheet, error) {
	if strings.TrimSpace(employeeEmail) == "" {
		return nil, fmt.Errorf("%w: employee email is required", domain.ErrValidation)
	}

	now := e.clock.Now()
	ts, err := e.store.FindTimesheet(ctx, employeeEmail, clock.Day(now))
	if err != nil {
		return nil, fmt.Errorf("find timesheet: %w", err)
	}
	if ts == nil {
		return nil, fmt.Errorf("%w for %s on %s", domain.ErrNoActiveSession, employeeEmail, now.Format("2006-01-02"))
	}

	elapsed := minutesBetween(ts.LastStatusChangeAt, now)
	ts.credit(ts.LastStatus, elapsed)
	ts.LastEventAt = now
	ts.LastLocation = endLocation
	ts.LastStatusChangeAt = now
	ts.UpdatedAt = now
	e.recomputeOvertime(ts)

	if err := e.store.SaveTimesheet(ctx, ts); err != nil {
		return nil, fmt.Errorf("save timesheet: %w", err)
	}
	observability.RecordSessionEnded()
	observability.RecordTimesheetSaved(now)

	e.appendAudit(ctx, AuditEntry{
		EmployeeEmail: employeeEmail,
		Action:        "END_JOB_CARD",
		Status:        "END_DATE",
		Location:      endLocation,
		Date:          clock.Day(now),
		Time:          now,
	})
	return ts, nil
}

// DailySummary fetches the timesheet for one employee and day.
func (e *Engine) DailySummary(ctx context.Context, employeeEmail string, day time.Time) (*Timesheet, error) {
	if strings.TrimSpace(employeeEmail) == "" {
		return nil, fmt.Errorf("%w: employee email is required", domain.ErrValidation)
	}
	ts, err := e.store.FindTimesheet(ctx, employeeEmail, clock.Day(day))
	if err != nil {
		return nil, fmt.Errorf("find timesheet: %w", err)
	}
	if ts == nil {
		return nil, domain.ErrTimesheetNotFound
	}
	return ts, nil
}

// recomputeOvertime derives both overtime fields from scratch on every call.
// Overtime is a pure function of the first/last event times and the workday
// window, so repeated recomputation is idempotent regardless of update order.
func (e *Engine) recomputeOvertime(ts *Timesheet) {
	ts.MorningOTMinutes = 0
	ts.EveningOTMinutes = 0

	if first := clock.MinuteOfDay(ts.FirstEventAt); first < e.startMin {
		ts.MorningOTMinutes = e.startMin - first
	}
	if last := clock.MinuteOfDay(ts.LastEventAt); last > e.endMin {
		ts.EveningOTMinutes = last - e.endMin
	}
}

func (e *Engine) appendAudit(ctx context.Context, entry AuditEntry) {
	if e.audit == nil {
		return
	}
	if err := e.audit.Append(ctx, entry); err != nil {
		e.logger.Printf("audit append failed (employee=%s, action=%s): %v", entry.EmployeeEmail, entry.Action, err)
	}
}

// minutesBetween returns whole minutes from a to b, clamped at zero so clock
// skew can never drain a bucket.
func minutesBetween(a, b time.Time) int {
	minutes := int(b.Sub(a) / time.Minute)
	if minutes < 0 {
		return 0
	}
	return minutes
}
