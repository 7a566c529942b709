package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/isira-aw/Metropolitan-B/internal/events"
	"github.com/isira-aw/Metropolitan-B/internal/tracking"
)

// FindTimesheet returns nil without error when no timesheet exists for the
// employee and day. Timestamps come back in the business timezone so the
// engine's minute-of-day arithmetic is stable.
func (r *Repository) FindTimesheet(ctx context.Context, employeeEmail string, day time.Time) (*tracking.Timesheet, error) {
	const query = `SELECT employee_email, date, first_event_at, last_event_at,
            COALESCE(first_location, ''), COALESCE(last_location, ''),
            on_hold_minutes, in_progress_minutes, assigned_minutes,
            morning_ot_minutes, evening_ot_minutes,
            last_status, last_status_change_at, created_at, updated_at
        FROM timesheets WHERE employee_email=$1 AND date=$2`

	row := r.pool.QueryRow(ctx, query, employeeEmail, day)
	var ts tracking.Timesheet
	if err := row.Scan(
		&ts.EmployeeEmail, &ts.Date, &ts.FirstEventAt, &ts.LastEventAt,
		&ts.FirstLocation, &ts.LastLocation,
		&ts.OnHoldMinutes, &ts.InProgressMinutes, &ts.AssignedMinutes,
		&ts.MorningOTMinutes, &ts.EveningOTMinutes,
		&ts.LastStatus, &ts.LastStatusChangeAt, &ts.CreatedAt, &ts.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	ts.FirstEventAt = ts.FirstEventAt.In(r.loc)
	ts.LastEventAt = ts.LastEventAt.In(r.loc)
	ts.LastStatusChangeAt = ts.LastStatusChangeAt.In(r.loc)
	return &ts, nil
}

// SaveTimesheet writes the full timesheet snapshot in one upsert so a crash
// can never leave a day half-credited.
func (r *Repository) SaveTimesheet(ctx context.Context, ts *tracking.Timesheet) error {
	const stmt = `INSERT INTO timesheets (employee_email, date, first_event_at, last_event_at,
            first_location, last_location,
            on_hold_minutes, in_progress_minutes, assigned_minutes,
            morning_ot_minutes, evening_ot_minutes,
            last_status, last_status_change_at, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        ON CONFLICT (employee_email, date) DO UPDATE SET
            last_event_at=EXCLUDED.last_event_at,
            last_location=EXCLUDED.last_location,
            on_hold_minutes=EXCLUDED.on_hold_minutes,
            in_progress_minutes=EXCLUDED.in_progress_minutes,
            assigned_minutes=EXCLUDED.assigned_minutes,
            morning_ot_minutes=EXCLUDED.morning_ot_minutes,
            evening_ot_minutes=EXCLUDED.evening_ot_minutes,
            last_status=EXCLUDED.last_status,
            last_status_change_at=EXCLUDED.last_status_change_at,
            updated_at=EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, stmt,
		ts.EmployeeEmail, ts.Date, ts.FirstEventAt, ts.LastEventAt,
		nullIfEmpty(ts.FirstLocation), nullIfEmpty(ts.LastLocation),
		ts.OnHoldMinutes, ts.InProgressMinutes, ts.AssignedMinutes,
		ts.MorningOTMinutes, ts.EveningOTMinutes,
		ts.LastStatus, ts.LastStatusChangeAt, ts.CreatedAt, ts.UpdatedAt,
	)
	return err
}

// Append records one employee action. The tracking engine treats failures here
// as non-fatal, so this insert carries no transaction of its own.
func (r *Repository) Append(ctx context.Context, entry tracking.AuditEntry) error {
	const stmt = `INSERT INTO audit_logs (employee_email, action, status, location, generator_name, date, time)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`

	_, err := r.pool.Exec(ctx, stmt,
		entry.EmployeeEmail,
		entry.Action,
		entry.Status,
		nullIfEmpty(entry.Location),
		nullIfEmpty(entry.GeneratorName),
		entry.Date,
		entry.Time,
	)
	return err
}

// EnqueueSessionEnded records a session.ended outbox event so the notifier can
// mail the employee their end-of-day summary.
func (r *Repository) EnqueueSessionEnded(ctx context.Context, evt events.SessionEnded) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	aggregateID := evt.EmployeeEmail + ":" + evt.Date
	if err := insertOutbox(ctx, tx, "session", events.TypeSessionEnded, aggregateID, evt.EmployeeEmail, evt); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
