package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/isira-aw/Metropolitan-B/internal/domain"
	"github.com/isira-aw/Metropolitan-B/internal/events"
)

// CreateJobCard persists the job card, its employee assignments, the fanned
// out mini job cards, and one jobcard.assigned outbox event per employee
// inside a single transaction.
func (r *Repository) CreateJobCard(ctx context.Context, card domain.JobCard, minis []domain.MiniJobCard, assigned []events.JobCardAssigned) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insertCard = `INSERT INTO job_cards (job_card_id, generator_id, job_type, date, estimated_time, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,NOW(),NOW())`
	if _, err := tx.Exec(ctx, insertCard, card.ID, card.GeneratorID, card.JobType, card.Date, nullIfEmpty(card.EstimatedTime)); err != nil {
		return err
	}

	for _, email := range card.EmployeeEmails {
		if _, err := tx.Exec(ctx,
			`INSERT INTO job_card_employees (job_card_id, employee_email) VALUES ($1,$2)`,
			card.ID, email,
		); err != nil {
			return err
		}
	}

	const insertMini = `INSERT INTO mini_job_cards (mini_job_card_id, job_card_id, employee_email, status, date, time, location, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW())`
	for _, mini := range minis {
		if _, err := tx.Exec(ctx, insertMini,
			mini.ID, mini.JobCardID, mini.EmployeeEmail, mini.Status, mini.Date, mini.Time, nullIfEmpty(mini.Location),
		); err != nil {
			return err
		}
	}

	for _, evt := range assigned {
		if err := insertOutbox(ctx, tx, "jobcard", events.TypeJobCardAssigned, evt.MiniJobCardID, evt.EmployeeEmail, evt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetJobCard returns nil when the id is unknown.
func (r *Repository) GetJobCard(ctx context.Context, id string) (*domain.JobCard, error) {
	const query = `SELECT jc.job_card_id, jc.generator_id, jc.job_type, jc.date, COALESCE(jc.estimated_time, ''), jc.created_at, jc.updated_at,
            COALESCE(array_agg(jce.employee_email) FILTER (WHERE jce.employee_email IS NOT NULL), '{}')
        FROM job_cards jc
        LEFT JOIN job_card_employees jce ON jce.job_card_id = jc.job_card_id
        WHERE jc.job_card_id=$1
        GROUP BY jc.job_card_id`

	row := r.pool.QueryRow(ctx, query, id)
	card, err := scanJobCard(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return card, nil
}

// ListJobCards returns job cards matching the optional filters, newest first.
func (r *Repository) ListJobCards(ctx context.Context, filter domain.JobCardFilter) ([]domain.JobCard, error) {
	query := `SELECT jc.job_card_id, jc.generator_id, jc.job_type, jc.date, COALESCE(jc.estimated_time, ''), jc.created_at, jc.updated_at,
            COALESCE(array_agg(jce.employee_email) FILTER (WHERE jce.employee_email IS NOT NULL), '{}')
        FROM job_cards jc
        LEFT JOIN job_card_employees jce ON jce.job_card_id = jc.job_card_id`

	var (
		conds []string
		args  []interface{}
	)
	appendCond := func(cond string, value interface{}) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.JobType != "" {
		appendCond("jc.job_type=$%d", filter.JobType)
	}
	if filter.GeneratorID != "" {
		appendCond("jc.generator_id=$%d", filter.GeneratorID)
	}
	if !filter.Date.IsZero() {
		appendCond("jc.date=$%d", filter.Date)
	}
	if filter.EmployeeEmail != "" {
		appendCond("jc.job_card_id IN (SELECT job_card_id FROM job_card_employees WHERE employee_email=$%d)", filter.EmployeeEmail)
	}

	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " GROUP BY jc.job_card_id ORDER BY jc.created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.JobCard
	for rows.Next() {
		card, err := scanJobCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *card)
	}
	return out, rows.Err()
}

// DeleteJobCard removes the job card; assignments and mini job cards cascade.
func (r *Repository) DeleteJobCard(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM job_cards WHERE job_card_id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrJobCardNotFound
	}
	return nil
}

// GetMiniJobCard returns nil when the id is unknown.
func (r *Repository) GetMiniJobCard(ctx context.Context, id string) (*domain.MiniJobCard, error) {
	const query = `SELECT mini_job_card_id, job_card_id, employee_email, status, date, time, COALESCE(location, ''), created_at, updated_at
        FROM mini_job_cards WHERE mini_job_card_id=$1`

	row := r.pool.QueryRow(ctx, query, id)
	mini, err := r.scanMiniJobCard(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return mini, nil
}

// ListMiniJobCards returns mini job cards matching the optional filters,
// newest first.
func (r *Repository) ListMiniJobCards(ctx context.Context, filter domain.MiniJobCardFilter) ([]domain.MiniJobCard, error) {
	query := `SELECT mini_job_card_id, job_card_id, employee_email, status, date, time, COALESCE(location, ''), created_at, updated_at
        FROM mini_job_cards`

	var (
		conds []string
		args  []interface{}
	)
	appendCond := func(cond string, value interface{}) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.EmployeeEmail != "" {
		appendCond("employee_email=$%d", filter.EmployeeEmail)
	}
	if !filter.Date.IsZero() {
		appendCond("date=$%d", filter.Date)
	}
	if filter.JobCardID != "" {
		appendCond("job_card_id=$%d", filter.JobCardID)
	}
	if filter.Status != "" {
		appendCond("status=$%d", filter.Status)
	}

	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MiniJobCard
	for rows.Next() {
		mini, err := r.scanMiniJobCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *mini)
	}
	return out, rows.Err()
}

// UpdateMiniJobCard persists the status/location/time update and records the
// jobcard.status_changed outbox event in the same transaction.
func (r *Repository) UpdateMiniJobCard(ctx context.Context, mini domain.MiniJobCard, changed events.JobStatusChanged) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const stmt = `UPDATE mini_job_cards
        SET status=$2, date=$3, time=$4, location=$5, updated_at=NOW()
        WHERE mini_job_card_id=$1`
	tag, err := tx.Exec(ctx, stmt, mini.ID, mini.Status, mini.Date, mini.Time, nullIfEmpty(mini.Location))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMiniJobCardNotFound
	}

	if err := insertOutbox(ctx, tx, "jobcard", events.TypeJobStatusChanged, mini.ID, mini.ID, changed); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func scanJobCard(row pgx.Row) (*domain.JobCard, error) {
	var card domain.JobCard
	if err := row.Scan(&card.ID, &card.GeneratorID, &card.JobType, &card.Date, &card.EstimatedTime, &card.CreatedAt, &card.UpdatedAt, &card.EmployeeEmails); err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *Repository) scanMiniJobCard(row pgx.Row) (*domain.MiniJobCard, error) {
	var mini domain.MiniJobCard
	if err := row.Scan(&mini.ID, &mini.JobCardID, &mini.EmployeeEmail, &mini.Status, &mini.Date, &mini.Time, &mini.Location, &mini.CreatedAt, &mini.UpdatedAt); err != nil {
		return nil, err
	}
	mini.Time = mini.Time.In(r.loc)
	return &mini, nil
}

// EventMetadata describes how to route an outbox event.
type EventMetadata struct {
	Topic         string
	SchemaSubject string
}

var eventCatalog = map[string]EventMetadata{
	events.TypeJobCardAssigned: {
		Topic:         "jobcard_events",
		SchemaSubject: "jobcard_events-value",
	},
	events.TypeJobStatusChanged: {
		Topic:         "jobcard_status_changed",
		SchemaSubject: "jobcard_status_changed-value",
	},
	events.TypeSessionEnded: {
		Topic:         "session_events",
		SchemaSubject: "session_events-value",
	},
}

func insertOutbox(ctx context.Context, tx pgx.Tx, aggregateType, eventType, aggregateID, partitionKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	meta, ok := eventCatalog[eventType]
	if !ok {
		return fmt.Errorf("unknown event type: %s", eventType)
	}
	dedupeKey := fmt.Sprintf("%s:%s:%d", aggregateID, eventType, time.Now().UnixNano())

	const stmt = `INSERT INTO outbox (aggregate_type, aggregate_id, event_type, topic, schema_subject, partition_key, payload, dedupe_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	_, err = tx.Exec(ctx, stmt,
		aggregateType,
		aggregateID,
		eventType,
		meta.Topic,
		meta.SchemaSubject,
		partitionKey,
		body,
		dedupeKey,
	)
	return err
}
