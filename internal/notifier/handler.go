package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/isira-aw/Metropolitan-B/internal/events"
)

// NotificationHandler turns assignment and end-of-day events into emails.
// Every attempt is recorded in email_records so ops can audit deliveries.
type NotificationHandler struct {
	pool   *pgxpool.Pool
	mailer Mailer
}

// NewNotificationHandler constructs a handler backed by the provided pool and mailer.
func NewNotificationHandler(pool *pgxpool.Pool, mailer Mailer) *NotificationHandler {
	return &NotificationHandler{pool: pool, mailer: mailer}
}

// Handle routes the event to the matching email composer. Unknown event types
// are ignored so new producers can roll out ahead of the notifier.
func (h *NotificationHandler) Handle(ctx context.Context, msg Message) error {
	switch msg.EventType {
	case events.TypeJobCardAssigned:
		var evt events.JobCardAssigned
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return fmt.Errorf("unmarshal %s: %w", msg.EventType, err)
		}
		return h.sendAndRecord(ctx, msg.EventType, evt.EmployeeEmail, assignmentSubject(evt), assignmentBody(evt))
	case events.TypeSessionEnded:
		var evt events.SessionEnded
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return fmt.Errorf("unmarshal %s: %w", msg.EventType, err)
		}
		return h.sendAndRecord(ctx, msg.EventType, evt.EmployeeEmail, sessionSubject(evt), sessionBody(evt))
	default:
		return nil
	}
}

func (h *NotificationHandler) sendAndRecord(ctx context.Context, eventType, to, subject, body string) error {
	status := "SENT"
	var sendErr error
	if sendErr = h.mailer.Send(to, subject, body); sendErr != nil {
		status = "FAILED"
	} else {
		recordEmailSent(eventType)
	}

	const stmt = `INSERT INTO email_records (recipient, subject, body, event_type, status, error, sent_at)
        VALUES ($1,$2,$3,$4,$5,$6,NOW())`
	errText := ""
	if sendErr != nil {
		errText = sendErr.Error()
	}
	if _, err := h.pool.Exec(ctx, stmt, to, subject, body, eventType, status, nullableText(errText)); err != nil {
		return fmt.Errorf("record email: %w", err)
	}
	return sendErr
}

func assignmentSubject(evt events.JobCardAssigned) string {
	return fmt.Sprintf("New %s job card for %s on %s", strings.ToLower(evt.JobType), evt.GeneratorName, evt.Date)
}

func assignmentBody(evt events.JobCardAssigned) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hello %s,\n\n", evt.EmployeeName)
	fmt.Fprintf(&sb, "You have been assigned a %s job card.\n\n", strings.ToLower(evt.JobType))
	fmt.Fprintf(&sb, "Generator: %s\n", evt.GeneratorName)
	fmt.Fprintf(&sb, "Date: %s\n", evt.Date)
	if evt.EstimatedTime != "" {
		fmt.Fprintf(&sb, "Estimated time: %s\n", evt.EstimatedTime)
	}
	fmt.Fprintf(&sb, "Job card: %s\n", evt.JobCardID)
	sb.WriteString("\nPlease update your status in the app once you start work.\n")
	return sb.String()
}

func sessionSubject(evt events.SessionEnded) string {
	return fmt.Sprintf("Work summary for %s", evt.Date)
}

func sessionBody(evt events.SessionEnded) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hello %s,\n\n", evt.EmployeeName)
	fmt.Fprintf(&sb, "Your working day on %s has been closed.\n\n", evt.Date)
	fmt.Fprintf(&sb, "First event: %s\n", evt.FirstTime)
	fmt.Fprintf(&sb, "Last event: %s\n", evt.LastTime)
	if evt.LastLocation != "" {
		fmt.Fprintf(&sb, "Last location: %s\n", evt.LastLocation)
	}
	fmt.Fprintf(&sb, "Morning overtime: %d min\n", evt.MorningOTMinutes)
	fmt.Fprintf(&sb, "Evening overtime: %d min\n", evt.EveningOTMinutes)
	return sb.String()
}

// EventLogHandler archives status transition events into Postgres for
// downstream reporting.
type EventLogHandler struct {
	pool *pgxpool.Pool
}

// NewEventLogHandler constructs a handler backed by the provided pool.
func NewEventLogHandler(pool *pgxpool.Pool) *EventLogHandler {
	return &EventLogHandler{pool: pool}
}

// Handle stores the event payload in the jobcard_event_log table.
func (h *EventLogHandler) Handle(ctx context.Context, msg Message) error {
	_, err := h.pool.Exec(ctx,
		`INSERT INTO jobcard_event_log (event_type, schema_id, schema_subject, topic, partition, record_offset, payload, received_at)
         VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		msg.EventType,
		msg.SchemaID,
		msg.SchemaSubject,
		msg.Topic,
		msg.Partition,
		msg.Offset,
		msg.Payload,
		msg.Timestamp,
	)
	return err
}

func nullableText(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
