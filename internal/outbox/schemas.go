package outbox

const jobCardAssignedSchema = `{
  "type": "object",
  "title": "JobCardAssigned",
  "properties": {
    "job_card_id": {"type": "string"},
    "mini_job_card_id": {"type": "string"},
    "employee_email": {"type": "string"},
    "employee_name": {"type": "string"},
    "generator_name": {"type": "string"},
    "job_type": {"type": "string"},
    "date": {"type": "string", "format": "date"},
    "estimated_time": {"type": "string"},
    "assigned_at": {"type": "string", "format": "date-time"}
  },
  "required": ["job_card_id", "mini_job_card_id", "employee_email", "employee_name", "generator_name", "job_type", "date", "assigned_at"],
  "additionalProperties": false
}`

const jobStatusChangedSchema = `{
  "type": "object",
  "title": "JobStatusChanged",
  "properties": {
    "mini_job_card_id": {"type": "string"},
    "job_card_id": {"type": "string"},
    "employee_email": {"type": "string"},
    "old_status": {"type": "string"},
    "new_status": {"type": "string"},
    "location": {"type": "string"},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["mini_job_card_id", "job_card_id", "employee_email", "old_status", "new_status", "occurred_at"],
  "additionalProperties": false
}`

const sessionEndedSchema = `{
  "type": "object",
  "title": "SessionEnded",
  "properties": {
    "employee_email": {"type": "string"},
    "employee_name": {"type": "string"},
    "date": {"type": "string", "format": "date"},
    "first_time": {"type": "string"},
    "last_time": {"type": "string"},
    "last_location": {"type": "string"},
    "morning_ot_minutes": {"type": "integer"},
    "evening_ot_minutes": {"type": "integer"},
    "ended_at": {"type": "string", "format": "date-time"}
  },
  "required": ["employee_email", "employee_name", "date", "first_time", "last_time", "morning_ot_minutes", "evening_ot_minutes", "ended_at"],
  "additionalProperties": false
}`
