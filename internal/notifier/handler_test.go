package notifier

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/isira-aw/Metropolitan-B/internal/events"
)

func TestAssignmentEmailComposition(t *testing.T) {
	evt := events.JobCardAssigned{
		JobCardID:     "jc-42",
		EmployeeEmail: "tech@metropolitan.lk",
		EmployeeName:  "Field Tech",
		GeneratorName: "Hilton Colombo Standby",
		JobType:       "REPAIR",
		Date:          "2025-11-03",
		EstimatedTime: "3h",
	}

	subject := assignmentSubject(evt)
	require.Equal(t, "New repair job card for Hilton Colombo Standby on 2025-11-03", subject)

	body := assignmentBody(evt)
	require.Contains(t, body, "Hello Field Tech,")
	require.Contains(t, body, "Generator: Hilton Colombo Standby")
	require.Contains(t, body, "Estimated time: 3h")
	require.Contains(t, body, "Job card: jc-42")
}

func TestAssignmentEmailOmitsBlankEstimate(t *testing.T) {
	evt := events.JobCardAssigned{
		JobCardID:     "jc-7",
		EmployeeName:  "Tech",
		GeneratorName: "Harbour Crane Unit",
		JobType:       "SERVICE",
		Date:          "2025-11-04",
	}

	body := assignmentBody(evt)
	require.NotContains(t, body, "Estimated time")
}

func TestSessionEmailComposition(t *testing.T) {
	evt := events.SessionEnded{
		EmployeeEmail:    "tech@metropolitan.lk",
		EmployeeName:     "Field Tech",
		Date:             "2025-11-03",
		FirstTime:        "07:15",
		LastTime:         "17:45",
		LastLocation:     "Hilton Colombo",
		MorningOTMinutes: 45,
		EveningOTMinutes: 45,
	}

	require.Equal(t, "Work summary for 2025-11-03", sessionSubject(evt))

	body := sessionBody(evt)
	require.Contains(t, body, "First event: 07:15")
	require.Contains(t, body, "Last event: 17:45")
	require.Contains(t, body, "Last location: Hilton Colombo")
	require.Contains(t, body, "Morning overtime: 45 min")
	require.Contains(t, body, "Evening overtime: 45 min")
}
